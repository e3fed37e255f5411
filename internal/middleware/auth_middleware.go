package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	jwtPkg "github.com/lensfolio/lensfolio-backend/pkg/jwt"
)

// AuthMiddleware resolves the acting user from the Bearer token and stashes
// identity and moderator status in locals for the handlers.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid user ID in token"))
		}

		isModerator, _ := claims["is_moderator"].(bool)

		c.Locals("userID", uint(userIDFloat))
		c.Locals("isModerator", isModerator)

		return c.Next()
	}
}

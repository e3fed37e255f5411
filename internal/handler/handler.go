package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

// respondError maps the sentinel taxonomy onto HTTP statuses. Every failure
// stays renderable; nothing escalates past a JSON error envelope.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrPermissionDenied):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateName):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrProfileRequired),
		errors.Is(err, models.ErrTermsNotAccepted):
		status = fiber.StatusPreconditionFailed
	case errors.Is(err, models.ErrSessionExpired):
		status = fiber.StatusGone
	case errors.Is(err, models.ErrUpstreamFailure):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(models.ErrorResponse(err.Error()))
}

func actingUser(c *fiber.Ctx) (uint, bool) {
	userID, _ := c.Locals("userID").(uint)
	isModerator, _ := c.Locals("isModerator").(bool)
	return userID, isModerator
}

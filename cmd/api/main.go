package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/lensfolio/lensfolio-backend/internal/config"
	"github.com/lensfolio/lensfolio-backend/internal/handler"
	"github.com/lensfolio/lensfolio-backend/internal/middleware"
	"github.com/lensfolio/lensfolio-backend/internal/repository"
	"github.com/lensfolio/lensfolio-backend/internal/service"
	"github.com/lensfolio/lensfolio-backend/pkg/database"
	"github.com/lensfolio/lensfolio-backend/pkg/email"
	"github.com/lensfolio/lensfolio-backend/pkg/imaging"
	"github.com/lensfolio/lensfolio-backend/pkg/logging"
	"github.com/lensfolio/lensfolio-backend/pkg/storage"
	"github.com/lensfolio/lensfolio-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	logger, err := logging.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	db := database.NewDatabase()
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	moderationRepo := repository.NewModerationRepository(db)

	// Storage
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// Collaborators
	emailService := email.NewEmailService(cfg.ModerationChannel, logger)
	pipeline := imaging.NewPipeline(cfg.MaxImageDimension, cfg.MaxUploadBytes)

	// Services
	authService := service.NewAuthService(userRepo)
	profileService := service.NewProfileService(
		profileRepo,
		moderationRepo,
		userRepo,
		emailService,
		cfg.WizardTimeout,
		logger,
	)
	galleryService := service.NewGalleryService(
		libraryRepo,
		profileRepo,
		r2Storage,
		pipeline,
		cfg.BrowserTimeout,
		logger,
	)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	profileHandler := handler.NewProfileHandler(profileService, validator)
	galleryHandler := handler.NewGalleryHandler(galleryService, validator)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		// Profile workflow
		api.Get("/profile", profileHandler.GetMyProfile)
		api.Post("/profile/setup", profileHandler.StartSetup)
		api.Post("/profile/setup/:sessionID/actions", profileHandler.SetupAction)
		api.Get("/profiles/:userID", profileHandler.GetProfile)

		// Moderation
		api.Get("/moderation/profiles", profileHandler.PendingRequests)
		api.Post("/moderation/profiles/:userID/:action", profileHandler.Moderate)

		// Upload workflow
		gallery := api.Group("/gallery")
		gallery.Get("/", galleryHandler.Overview)
		gallery.Post("/terms/accept", galleryHandler.AcceptTerms)
		gallery.Post("/folders", galleryHandler.CreateFolder)
		gallery.Post("/photos", galleryHandler.Upload)

		// Browsing
		api.Get("/photos/:userID/folders", galleryHandler.ListFolders)
		api.Post("/photos/:userID/browse", galleryHandler.StartBrowse)
		api.Post("/photos/browse/:sessionID/actions", galleryHandler.BrowseAction)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info(context.Background(), "starting server", "port", port)
	log.Fatal(app.Listen(":" + port))
}

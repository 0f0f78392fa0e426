package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/imagedrop/imagedrop-backend/internal/config"
	"github.com/imagedrop/imagedrop-backend/internal/handler"
	"github.com/imagedrop/imagedrop-backend/internal/models"
	"github.com/imagedrop/imagedrop-backend/internal/repository"
	"github.com/imagedrop/imagedrop-backend/internal/service"
	"github.com/imagedrop/imagedrop-backend/pkg/database"
	"github.com/imagedrop/imagedrop-backend/pkg/logger"
	"github.com/imagedrop/imagedrop-backend/pkg/storage"
	"github.com/imagedrop/imagedrop-backend/pkg/utils"
)

func main() {
	// .env is optional; in production everything comes from the environment.
	_ = godotenv.Load()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Database
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Media host
	media, err := newMediaHost(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize media host", zap.Error(err))
	}

	// Repositories
	imageRepo := repository.NewImageRepository(db)

	// Validator
	validator := utils.NewValidator()

	// Services
	imageService := service.NewImageService(imageRepo, media, validator, zapLogger)

	// Handlers
	imageHandler := handler.NewImageHandler(imageService, zapLogger)

	// Router; body limit sized for large base64 payloads
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Use(cors.New())
	app.Use(fiberlogger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(models.Message("working beautifully"))
	})

	api := app.Group("/api")
	api.Post("/upload", imageHandler.Upload)
	api.Get("/allImages", imageHandler.GetAllImages)
	api.Put("/image/:id", imageHandler.UpdateImageTitle)
	api.Delete("/image/:id", imageHandler.DeleteImage)

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zapLogger.Fatal("Server stopped", zap.Error(err))
		}
	}()
	zapLogger.Info("Serving", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		zapLogger.Error("Database close failed", zap.Error(err))
	}
}

func newMediaHost(cfg *config.Config) (storage.MediaHost, error) {
	if cfg.MediaBackend == config.BackendS3 {
		return storage.NewS3MediaHost(cfg)
	}
	return storage.NewCloudinary(cfg), nil
}

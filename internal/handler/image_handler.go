package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/imagedrop/imagedrop-backend/internal/models"
	"github.com/imagedrop/imagedrop-backend/internal/service"
	"github.com/imagedrop/imagedrop-backend/pkg/apperr"
)

type ImageHandler struct {
	imageService *service.ImageService
	logger       *zap.Logger
}

func NewImageHandler(imageService *service.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	var req models.UploadImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.Message("invalid request body"))
	}

	image, err := h.imageService.Upload(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(models.UploadResponse{
		Msg: "image uploaded successfully",
		ID:  image.ID,
	})
}

func (h *ImageHandler) GetAllImages(c *fiber.Ctx) error {
	images, err := h.imageService.GetAll()
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(images)
}

func (h *ImageHandler) UpdateImageTitle(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.Message("invalid request body"))
	}

	if _, err := h.imageService.Rename(id, req.NewTitle); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(models.Message("image title updated"))
}

func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.imageService.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(models.Message("image deleted successfully"))
}

// fail maps the error kind to a status and returns only the safe message.
// Upstream causes are logged here, never echoed to the client.
func (h *ImageHandler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "something went wrong"

	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Error()
		switch ae.Kind() {
		case apperr.ClientInput:
			status = fiber.StatusBadRequest
		case apperr.NotFound:
			status = fiber.StatusNotFound
		}
	}

	if status == fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(models.Message(msg))
}

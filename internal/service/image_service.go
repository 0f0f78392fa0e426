package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imagedrop/imagedrop-backend/internal/models"
	"github.com/imagedrop/imagedrop-backend/pkg/apperr"
	"github.com/imagedrop/imagedrop-backend/pkg/storage"
	"github.com/imagedrop/imagedrop-backend/pkg/utils"
)

// ImageStore is the metadata side of the workflow. The gorm repository
// implements it; tests substitute an in-memory fake.
type ImageStore interface {
	Create(image *models.Image) error
	GetAll() ([]models.Image, error)
	UpdateTitle(id, newTitle string) (*models.Image, error)
	Delete(id string) (*models.Image, error)
}

type ImageService struct {
	images    ImageStore
	media     storage.MediaHost
	validator *utils.Validator
	logger    *zap.Logger
}

func NewImageService(images ImageStore, media storage.MediaHost, validator *utils.Validator, logger *zap.Logger) *ImageService {
	return &ImageService{
		images:    images,
		media:     media,
		validator: validator,
		logger:    logger,
	}
}

// Upload validates the payload, forwards it to the media host and persists
// the resulting record. The two external calls are not transactional: when
// the store write fails after a successful upload, a best-effort destroy of
// the fresh asset is attempted, and if that also fails the asset is orphaned.
func (s *ImageService) Upload(ctx context.Context, req models.UploadImageRequest) (*models.Image, error) {
	if err := s.validateUpload(req); err != nil {
		return nil, err
	}

	result, err := s.media.UploadLarge(ctx, req.Image)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "image upload failed", err)
	}

	image := &models.Image{
		Title:    req.Title,
		ImageURL: result.SecureURL,
		AssetID:  result.AssetID,
	}

	if err := s.images.Create(image); err != nil {
		if cleanupErr := s.media.Destroy(ctx, result.AssetID); cleanupErr != nil {
			s.logger.Warn("media asset orphaned after failed record create",
				zap.String("asset_id", result.AssetID),
				zap.Error(cleanupErr),
			)
		}
		return nil, apperr.Wrap(apperr.Upstream, "image upload failed", err)
	}

	return image, nil
}

func (s *ImageService) GetAll() ([]models.Image, error) {
	images, err := s.images.GetAll()
	if err != nil {
		return nil, apperr.AsUpstream(err, "could not list images")
	}
	return images, nil
}

// Rename changes only the title. The hosted URL and asset id are immutable.
func (s *ImageService) Rename(id, newTitle string) (*models.Image, error) {
	image, err := s.images.UpdateTitle(id, newTitle)
	if err != nil {
		return nil, apperr.AsUpstream(err, "could not update image")
	}
	return image, nil
}

// Delete removes the record first and cleans up the remote asset second. A
// destroy failure after the record is gone leaves the asset orphaned on the
// media host; it is logged and the delete still reported as successful.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	image, err := s.images.Delete(id)
	if err != nil {
		return apperr.AsUpstream(err, "could not delete image")
	}

	if err := s.media.Destroy(ctx, image.AssetID); err != nil {
		s.logger.Warn("media asset orphaned after record delete",
			zap.String("asset_id", image.AssetID),
			zap.Error(err),
		)
	}

	return nil
}

func (s *ImageService) validateUpload(req models.UploadImageRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			if fieldErr.Field() != "Image" {
				continue
			}
			switch fieldErr.Tag() {
			case "required":
				return apperr.New(apperr.ClientInput, "image is required")
			case "image_data_uri":
				return apperr.New(apperr.ClientInput, "invalid base64 image provided")
			}
		}
	}

	return apperr.Wrap(apperr.ClientInput, "invalid upload request", err)
}

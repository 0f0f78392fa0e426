package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/imagedrop/imagedrop-backend/internal/models"
	"github.com/imagedrop/imagedrop-backend/pkg/apperr"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{
		db: db,
	}
}

func (r *ImageRepository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// GetAll returns every image record, newest first. An empty table is reported
// as not-found, which the list endpoint surfaces as 404.
func (r *ImageRepository) GetAll() ([]models.Image, error) {
	var images []models.Image
	if err := r.db.Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperr.New(apperr.NotFound, "no images found")
	}
	return images, nil
}

func (r *ImageRepository) UpdateTitle(id, newTitle string) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "image not found")
		}
		return nil, err
	}

	if err := r.db.Model(&image).Update("title", newTitle).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Delete removes the record and returns it so the caller can clean up the
// remote asset afterwards.
func (r *ImageRepository) Delete(id string) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "image not found")
		}
		return nil, err
	}

	if err := r.db.Delete(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

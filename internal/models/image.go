package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is the persisted record for one hosted asset. ImageURL and AssetID
// come from the media host at upload time and never change afterwards.
type Image struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl" gorm:"not null"`
	AssetID   string    `json:"assetId" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type UploadImageRequest struct {
	Image string `json:"image" validate:"required,image_data_uri"`
	Title string `json:"title"`
}

type UpdateImageRequest struct {
	NewTitle string `json:"newTitle"`
}

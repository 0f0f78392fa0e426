package config

import (
	"fmt"
	"os"
	"time"
)

const (
	BackendCloudinary = "cloudinary"
	BackendS3         = "s3"

	defaultUploadTimeout = 5 * time.Minute
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type S3Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	DatabaseURL        string
	Port               string
	MediaBackend       string
	MediaUploadTimeout time.Duration
	Cloudinary         CloudinaryConfig
	S3                 S3Config
}

// Load reads the configuration from the environment and validates the
// variables required by the selected media backend.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               getEnv("PORT", "8080"),
		MediaBackend:       getEnv("MEDIA_BACKEND", BackendCloudinary),
		MediaUploadTimeout: defaultUploadTimeout,
	}

	if raw := os.Getenv("MEDIA_UPLOAD_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MEDIA_UPLOAD_TIMEOUT %q: %w", raw, err)
		}
		cfg.MediaUploadTimeout = timeout
	}

	cfg.Cloudinary.CloudName = os.Getenv("CLOUDINARY_CLOUD_NAME")
	cfg.Cloudinary.APIKey = os.Getenv("CLOUDINARY_API_KEY")
	cfg.Cloudinary.APISecret = os.Getenv("CLOUDINARY_API_SECRET")

	cfg.S3.AccountID = os.Getenv("S3_ACCOUNT_ID")
	cfg.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.PublicURL = os.Getenv("S3_PUBLIC_URL")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	switch cfg.MediaBackend {
	case BackendCloudinary:
		if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
			return nil, fmt.Errorf("cloudinary backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case BackendS3:
		if cfg.S3.AccountID == "" || cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" || cfg.S3.Bucket == "" || cfg.S3.PublicURL == "" {
			return nil, fmt.Errorf("s3 backend requires S3_ACCOUNT_ID, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_BUCKET and S3_PUBLIC_URL")
		}
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

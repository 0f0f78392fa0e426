package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/imagedrop")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("MEDIA_UPLOAD_TIMEOUT", "")
	t.Setenv("PORT", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendCloudinary, cfg.MediaBackend)
	require.Equal(t, 5*time.Minute, cfg.MediaUploadTimeout)
	require.Equal(t, "demo", cfg.Cloudinary.CloudName)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMissingCloudinaryCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CLOUDINARY_API_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadS3Backend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MEDIA_BACKEND", "s3")

	_, err := Load()
	require.Error(t, err) // no bucket credentials yet

	t.Setenv("S3_ACCOUNT_ID", "acc")
	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("S3_PUBLIC_URL", "https://cdn.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendS3, cfg.MediaBackend)
	require.Equal(t, "images", cfg.S3.Bucket)
}

func TestLoadUploadTimeout(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MEDIA_UPLOAD_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.MediaUploadTimeout)
}

func TestLoadInvalidUploadTimeout(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MEDIA_UPLOAD_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadUnknownBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MEDIA_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
}

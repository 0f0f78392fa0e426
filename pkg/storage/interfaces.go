package storage

import "context"

// UploadResult is what the media host hands back for a stored asset.
type UploadResult struct {
	SecureURL string
	AssetID   string
}

// MediaHost stores the actual image bytes with a third party. Implementations
// must be safe for concurrent use.
type MediaHost interface {
	// UploadLarge accepts a base64 data URI and returns the durable URL and
	// the opaque id addressing the asset for later deletion.
	UploadLarge(ctx context.Context, payload string) (*UploadResult, error)
	Destroy(ctx context.Context, assetID string) error
}

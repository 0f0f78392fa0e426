package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imagedrop/imagedrop-backend/internal/models"
	"github.com/imagedrop/imagedrop-backend/pkg/apperr"
	"github.com/imagedrop/imagedrop-backend/pkg/storage"
	"github.com/imagedrop/imagedrop-backend/pkg/utils"
)

type fakeStore struct {
	images    map[string]*models.Image
	createErr error
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{images: make(map[string]*models.Image)}
}

func (f *fakeStore) Create(image *models.Image) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	image.ID = string(rune('a' + f.nextID - 1))
	stored := *image
	f.images[image.ID] = &stored
	return nil
}

func (f *fakeStore) GetAll() ([]models.Image, error) {
	if len(f.images) == 0 {
		return nil, apperr.New(apperr.NotFound, "no images found")
	}
	var all []models.Image
	for _, image := range f.images {
		all = append(all, *image)
	}
	return all, nil
}

func (f *fakeStore) UpdateTitle(id, newTitle string) (*models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "image not found")
	}
	image.Title = newTitle
	return image, nil
}

func (f *fakeStore) Delete(id string) (*models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "image not found")
	}
	delete(f.images, id)
	return image, nil
}

type fakeMedia struct {
	uploads    int
	destroyed  []string
	uploadErr  error
	destroyErr error
	result     storage.UploadResult
}

func (f *fakeMedia) UploadLarge(ctx context.Context, payload string) (*storage.UploadResult, error) {
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	result := f.result
	return &result, nil
}

func (f *fakeMedia) Destroy(ctx context.Context, assetID string) error {
	f.destroyed = append(f.destroyed, assetID)
	return f.destroyErr
}

func newTestService(store *fakeStore, media *fakeMedia) *ImageService {
	return NewImageService(store, media, utils.NewValidator(), zap.NewNop())
}

func requireKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	kind, ok := apperr.KindOf(err)
	require.True(t, ok, "error carries no kind: %v", err)
	require.Equal(t, want, kind)
}

func TestUploadPersistsHostedAsset(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{result: storage.UploadResult{
		SecureURL: "https://host/x.jpg",
		AssetID:   "abc123",
	}}
	svc := newTestService(store, media)

	image, err := svc.Upload(context.Background(), models.UploadImageRequest{
		Image: "data:image/jpeg;base64,AAAA",
		Title: "cat",
	})
	require.NoError(t, err)

	require.Len(t, store.images, 1)
	stored := store.images[image.ID]
	require.Equal(t, "cat", stored.Title)
	require.Equal(t, "https://host/x.jpg", stored.ImageURL)
	require.Equal(t, "abc123", stored.AssetID)
}

func TestUploadMissingImage(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{}
	svc := newTestService(store, media)

	_, err := svc.Upload(context.Background(), models.UploadImageRequest{Title: "cat"})
	requireKind(t, err, apperr.ClientInput)

	require.Zero(t, media.uploads, "media host must not be called")
	require.Empty(t, store.images)
}

func TestUploadMalformedPrefix(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{}
	svc := newTestService(store, media)

	_, err := svc.Upload(context.Background(), models.UploadImageRequest{
		Image: "data:image/png;base64,AAAA",
	})
	requireKind(t, err, apperr.ClientInput)
	require.Zero(t, media.uploads)
}

func TestUploadMediaHostFailure(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{uploadErr: errors.New("quota exceeded")}
	svc := newTestService(store, media)

	_, err := svc.Upload(context.Background(), models.UploadImageRequest{
		Image: "data:image/jpeg;base64,AAAA",
	})
	requireKind(t, err, apperr.Upstream)
	require.Empty(t, store.images)
	require.Empty(t, media.destroyed)
}

func TestUploadStoreFailureCleansUpAsset(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection lost")
	media := &fakeMedia{result: storage.UploadResult{
		SecureURL: "https://host/x.jpg",
		AssetID:   "abc123",
	}}
	svc := newTestService(store, media)

	_, err := svc.Upload(context.Background(), models.UploadImageRequest{
		Image: "data:image/jpeg;base64,AAAA",
	})
	requireKind(t, err, apperr.Upstream)
	require.Equal(t, []string{"abc123"}, media.destroyed)
}

func TestUploadStoreFailureCleanupBestEffort(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection lost")
	media := &fakeMedia{
		result:     storage.UploadResult{SecureURL: "https://host/x.jpg", AssetID: "abc123"},
		destroyErr: errors.New("host unreachable"),
	}
	svc := newTestService(store, media)

	// the asset stays orphaned; the caller still sees the store failure
	_, err := svc.Upload(context.Background(), models.UploadImageRequest{
		Image: "data:image/jpeg;base64,AAAA",
	})
	requireKind(t, err, apperr.Upstream)
}

func TestGetAllEmptyIsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeMedia{})

	_, err := svc.GetAll()
	requireKind(t, err, apperr.NotFound)
}

func TestRenameChangesOnlyTitle(t *testing.T) {
	store := newFakeStore()
	store.images["a"] = &models.Image{
		ID:       "a",
		Title:    "old",
		ImageURL: "https://host/x.jpg",
		AssetID:  "abc123",
	}
	svc := newTestService(store, &fakeMedia{})

	image, err := svc.Rename("a", "new")
	require.NoError(t, err)
	require.Equal(t, "new", image.Title)
	require.Equal(t, "https://host/x.jpg", image.ImageURL)
	require.Equal(t, "abc123", image.AssetID)
}

func TestRenameUnknownID(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeMedia{})

	_, err := svc.Rename("doesnotexist", "x")
	requireKind(t, err, apperr.NotFound)
}

func TestDeleteRemovesRecordThenAsset(t *testing.T) {
	store := newFakeStore()
	store.images["a"] = &models.Image{ID: "a", AssetID: "abc123"}
	media := &fakeMedia{}
	svc := newTestService(store, media)

	require.NoError(t, svc.Delete(context.Background(), "a"))
	require.Empty(t, store.images)
	require.Equal(t, []string{"abc123"}, media.destroyed)
}

func TestDeleteUnknownIDSkipsMediaHost(t *testing.T) {
	media := &fakeMedia{}
	svc := newTestService(newFakeStore(), media)

	err := svc.Delete(context.Background(), "doesnotexist")
	requireKind(t, err, apperr.NotFound)
	require.Empty(t, media.destroyed)
}

func TestDeleteSucceedsWhenDestroyFails(t *testing.T) {
	store := newFakeStore()
	store.images["a"] = &models.Image{ID: "a", AssetID: "abc123"}
	media := &fakeMedia{destroyErr: errors.New("host unreachable")}
	svc := newTestService(store, media)

	// the record is gone first; the failed destroy only orphans the asset
	require.NoError(t, svc.Delete(context.Background(), "a"))
	require.Empty(t, store.images)
}

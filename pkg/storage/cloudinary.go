package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imagedrop/imagedrop-backend/internal/config"
)

// Chunk size for the large-object upload path. Cloudinary requires at least
// 5MB per chunk except for the final one.
const defaultChunkSize = 20 * 1024 * 1024

type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	chunkSize int
	client    *http.Client
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type cloudinaryDestroyResponse struct {
	Result string `json:"result"`
}

func NewCloudinary(cfg *config.Config) *Cloudinary {
	client := &http.Client{
		Timeout: cfg.MediaUploadTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Cloudinary{
		cloudName: cfg.Cloudinary.CloudName,
		apiKey:    cfg.Cloudinary.APIKey,
		apiSecret: cfg.Cloudinary.APISecret,
		baseURL:   "https://api.cloudinary.com/v1_1",
		chunkSize: defaultChunkSize,
		client:    client,
	}
}

// UploadLarge sends the payload through Cloudinary's chunked upload endpoint.
// Every chunk of one payload shares an upload id; the response to the final
// chunk carries the durable URL and public id.
func (c *Cloudinary) UploadLarge(ctx context.Context, payload string) (*UploadResult, error) {
	data, err := decodeDataURI(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	uploadID := uuid.NewString()
	total := len(data)

	var last *cloudinaryUploadResponse
	for start := 0; start < total; start += c.chunkSize {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		last, err = c.uploadChunk(ctx, uploadID, data[start:end], start, end, total)
		if err != nil {
			return nil, err
		}
	}

	if last == nil || last.PublicID == "" {
		return nil, fmt.Errorf("cloudinary: upload finished without an asset id")
	}

	return &UploadResult{
		SecureURL: last.SecureURL,
		AssetID:   last.PublicID,
	}, nil
}

func (c *Cloudinary) uploadChunk(ctx context.Context, uploadID string, chunk []byte, start, end, total int) (*cloudinaryUploadResponse, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"signature": c.sign(map[string]string{"timestamp": timestamp}),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to add form field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(chunk)); err != nil {
		return nil, fmt.Errorf("failed to copy chunk: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Unique-Upload-Id", uploadID)
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, total))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cloudinary returned non-OK status: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var response cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary returned error: %s", response.Error.Message)
	}

	return &response, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, assetID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	form.Set("public_id", assetID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(map[string]string{
		"public_id": assetID,
		"timestamp": timestamp,
	}))

	destroyURL := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destroyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudinary returned non-OK status: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var response cloudinaryDestroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Result != "ok" {
		return fmt.Errorf("cloudinary destroy returned %q", response.Result)
	}

	return nil
}

// sign builds the request signature: the sorted parameters joined with '&',
// suffixed with the API secret, hashed with SHA-1.
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

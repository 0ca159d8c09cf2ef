package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/billbotdev/billbot/internal/storage"
)

const uploadTimeout = 60 * time.Second

// Provider uploads images through the unsigned upload-preset API.
type Provider struct {
	logger       *slog.Logger
	httpClient   *http.Client
	baseURL      string
	cloudName    string
	uploadPreset string
}

// New creates a Provider. baseURL is overridable for tests.
func New(log *slog.Logger, baseURL, cloudName, uploadPreset string) (*Provider, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cloudName) == "" {
		return nil, fmt.Errorf("cloud name is required")
	}
	if strings.TrimSpace(uploadPreset) == "" {
		return nil, fmt.Errorf("upload preset is required")
	}
	return &Provider{
		logger:       log.With(slog.String("provider", "cloudinary")),
		httpClient:   &http.Client{Timeout: uploadTimeout},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
	}, nil
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Upload streams the input to the image upload endpoint under the given
// public id and returns the stored object's addressing.
func (p *Provider) Upload(ctx context.Context, input storage.UploadInput) (storage.UploadResult, error) {
	if strings.TrimSpace(input.PublicID) == "" {
		return storage.UploadResult{}, fmt.Errorf("public id is required")
	}
	if input.Reader == nil {
		return storage.UploadResult{}, fmt.Errorf("reader is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("upload_preset", p.uploadPreset); err != nil {
		return storage.UploadResult{}, fmt.Errorf("write upload_preset: %w", err)
	}
	if err := writer.WriteField("public_id", input.PublicID); err != nil {
		return storage.UploadResult{}, fmt.Errorf("write public_id: %w", err)
	}
	filename := input.Filename
	if filename == "" {
		filename = input.PublicID + ".jpg"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, input.Reader); err != nil {
		return storage.UploadResult{}, fmt.Errorf("copy upload bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return storage.UploadResult{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", p.baseURL, p.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("%w: %v", storage.ErrUploadFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return storage.UploadResult{}, fmt.Errorf("%w: status %d: %s", storage.ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return storage.UploadResult{}, fmt.Errorf("%w: decode response: %v", storage.ErrUploadFailed, err)
	}
	if parsed.SecureURL == "" {
		return storage.UploadResult{}, fmt.Errorf("%w: response has no secure_url", storage.ErrUploadFailed)
	}

	p.logger.Debug("uploaded image",
		slog.String("public_id", parsed.PublicID),
		slog.String("secure_url", parsed.SecureURL),
	)
	return storage.UploadResult{PublicID: parsed.PublicID, SecureURL: parsed.SecureURL}, nil
}

package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUploadFailed indicates the storage collaborator rejected or could not
// complete an upload.
var ErrUploadFailed = errors.New("storage upload failed")

// UploadInput carries the bytes and addressing for one upload.
type UploadInput struct {
	// PublicID is the key the object is stored under. Re-uploading with the
	// same id overwrites the prior object.
	PublicID string
	// Filename is a hint for the multipart file part; optional.
	Filename string
	// Reader provides the raw bytes; caller is responsible for closing.
	Reader io.Reader
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Uploader abstracts the object storage collaborator.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (UploadResult, error)
}

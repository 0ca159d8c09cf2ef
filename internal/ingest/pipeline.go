package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/billbotdev/billbot/internal/line"
	"github.com/billbotdev/billbot/internal/storage"
)

// MaxImageBytes caps the size of a bill image drained into memory.
const MaxImageBytes int64 = 10 << 20

type contentFetcher interface {
	GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, error)
}

type messageSender interface {
	PushMessage(ctx context.Context, userID string, messages []line.Message) error
}

// Pipeline moves an uploaded bill image from the messaging platform into
// object storage and tells the user where to categorize it. The user is only
// notified after the image is durably stored, so the form link never points
// at a missing object.
type Pipeline struct {
	logger      *slog.Logger
	fetcher     contentFetcher
	uploader    storage.Uploader
	sender      messageSender
	formBaseURL string
}

// NewPipeline creates a Pipeline.
func NewPipeline(log *slog.Logger, fetcher contentFetcher, uploader storage.Uploader, sender messageSender, formBaseURL string) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		logger:      log.With(slog.String("service", "ingest")),
		fetcher:     fetcher,
		uploader:    uploader,
		sender:      sender,
		formBaseURL: formBaseURL,
	}
}

// Ingest fetches the image bytes for messageID, uploads them under the
// message id as public id, and pushes the categorization link to userID.
// Storage failures wrap ErrStoreImage, delivery failures ErrNotifyUser.
func (p *Pipeline) Ingest(ctx context.Context, messageID, userID string) error {
	if messageID == "" {
		return fmt.Errorf("%w: message id is required", ErrStoreImage)
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrNotifyUser)
	}

	content, err := p.fetcher.GetMessageContent(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%w: fetch content %s: %v", ErrStoreImage, messageID, err)
	}
	buf, err := drain(content)
	if err != nil {
		return fmt.Errorf("%w: read content %s: %v", ErrStoreImage, messageID, err)
	}

	result, err := p.uploader.Upload(ctx, storage.UploadInput{
		PublicID: messageID,
		Filename: messageID + ".jpg",
		Reader:   bytes.NewReader(buf),
	})
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", ErrStoreImage, messageID, err)
	}
	p.logger.Info("bill image stored",
		slog.String("message_id", messageID),
		slog.String("public_id", result.PublicID),
		slog.Int("size_bytes", len(buf)),
	)

	msg := line.NewTextMessage(
		"อัพโหลดบิลสำเร็จ! โปรดระบุหมวดหมู่และผู้ที่ต้องการเรียกเก็บเงินได้ที่: " +
			p.FormLink(messageID, result.SecureURL),
	)
	if err := p.sender.PushMessage(ctx, userID, []line.Message{msg}); err != nil {
		return fmt.Errorf("%w: push to %s: %v", ErrNotifyUser, userID, err)
	}
	return nil
}

// FormLink builds the categorization form URL carrying the stored image's
// addressing as query parameters.
func (p *Pipeline) FormLink(imageID, secureURL string) string {
	query := url.Values{}
	query.Set("imageId", imageID)
	query.Set("imageUrl", secureURL)
	return p.formBaseURL + "?" + query.Encode()
}

func drain(content io.ReadCloser) ([]byte, error) {
	defer func() {
		_ = content.Close()
	}()
	buf, err := io.ReadAll(io.LimitReader(content, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("image content is empty")
	}
	return buf, nil
}

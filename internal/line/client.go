package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	pushTimeout    = 10 * time.Second
	contentTimeout = 30 * time.Second
)

// Client wraps the messaging platform's push-message and get-content APIs.
type Client struct {
	logger      *slog.Logger
	httpClient  *http.Client
	accessToken string
	apiBase     string
	dataBase    string
}

// NewClient creates a Client. apiBase and dataBase must not have a trailing
// slash; empty values are rejected at call time, not here.
func NewClient(log *slog.Logger, accessToken, apiBase, dataBase string) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		logger:      log.With(slog.String("client", "line")),
		httpClient:  &http.Client{Timeout: contentTimeout},
		accessToken: accessToken,
		apiBase:     strings.TrimSuffix(apiBase, "/"),
		dataBase:    strings.TrimSuffix(dataBase, "/"),
	}
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// PushMessage delivers one or more messages to a user. Failures are returned
// to the caller, who decides whether they are fatal to the event or the
// batch.
func (c *Client) PushMessage(ctx context.Context, userID string, messages []Message) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if len(messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}

	body, err := json.Marshal(pushRequest{To: userID, Messages: messages})
	if err != nil {
		return fmt.Errorf("encode push request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push message: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// GetMessageContent fetches the raw bytes of a message by its content id.
// The caller owns the returned reader.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dataBase+"/v2/bot/message/"+messageID+"/content", nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get message content: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() {
			_ = resp.Body.Close()
		}()
		return nil, fmt.Errorf("get message content: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return resp.Body, nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return "<empty>"
	}
	return strings.TrimSpace(string(data))
}

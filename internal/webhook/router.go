package webhook

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/billbotdev/billbot/internal/ingest"
	"github.com/billbotdev/billbot/internal/line"
)

// TriggerPhrase asks the bot for the request-payment menu. Matched
// case-insensitively.
const TriggerPhrase = "อับดุลเอ้ย"

type ingester interface {
	Ingest(ctx context.Context, messageID, userID string) error
}

type messageSender interface {
	PushMessage(ctx context.Context, userID string, messages []line.Message) error
}

// Router walks an event batch in array order and dispatches each event to
// the echo sender, the request-payment flex sender, or the image ingest
// pipeline.
type Router struct {
	logger      *slog.Logger
	sender      messageSender
	ingester    ingester
	formBaseURL string
}

// NewRouter creates a Router.
func NewRouter(log *slog.Logger, sender messageSender, ingester ingester, formBaseURL string) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		logger:      log.With(slog.String("service", "router")),
		sender:      sender,
		ingester:    ingester,
		formBaseURL: formBaseURL,
	}
}

// Dispatch processes every event in the batch sequentially. A failure in one
// event is logged and contained; the remaining events are still attempted.
func (r *Router) Dispatch(ctx context.Context, events []line.Event) {
	for i, event := range events {
		if err := r.handleEvent(ctx, event); err != nil {
			r.logEventFailure(i, err)
		}
	}
}

func (r *Router) logEventFailure(index int, err error) {
	switch {
	case errors.Is(err, ingest.ErrStoreImage):
		r.logger.Error("bill image upload failed", slog.Int("event", index), slog.Any("error", err))
	case errors.Is(err, ingest.ErrNotifyUser):
		r.logger.Error("message delivery failed", slog.Int("event", index), slog.Any("error", err))
	default:
		r.logger.Error("event handling failed", slog.Int("event", index), slog.Any("error", err))
	}
}

func (r *Router) handleEvent(ctx context.Context, event line.Event) error {
	if event.Type != line.EventTypeMessage {
		return nil
	}
	userID := event.Source.UserID
	if userID == "" {
		r.logger.Warn("event has no user id, skipping", slog.String("group_id", event.Source.GroupID))
		return nil
	}

	switch content := event.Message.(type) {
	case line.TextContent:
		return r.handleText(ctx, userID, content.Text)
	case line.ImageContent:
		return r.ingester.Ingest(ctx, content.ID, userID)
	default:
		return nil
	}
}

func (r *Router) handleText(ctx context.Context, userID, text string) error {
	if strings.EqualFold(strings.TrimSpace(text), TriggerPhrase) {
		return r.sender.PushMessage(ctx, userID, []line.Message{r.requestPaymentMessage()})
	}
	// Echo the exact received text back.
	return r.sender.PushMessage(ctx, userID, []line.Message{line.NewTextMessage(text)})
}

func (r *Router) requestPaymentMessage() line.Message {
	return line.NewFlexMessage("เรียกเก็บเงิน", line.NewBubble(
		line.NewBox("vertical", line.FlexText{
			Type:   "text",
			Text:   "ต้องการเรียกเก็บเงิน?",
			Weight: "bold",
			Size:   "xl",
		}),
		line.NewBox("horizontal", line.NewURIButton("primary", "เรียกเก็บเงิน", r.formBaseURL)),
	))
}

package webhook

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billbotdev/billbot/internal/line"
)

const maxBodyBytes int64 = 1 << 20 // 1 MiB

// Handler receives webhook deliveries from the messaging platform. The body
// is read raw, never through the framework binder, because the signature
// check must see the exact bytes as sent.
type Handler struct {
	logger        *slog.Logger
	router        *Router
	channelSecret string
}

// NewHandler creates a webhook Handler. An empty channelSecret disables
// signature verification.
func NewHandler(log *slog.Logger, router *Router, channelSecret string) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		logger:        log.With(slog.String("handler", "webhook")),
		router:        router,
		channelSecret: channelSecret,
	}
}

// Register registers the webhook route.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Handle)
}

// Handle processes one webhook delivery. The batch is processed to
// completion before the response is written; per-event failures are
// contained by the router and never fail the request.
func (h *Handler) Handle(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(body)) > maxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", maxBodyBytes))
	}

	if h.channelSecret != "" {
		signature := c.Request().Header.Get(line.SignatureHeader)
		if !line.ValidateSignature(h.channelSecret, body, signature) {
			h.logger.Warn("webhook signature mismatch", slog.Int("body_bytes", len(body)))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
		}
	}

	env, err := line.ParseEnvelope(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.router.Dispatch(c.Request().Context(), env.Events)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

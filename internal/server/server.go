package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handler registers routes on the echo instance.
type Handler interface {
	Register(e *echo.Echo)
}

// Server assembles the HTTP surface: webhook receiver, bill form, health
// probe.
type Server struct {
	echo *echo.Echo
	addr string
}

// New creates the Server and registers all handlers.
func New(log *slog.Logger, addr string, handlers ...Handler) *Server {
	if log == nil {
		log = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = newErrorHandler(log)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))

	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	for _, h := range handlers {
		if h != nil {
			h.Register(e)
		}
	}

	return &Server{echo: e, addr: addr}
}

// newErrorHandler maps every error to the {"error": <message>} body the
// webhook caller expects, including the framework's own 404/405 responses.
func newErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "Internal Server Error"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if text, ok := httpErr.Message.(string); ok {
				message = text
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("uri", c.Request().RequestURI),
				slog.Any("error", err),
			)
		}
		if writeErr := c.JSON(code, map[string]string{"error": message}); writeErr != nil {
			log.Error("write error response", slog.Any("error", writeErr))
		}
	}
}

// Start begins serving and blocks until shutdown.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

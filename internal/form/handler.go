package form

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/billbotdev/billbot/internal/config"
	"github.com/billbotdev/billbot/internal/expense"
)

//go:embed templates/*.html
var templateFiles embed.FS

type submitter interface {
	Submit(ctx context.Context, sub expense.Submission) (expense.Record, error)
}

// Handler serves the bill categorization form. The page is reached from the
// link pushed after an image upload, carrying the stored image's addressing
// in the query string.
type Handler struct {
	logger   *slog.Logger
	expenses submitter
	members  []config.FormMember
	tmpl     *template.Template
}

// NewHandler creates a form Handler.
func NewHandler(log *slog.Logger, expenses submitter, members []config.FormMember) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		logger:   log.With(slog.String("handler", "form")),
		expenses: expenses,
		members:  members,
		tmpl:     tmpl,
	}, nil
}

// Register registers the form routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/bill-form", h.Render)
	e.POST("/bill-form", h.Submit)
}

type pageData struct {
	ImageID    string
	ImageURL   string
	Members    []config.FormMember
	Categories []expense.Category
}

// Render serves the form page for the image referenced in the query string.
func (h *Handler) Render(c echo.Context) error {
	data := pageData{
		ImageID:  c.QueryParam("imageId"),
		ImageURL: c.QueryParam("imageUrl"),
		Members:  h.members,
		Categories: []expense.Category{
			expense.CategoryFood,
			expense.CategoryElectricity,
			expense.CategoryOther,
		},
	}
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "bill_form.html", data); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Submit records a categorized bill. Accepts both form posts from the page
// and JSON bodies.
func (h *Handler) Submit(c echo.Context) error {
	var sub expense.Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if sub.SpentOn.IsZero() {
		dateValue := strings.TrimSpace(c.FormValue("date"))
		if dateValue != "" {
			spentOn, err := time.Parse("2006-01-02", dateValue)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			}
			sub.SpentOn = spentOn
		}
	}

	record, err := h.expenses.Submit(c.Request().Context(), sub)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": record.ID})
}

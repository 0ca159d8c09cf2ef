package form

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbotdev/billbot/internal/config"
	"github.com/billbotdev/billbot/internal/expense"
)

type fakeSubmitter struct {
	subs []expense.Submission
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, sub expense.Submission) (expense.Record, error) {
	if f.err != nil {
		return expense.Record{}, f.err
	}
	f.subs = append(f.subs, sub)
	return expense.Record{ID: "rec-1", ImageID: sub.ImageID}, nil
}

func testMembers() []config.FormMember {
	return []config.FormMember{
		{ID: "user1", Name: "Alice"},
		{ID: "user2", Name: "Bob"},
	}
}

func TestRenderShowsImageAndFields(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(nil, &fakeSubmitter{}, testMembers())
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/bill-form?imageId=IMG1&imageUrl=https://res.example.com/IMG1.jpg", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Render(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `src="https://res.example.com/IMG1.jpg"`)
	assert.Contains(t, body, `value="IMG1"`)
	assert.Contains(t, body, `value="food"`)
	assert.Contains(t, body, `value="electricity"`)
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Bob")
}

func TestRenderWithoutImageOmitsPreview(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(nil, &fakeSubmitter{}, nil)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/bill-form", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Render(c))
	assert.NotContains(t, rec.Body.String(), "<img")
}

func postForm(t *testing.T, h *Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/bill-form", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Submit(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSubmitFormPost(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{}
	h, err := NewHandler(nil, submitter, testMembers())
	require.NoError(t, err)

	rec := postForm(t, h, url.Values{
		"imageId":  {"IMG1"},
		"imageUrl": {"https://res.example.com/IMG1.jpg"},
		"category": {"food"},
		"amount":   {"199.50"},
		"date":     {"2026-08-15"},
		"members":  {"user1", "user2"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"rec-1"`)

	require.Len(t, submitter.subs, 1)
	sub := submitter.subs[0]
	assert.Equal(t, "IMG1", sub.ImageID)
	assert.Equal(t, expense.CategoryFood, sub.Category)
	assert.InDelta(t, 199.50, sub.Amount, 0.001)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), sub.SpentOn)
	assert.Equal(t, []string{"user1", "user2"}, sub.Members)
}

func TestSubmitRejectsBadDate(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{}
	h, err := NewHandler(nil, submitter, nil)
	require.NoError(t, err)

	rec := postForm(t, h, url.Values{
		"imageId":  {"IMG1"},
		"category": {"food"},
		"amount":   {"10"},
		"date":     {"15/08/2026"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, submitter.subs)
}

func TestSubmitPropagatesValidationFailure(t *testing.T) {
	t.Parallel()

	svc := expense.NewService(nil, nil, nil)
	h, err := NewHandler(nil, svc, nil)
	require.NoError(t, err)

	rec := postForm(t, h, url.Values{
		"imageId":  {"IMG1"},
		"category": {"travel"},
		"amount":   {"10"},
		"date":     {"2026-08-15"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

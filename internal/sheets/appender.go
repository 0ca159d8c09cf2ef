package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/billbotdev/billbot/internal/expense"
)

// Appender mirrors expense records into a shared Google Sheet, one row per
// submission.
type Appender struct {
	logger        *slog.Logger
	service       *sheets.Service
	spreadsheetID string
}

// NewAppender creates an Appender authenticated with a service-account
// credentials file.
func NewAppender(ctx context.Context, log *slog.Logger, spreadsheetID, credentialsFile string) (*Appender, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Appender{
		logger:        log.With(slog.String("service", "sheets")),
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// AppendExpense appends one row: date, category, amount, image id, image
// url, mentioned members.
func (a *Appender) AppendExpense(ctx context.Context, record expense.Record) error {
	row := []any{
		record.SpentOn.Format("2006-01-02"),
		string(record.Category),
		record.Amount,
		record.ImageID,
		record.ImageURL,
		strings.Join(record.Members, ","),
	}
	_, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, "A1", &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", a.spreadsheetID, err)
	}
	a.logger.Debug("expense row appended", slog.String("expense_id", record.ID))
	return nil
}

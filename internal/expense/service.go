package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service validates and records bill submissions. Both collaborators are
// optional: without a store or sheet the submission is validated and logged
// only, which matches a partially configured deployment.
type Service struct {
	logger   *slog.Logger
	validate *validator.Validate
	store    Store
	sheet    SheetAppender
}

// NewService creates a Service. store and sheet may be nil.
func NewService(log *slog.Logger, store Store, sheet SheetAppender) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:   log.With(slog.String("service", "expense")),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		store:    store,
		sheet:    sheet,
	}
}

// Submit validates the submission and records it. The store is the source of
// truth; a sheet-append failure is logged but does not fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (Record, error) {
	if err := s.validate.Struct(sub); err != nil {
		return Record{}, fmt.Errorf("validate submission: %w", err)
	}

	record := Record{
		ID:        uuid.NewString(),
		ImageID:   sub.ImageID,
		ImageURL:  sub.ImageURL,
		Category:  sub.Category,
		Amount:    sub.Amount,
		SpentOn:   sub.SpentOn,
		Members:   sub.Members,
		CreatedAt: time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, record); err != nil {
			return Record{}, fmt.Errorf("insert expense: %w", err)
		}
	} else {
		s.logger.Info("expense store not configured, submission not persisted",
			slog.String("image_id", record.ImageID),
			slog.String("category", string(record.Category)),
		)
	}

	if s.sheet != nil {
		if err := s.sheet.AppendExpense(ctx, record); err != nil {
			s.logger.Error("append expense to sheet failed",
				slog.String("expense_id", record.ID),
				slog.Any("error", err),
			)
		}
	}

	s.logger.Info("expense recorded",
		slog.String("expense_id", record.ID),
		slog.String("image_id", record.ImageID),
		slog.String("category", string(record.Category)),
		slog.Float64("amount", record.Amount),
	)
	return record, nil
}

package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed expense store.
type PGStore struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewPGStore creates a PGStore on an existing pool.
func NewPGStore(log *slog.Logger, pool *pgxpool.Pool) *PGStore {
	if log == nil {
		log = slog.Default()
	}
	return &PGStore{
		logger: log.With(slog.String("store", "expense")),
		pool:   pool,
	}
}

func (s *PGStore) Insert(ctx context.Context, record Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO expenses (id, image_id, image_url, category, amount, spent_on, members, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID,
		record.ImageID,
		record.ImageURL,
		string(record.Category),
		record.Amount,
		record.SpentOn,
		record.Members,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense %s: %w", record.ID, err)
	}
	return nil
}

func (s *PGStore) MonthlyTotals(ctx context.Context, year int, month time.Month) ([]CategoryTotal, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.pool.Query(ctx, `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE spent_on >= $1 AND spent_on < $2
		GROUP BY category
		ORDER BY category`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query monthly totals: %w", err)
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0)
	for rows.Next() {
		var t CategoryTotal
		var category string
		if err := rows.Scan(&category, &t.Total); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		t.Category = Category(category)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly totals: %w", err)
	}
	return totals, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"taxietl/database"
	"taxietl/models"
)

var currentMonthColumns = []string{"pick_up", "drop_off", "rank"}

// CurrentMonthRepository implements the CurrentMonthRepository interface
type CurrentMonthRepository struct {
	q Queryable
}

// NewCurrentMonthRepository creates a new current-month view repository
func NewCurrentMonthRepository(db *database.DB) *CurrentMonthRepository {
	return &CurrentMonthRepository{q: db.Pool}
}

func newCurrentMonthRepositoryWithTx(tx Queryable) *CurrentMonthRepository {
	return &CurrentMonthRepository{q: tx}
}

// DeleteAll empties popular_destination_current_month
func (r *CurrentMonthRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM popular_destination_current_month`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear current month view: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Append inserts rows into the view
func (r *CurrentMonthRepository) Append(ctx context.Context, rows []models.CurrentMonthRecord) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return 0, fmt.Errorf("current month row %d: %w", i, err)
		}
	}

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"popular_destination_current_month"}, currentMonthColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{rows[i].PickUp, rows[i].DropOff, int32(rows[i].Rank)}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d current month rows: %w", len(rows), err)
	}
	return n, nil
}

// GetAll returns the view ordered by rank
func (r *CurrentMonthRepository) GetAll(ctx context.Context) ([]models.CurrentMonthRecord, error) {
	query := `
		SELECT pick_up, drop_off, rank
		FROM popular_destination_current_month
		ORDER BY rank, pick_up, drop_off
	`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get current month view: %w", err)
	}
	defer rows.Close()

	var records []models.CurrentMonthRecord
	for rows.Next() {
		var rec models.CurrentMonthRecord
		if err := rows.Scan(&rec.PickUp, &rec.DropOff, &rec.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan current month row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate current month view: %w", err)
	}
	return records, nil
}

// SetMonth records the month the view was projected from
func (r *CurrentMonthRepository) SetMonth(ctx context.Context, month models.Month) error {
	query := `
		INSERT INTO current_month_meta (id, month)
		VALUES (TRUE, $1)
		ON CONFLICT (id) DO UPDATE SET month = EXCLUDED.month
	`
	if _, err := r.q.Exec(ctx, query, month.String()); err != nil {
		return fmt.Errorf("failed to record current month %s: %w", month, err)
	}
	return nil
}

// Month returns the month the view was projected from, or the zero Month
// before the first projection
func (r *CurrentMonthRepository) Month(ctx context.Context) (models.Month, error) {
	var month string
	err := r.q.QueryRow(ctx, `SELECT month FROM current_month_meta`).Scan(&month)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Month{}, nil
	}
	if err != nil {
		return models.Month{}, fmt.Errorf("failed to get current month: %w", err)
	}
	return models.ParseMonth(month)
}

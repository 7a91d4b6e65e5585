package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"taxietl/database"
	"taxietl/models"
)

var historyColumns = []string{"month", "pick_up", "drop_off", "rank"}

// HistoryRepository implements the HistoryRepository interface
type HistoryRepository struct {
	q Queryable
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{q: db.Pool}
}

// newHistoryRepositoryWithTx creates a new history repository with a transaction
func newHistoryRepositoryWithTx(tx Queryable) *HistoryRepository {
	return &HistoryRepository{q: tx}
}

// Append copies a change-set into popular_destination_history
func (r *HistoryRepository) Append(ctx context.Context, records []models.HistoryRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("history row %d: %w", i, err)
		}
	}

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"popular_destination_history"}, historyColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{rec.Month, rec.PickUp, rec.DropOff, int32(rec.Rank)}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d history rows: %w", len(records), err)
	}
	return n, nil
}

// GetByMonth returns every row stored for the month ordered by rank
func (r *HistoryRepository) GetByMonth(ctx context.Context, month models.Month) ([]models.HistoryRecord, error) {
	query := `
		SELECT month, pick_up, drop_off, rank
		FROM popular_destination_history
		WHERE month = $1
		ORDER BY rank, pick_up, drop_off
	`
	return r.query(ctx, query, month.String())
}

// GetByPair returns the rank changes of one pair, oldest first
func (r *HistoryRepository) GetByPair(ctx context.Context, pickUp, dropOff string) ([]models.HistoryRecord, error) {
	query := `
		SELECT month, pick_up, drop_off, rank
		FROM popular_destination_history
		WHERE pick_up = $1 AND drop_off = $2
		ORDER BY month
	`
	return r.query(ctx, query, pickUp, dropOff)
}

// DeleteByMonth removes the month's rows
func (r *HistoryRepository) DeleteByMonth(ctx context.Context, month models.Month) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM popular_destination_history WHERE month = $1`, month.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete history for %s: %w", month, err)
	}
	return tag.RowsAffected(), nil
}

// LatestMonth returns the newest month present, or the zero Month when the
// table is empty
func (r *HistoryRepository) LatestMonth(ctx context.Context) (models.Month, error) {
	var latest *string
	err := r.q.QueryRow(ctx, `SELECT MAX(month) FROM popular_destination_history`).Scan(&latest)
	if err != nil {
		return models.Month{}, fmt.Errorf("failed to get latest history month: %w", err)
	}
	if latest == nil {
		return models.Month{}, nil
	}
	return models.ParseMonth(*latest)
}

func (r *HistoryRepository) query(ctx context.Context, query string, args ...any) ([]models.HistoryRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.Month, &rec.PickUp, &rec.DropOff, &rec.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

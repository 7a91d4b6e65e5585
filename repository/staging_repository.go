package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"taxietl/database"
	"taxietl/models"
)

var stagingColumns = []string{"month", "pick_up", "drop_off", "passenger_count"}

// StagingRepository implements the StagingRepository interface
type StagingRepository struct {
	q Queryable
}

// NewStagingRepository creates a new staging repository
func NewStagingRepository(db *database.DB) *StagingRepository {
	return &StagingRepository{q: db.Pool}
}

// newStagingRepositoryWithTx creates a new staging repository with a transaction
func newStagingRepositoryWithTx(tx Queryable) *StagingRepository {
	return &StagingRepository{q: tx}
}

// Append copies the whole batch into staging_table. Nothing is written if
// any row breaks the schema.
func (r *StagingRepository) Append(ctx context.Context, trips []models.TripEvent) (int64, error) {
	if len(trips) == 0 {
		return 0, nil
	}
	for i, trip := range trips {
		if err := trip.Validate(); err != nil {
			return 0, fmt.Errorf("staging row %d: %w", i, err)
		}
	}

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"staging_table"}, stagingColumns,
		pgx.CopyFromSlice(len(trips), func(i int) ([]any, error) {
			t := trips[i]
			return []any{t.Month, t.PickUp, t.DropOff, int32(t.PassengerCount)}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d trips into staging: %w", len(trips), err)
	}
	return n, nil
}

// GetByMonth returns the month's staged trips in insertion order
func (r *StagingRepository) GetByMonth(ctx context.Context, month models.Month) ([]models.TripEvent, error) {
	query := `
		SELECT month, pick_up, drop_off, passenger_count
		FROM staging_table
		WHERE month = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get staged trips for %s: %w", month, err)
	}
	defer rows.Close()

	var trips []models.TripEvent
	for rows.Next() {
		var trip models.TripEvent
		if err := rows.Scan(&trip.Month, &trip.PickUp, &trip.DropOff, &trip.PassengerCount); err != nil {
			return nil, fmt.Errorf("failed to scan staged trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staged trips: %w", err)
	}
	return trips, nil
}

// DeleteByMonth removes the month's staged trips
func (r *StagingRepository) DeleteByMonth(ctx context.Context, month models.Month) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM staging_table WHERE month = $1`, month.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete staged trips for %s: %w", month, err)
	}
	return tag.RowsAffected(), nil
}

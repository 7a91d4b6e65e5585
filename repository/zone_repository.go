package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"taxietl/database"
	"taxietl/models"
)

// ZoneRepository implements the ZoneRepository interface
type ZoneRepository struct {
	q Queryable
}

// NewZoneRepository creates a new zone lookup repository
func NewZoneRepository(db *database.DB) *ZoneRepository {
	return &ZoneRepository{q: db.Pool}
}

func newZoneRepositoryWithTx(tx Queryable) *ZoneRepository {
	return &ZoneRepository{q: tx}
}

// GetAll returns the whole location_lookup table
func (r *ZoneRepository) GetAll(ctx context.Context) ([]models.Zone, error) {
	rows, err := r.q.Query(ctx, `
		SELECT location_id, borough, zone, service_zone
		FROM location_lookup
		ORDER BY location_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get zones: %w", err)
	}
	defer rows.Close()

	zones, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Zone])
	if err != nil {
		return nil, fmt.Errorf("failed to scan zones: %w", err)
	}
	return zones, nil
}

// Upsert inserts zones, replacing names of location ids already present
func (r *ZoneRepository) Upsert(ctx context.Context, zones []models.Zone) (int64, error) {
	if len(zones) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO location_lookup (location_id, borough, zone, service_zone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id) DO UPDATE
		SET borough = EXCLUDED.borough,
		    zone = EXCLUDED.zone,
		    service_zone = EXCLUDED.service_zone
	`

	batch := &pgx.Batch{}
	for _, z := range zones {
		if z.LocationID == "" || z.Zone == "" {
			return 0, fmt.Errorf("%w: zone %q has no id or name", models.ErrInvalidRow, z.LocationID)
		}
		batch.Queue(query, z.LocationID, z.Borough, z.Zone, z.ServiceZone)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	for _, z := range zones {
		tag, err := br.Exec()
		if err != nil {
			return total, fmt.Errorf("failed to upsert zone %s: %w", z.LocationID, err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

package service

import (
	"context"

	"taxietl/events"
	"taxietl/models"
)

// StagingRepository defines the interface for the staging_table
type StagingRepository interface {
	// Append writes a whole batch of normalized trips
	Append(ctx context.Context, trips []models.TripEvent) (int64, error)

	// GetByMonth returns the staged trips of a month in insertion order
	GetByMonth(ctx context.Context, month models.Month) ([]models.TripEvent, error)

	// DeleteByMonth removes every staged trip of a month
	DeleteByMonth(ctx context.Context, month models.Month) (int64, error)
}

// HistoryRepository defines the interface for popular_destination_history
type HistoryRepository interface {
	// Append writes a month's change-set
	Append(ctx context.Context, records []models.HistoryRecord) (int64, error)

	// GetByMonth returns every history row stored for a month
	GetByMonth(ctx context.Context, month models.Month) ([]models.HistoryRecord, error)

	// DeleteByMonth removes a month's rows so a rerun can replace them
	DeleteByMonth(ctx context.Context, month models.Month) (int64, error)

	// GetByPair returns the rank changes of one pair, oldest first
	GetByPair(ctx context.Context, pickUp, dropOff string) ([]models.HistoryRecord, error)

	// LatestMonth returns the most recent month with history, or the zero Month
	LatestMonth(ctx context.Context) (models.Month, error)
}

// CurrentMonthRepository defines the interface for popular_destination_current_month
type CurrentMonthRepository interface {
	// DeleteAll empties the view
	DeleteAll(ctx context.Context) (int64, error)

	// Append inserts rows into the view
	Append(ctx context.Context, rows []models.CurrentMonthRecord) (int64, error)

	// GetAll returns the view ordered by rank
	GetAll(ctx context.Context) ([]models.CurrentMonthRecord, error)

	// SetMonth records the month the view was projected from
	SetMonth(ctx context.Context, month models.Month) error

	// Month returns the recorded month, or the zero Month if none
	Month(ctx context.Context) (models.Month, error)
}

// ZoneRepository defines the interface for the location_lookup table
type ZoneRepository interface {
	// GetAll returns the full lookup table
	GetAll(ctx context.Context) ([]models.Zone, error)

	// Upsert inserts or replaces zones by location id
	Upsert(ctx context.Context, zones []models.Zone) (int64, error)
}

// EventPublisher queues events raised inside a unit of work
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	StagingRepository() StagingRepository
	HistoryRepository() HistoryRepository
	CurrentMonthRepository() CurrentMonthRepository
	ZoneRepository() ZoneRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// StagingService defines the staging stage and its cleanup
type StagingService interface {
	// Load normalizes a raw trip batch and writes it to staging in one transaction
	Load(ctx context.Context, raw []models.RawTrip) (*StagingResult, error)

	// Clean deletes the staged trips of a reconciled month
	Clean(ctx context.Context, month models.Month) (int64, error)
}

// HistoryReconciler defines the history stage
type HistoryReconciler interface {
	// Reconcile ranks the current month and appends the rank changes to history
	Reconcile(ctx context.Context, current, previous models.Month) (*ReconcileResult, error)
}

// CurrentMonthProjector defines the current-month view stage
type CurrentMonthProjector interface {
	// Project replaces the view with the history rows of month
	Project(ctx context.Context, month models.Month) (int, error)
}

// ZoneService maintains the zone lookup table
type ZoneService interface {
	// Load upserts zones into the lookup table
	Load(ctx context.Context, zones []models.Zone) (int64, error)
}

// ReportService reads the derived tables for display
type ReportService interface {
	// CurrentMonth returns the view and the month it was projected from
	CurrentMonth(ctx context.Context) (models.Month, []models.CurrentMonthRecord, error)

	// PairHistory returns the recorded rank changes of one pair
	PairHistory(ctx context.Context, pickUp, dropOff string) ([]models.HistoryRecord, error)
}

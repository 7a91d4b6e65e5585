package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"taxietl/events"
	"taxietl/models"
)

// StagingResult is handed from the staging stage to the history stage.
type StagingResult struct {
	CurrentMonth  models.Month
	PreviousMonth models.Month
	Rows          int64
	Imputed       int
}

type stagingService struct {
	uowFactory UnitOfWorkFactory
}

// NewStagingService creates a new staging service
func NewStagingService(uowFactory UnitOfWorkFactory) StagingService {
	return &stagingService{uowFactory: uowFactory}
}

// Load resolves zones from location_lookup, normalizes raw and copies it into
// staging. A lookup miss aborts before anything is written.
func (s *stagingService) Load(ctx context.Context, raw []models.RawTrip) (*StagingResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	zones, err := uow.ZoneRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone lookup: %w", err)
	}

	batch, err := Normalize(raw, models.ZoneNames(zones))
	if err != nil {
		return nil, err
	}
	if batch.Imputed > 0 {
		log.WithFields(log.Fields{
			"imputed": batch.Imputed,
			"mean":    batch.MeanPassengerCount,
		}).Info("Imputed missing passenger counts")
	}

	rows, err := uow.StagingRepository().Append(ctx, batch.Trips)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.StagingLoadedEvent{
		CurrentMonth:  batch.CurrentMonth.String(),
		PreviousMonth: batch.PreviousMonth.String(),
		Rows:          int(rows),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit staging: %w", err)
	}

	log.WithFields(log.Fields{
		"currentMonth":  batch.CurrentMonth.String(),
		"previousMonth": batch.PreviousMonth.String(),
		"rows":          rows,
	}).Info("Trips loaded into staging")

	return &StagingResult{
		CurrentMonth:  batch.CurrentMonth,
		PreviousMonth: batch.PreviousMonth,
		Rows:          rows,
		Imputed:       batch.Imputed,
	}, nil
}

// Clean deletes the staged trips of month
func (s *stagingService) Clean(ctx context.Context, month models.Month) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.StagingRepository().DeleteByMonth(ctx, month)
	if err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.StagingCleanedEvent{Month: month.String(), Deleted: deleted})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit staging cleanup: %w", err)
	}

	log.WithFields(log.Fields{
		"month":   month.String(),
		"deleted": deleted,
	}).Info("Staging cleaned")
	return deleted, nil
}

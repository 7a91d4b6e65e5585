package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"taxietl/events"
	"taxietl/models"
)

type currentMonthProjector struct {
	uowFactory UnitOfWorkFactory
}

// NewCurrentMonthProjector creates a new current-month projector
func NewCurrentMonthProjector(uowFactory UnitOfWorkFactory) CurrentMonthProjector {
	return &currentMonthProjector{uowFactory: uowFactory}
}

// Project empties popular_destination_current_month, fills it with the
// history rows of month and records month as the view's month. All of it
// shares one transaction, so readers see either the old or the new contents.
// An empty change-set leaves an empty view labelled with month. Running it
// again is harmless.
func (s *currentMonthProjector) Project(ctx context.Context, month models.Month) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.HistoryRepository().GetByMonth(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("failed to read history for %s: %w", month, err)
	}

	removed, err := uow.CurrentMonthRepository().DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	rows := models.Project(records)
	if _, err := uow.CurrentMonthRepository().Append(ctx, rows); err != nil {
		return 0, err
	}
	if err := uow.CurrentMonthRepository().SetMonth(ctx, month); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.CurrentMonthProjectedEvent{Month: month.String(), Rows: len(rows)})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit current month view: %w", err)
	}

	log.WithFields(log.Fields{
		"month":   month.String(),
		"rows":    len(rows),
		"removed": removed,
	}).Info("Current month view replaced")

	return len(rows), nil
}

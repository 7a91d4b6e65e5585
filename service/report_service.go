package service

import (
	"context"
	"fmt"

	"taxietl/models"
)

type reportService struct {
	uowFactory UnitOfWorkFactory
}

// NewReportService creates a new read-only report service
func NewReportService(uowFactory UnitOfWorkFactory) ReportService {
	return &reportService{uowFactory: uowFactory}
}

// CurrentMonth returns the view together with the month it was last
// projected from.
func (s *reportService) CurrentMonth(ctx context.Context) (models.Month, []models.CurrentMonthRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Month{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	month, err := uow.CurrentMonthRepository().Month(ctx)
	if err != nil {
		return models.Month{}, nil, err
	}
	rows, err := uow.CurrentMonthRepository().GetAll(ctx)
	if err != nil {
		return models.Month{}, nil, err
	}
	return month, rows, nil
}

func (s *reportService) PairHistory(ctx context.Context, pickUp, dropOff string) ([]models.HistoryRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.HistoryRepository().GetByPair(ctx, pickUp, dropOff)
}

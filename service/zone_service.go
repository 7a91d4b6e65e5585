package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"taxietl/models"
)

type zoneService struct {
	uowFactory UnitOfWorkFactory
}

// NewZoneService creates a new zone lookup service
func NewZoneService(uowFactory UnitOfWorkFactory) ZoneService {
	return &zoneService{uowFactory: uowFactory}
}

func (s *zoneService) Load(ctx context.Context, zones []models.Zone) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	n, err := uow.ZoneRepository().Upsert(ctx, zones)
	if err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit zones: %w", err)
	}

	log.WithField("zones", n).Info("Zone lookup loaded")
	return n, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"taxietl/database"
	"taxietl/events"
	"taxietl/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	stagingRepo      service.StagingRepository
	historyRepo      service.HistoryRepository
	currentMonthRepo service.CurrentMonthRepository
	zoneRepo         service.ZoneRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. eventBus may be nil
// when nothing listens for pipeline events.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.stagingRepo = newStagingRepositoryWithTx(tx)
	u.historyRepo = newHistoryRepositoryWithTx(tx)
	u.currentMonthRepo = newCurrentMonthRepositoryWithTx(tx)
	u.zoneRepo = newZoneRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	u.transactionalBus.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// StagingRepository returns the staging repository for this unit of work
func (u *unitOfWork) StagingRepository() service.StagingRepository {
	if u.stagingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stagingRepo
}

// HistoryRepository returns the history repository for this unit of work
func (u *unitOfWork) HistoryRepository() service.HistoryRepository {
	if u.historyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.historyRepo
}

// CurrentMonthRepository returns the current-month view repository for this unit of work
func (u *unitOfWork) CurrentMonthRepository() service.CurrentMonthRepository {
	if u.currentMonthRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.currentMonthRepo
}

// ZoneRepository returns the zone lookup repository for this unit of work
func (u *unitOfWork) ZoneRepository() service.ZoneRepository {
	if u.zoneRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.zoneRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

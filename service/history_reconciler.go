package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"taxietl/events"
	"taxietl/models"
)

type rankKey struct {
	pickUp  string
	dropOff string
	rank    int
}

// Reconcile returns the change-set of month: the rows of current whose
// (pickup, drop-off, rank) triple has no exact match in previous.
//
// current and previous are combined as a bag and every triple is counted;
// a count of one means the triple exists on one side only. Of those, only
// rows stamped with month are kept, so pairs that disappeared this month are
// not carried forward. A pair new this month always lands in the result.
//
// The count assumes a triple occurs at most once per side. A triple present
// twice counts as unchanged even with no match on the other side; stored
// history holds each pair once per month because a month is written in a
// single replace.
func Reconcile(month models.Month, current []models.DestinationRank, previous []models.HistoryRecord) []models.HistoryRecord {
	union := make([]models.DestinationRank, 0, len(current)+len(previous))
	union = append(union, current...)
	union = append(union, previous...)

	counts := make(map[rankKey]int, len(union))
	for _, r := range union {
		counts[rankKey{r.PickUp, r.DropOff, r.Rank}]++
	}

	monthText := month.String()
	changes := make([]models.HistoryRecord, 0)
	for _, r := range union {
		if r.Month == monthText && counts[rankKey{r.PickUp, r.DropOff, r.Rank}] == 1 {
			changes = append(changes, r)
		}
	}
	return changes
}

// ReconcileResult is handed from the history stage to the final stages.
type ReconcileResult struct {
	CurrentMonth  models.Month
	PreviousMonth models.Month
	Ranks         []models.DestinationRank
	Changes       []models.HistoryRecord
	PreviousRows  int
	Replaced      int64 // rows of CurrentMonth dropped from an earlier run
}

type historyReconciler struct {
	uowFactory UnitOfWorkFactory
	rankMode   RankMode
}

// NewHistoryReconciler creates a new history reconciler
func NewHistoryReconciler(uowFactory UnitOfWorkFactory, rankMode RankMode) HistoryReconciler {
	return &historyReconciler{
		uowFactory: uowFactory,
		rankMode:   rankMode,
	}
}

// Reconcile ranks the staged trips of current, diffs them against the
// history of previous and writes the change-set. Rows already stored for
// current are replaced in the same transaction, so running twice leaves one
// copy of the change-set.
func (s *historyReconciler) Reconcile(ctx context.Context, current, previous models.Month) (*ReconcileResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	trips, err := uow.StagingRepository().GetByMonth(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoStagedTrips, current)
	}

	latest, err := uow.HistoryRepository().LatestMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest history month: %w", err)
	}
	if current.Before(latest) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrMonthBehindHistory, current, latest)
	}

	prior, err := uow.HistoryRepository().GetByMonth(ctx, previous)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(prior) == 0 {
		log.WithFields(log.Fields{
			"currentMonth":  current.String(),
			"previousMonth": previous.String(),
		}).Warn("No history for previous month, every ranked pair is a change")
	}

	ranks := AggregateRanks(current, trips, s.rankMode)
	changes := Reconcile(current, ranks, prior)

	replaced, err := uow.HistoryRepository().DeleteByMonth(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to clear earlier history run: %w", err)
	}
	if replaced > 0 {
		log.WithFields(log.Fields{
			"month":    current.String(),
			"replaced": replaced,
		}).Warn("Replacing history rows from an earlier run")
	}

	if _, err := uow.HistoryRepository().Append(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	uow.EventBus().Publish(events.HistoryReconciledEvent{
		CurrentMonth:  current.String(),
		PreviousMonth: previous.String(),
		RankedPairs:   len(ranks),
		ChangedPairs:  len(changes),
		Replaced:      replaced,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit history: %w", err)
	}

	log.WithFields(log.Fields{
		"currentMonth":  current.String(),
		"previousMonth": previous.String(),
		"trips":         len(trips),
		"rankedPairs":   len(ranks),
		"changedPairs":  len(changes),
	}).Info("History reconciled")

	return &ReconcileResult{
		CurrentMonth:  current,
		PreviousMonth: previous,
		Ranks:         ranks,
		Changes:       changes,
		PreviousRows:  len(prior),
		Replaced:      replaced,
	}, nil
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxietl/events"
	"taxietl/models"
	"taxietl/repository/testutil"
)

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(events.EventTypeStagingLoaded, func(_ context.Context, e events.Event) {
		seen = append(seen, e)
	})
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.StagingRepository().Append(ctx, testutil.CreateTestTrips("2021-09", "A", "B", 3))
	require.NoError(t, err)
	uow.EventBus().Publish(events.StagingLoadedEvent{CurrentMonth: "2021-09", Rows: 3})
	require.NoError(t, uow.Rollback())
	bus.Wait()

	trips, err := NewStagingRepository(testDB.DB).GetByMonth(ctx, models.Month{Year: 2021, Month: 9})
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Empty(t, seen)
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	flushed := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeStagingLoaded, func(_ context.Context, e events.Event) {
		flushed <- e
	})
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx), "begin twice")

	_, err := uow.StagingRepository().Append(ctx, testutil.CreateTestTrips("2021-09", "A", "B", 2))
	require.NoError(t, err)
	uow.EventBus().Publish(events.StagingLoadedEvent{CurrentMonth: "2021-09", Rows: 2})
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback(), "rollback after commit is a no-op")
	bus.Wait()

	assert.Equal(t, events.StagingLoadedEvent{CurrentMonth: "2021-09", Rows: 2}, <-flushed)

	trips, err := NewStagingRepository(testDB.DB).GetByMonth(ctx, models.Month{Year: 2021, Month: 9})
	require.NoError(t, err)
	assert.Len(t, trips, 2)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil, nil).Create()
	assert.Panics(t, func() { uow.HistoryRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}

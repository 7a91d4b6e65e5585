package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestBus_EmitReachesSubscribersOfThatTypeOnly(t *testing.T) {
	bus := NewBus()
	loaded := &recorder{}
	cleaned := &recorder{}
	bus.Subscribe(EventTypeStagingLoaded, loaded.handle)
	bus.Subscribe(EventTypeStagingCleaned, cleaned.handle)

	bus.Emit(context.Background(), StagingLoadedEvent{CurrentMonth: "2021-09", PreviousMonth: "2021-08", Rows: 15})
	bus.Wait()

	require.Len(t, loaded.snapshot(), 1)
	assert.Equal(t, StagingLoadedEvent{CurrentMonth: "2021-09", PreviousMonth: "2021-08", Rows: 15}, loaded.snapshot()[0])
	assert.Empty(t, cleaned.snapshot())
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe(EventTypeStagingCleaned, func(context.Context, Event) { panic("boom") })
	bus.Subscribe(EventTypeStagingCleaned, rec.handle)

	bus.Emit(context.Background(), StagingCleanedEvent{Month: "2021-09", Deleted: 3})
	bus.Wait()

	assert.Len(t, rec.snapshot(), 1)
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe(EventTypeHistoryReconciled, rec.handle)

	tx := NewTransactionalBus(bus)
	tx.Publish(HistoryReconciledEvent{CurrentMonth: "2021-09", ChangedPairs: 2})
	assert.Equal(t, 1, tx.Pending())

	tx.Discard()
	assert.Equal(t, 0, tx.Pending())
	tx.Flush(context.Background())
	bus.Wait()
	assert.Empty(t, rec.snapshot())

	tx.Publish(HistoryReconciledEvent{CurrentMonth: "2021-09", ChangedPairs: 2})
	tx.Flush(context.Background())
	bus.Wait()
	assert.Len(t, rec.snapshot(), 1)
	assert.Equal(t, 0, tx.Pending())
}

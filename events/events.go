package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the pipeline
type EventType string

const (
	EventTypeFileChecked           EventType = "file_checked"
	EventTypeStagingLoaded         EventType = "staging_loaded"
	EventTypeHistoryReconciled     EventType = "history_reconciled"
	EventTypeCurrentMonthProjected EventType = "current_month_projected"
	EventTypeStagingCleaned        EventType = "staging_cleaned"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// FileCheckedEvent is emitted once the input file was found and digested
type FileCheckedEvent struct {
	Path   string
	Size   int64
	Digest string
}

func (e FileCheckedEvent) Type() EventType {
	return EventTypeFileChecked
}

// StagingLoadedEvent is emitted after a normalized batch is committed to staging
type StagingLoadedEvent struct {
	CurrentMonth  string
	PreviousMonth string
	Rows          int
}

func (e StagingLoadedEvent) Type() EventType {
	return EventTypeStagingLoaded
}

// HistoryReconciledEvent is emitted after a month's change-set is committed
type HistoryReconciledEvent struct {
	CurrentMonth  string
	PreviousMonth string
	RankedPairs   int
	ChangedPairs  int
	Replaced      int64
}

func (e HistoryReconciledEvent) Type() EventType {
	return EventTypeHistoryReconciled
}

// CurrentMonthProjectedEvent is emitted after the current-month view is replaced
type CurrentMonthProjectedEvent struct {
	Month string
	Rows  int
}

func (e CurrentMonthProjectedEvent) Type() EventType {
	return EventTypeCurrentMonthProjected
}

// StagingCleanedEvent is emitted after a month's staged trips are deleted
type StagingCleanedEvent struct {
	Month   string
	Deleted int64
}

func (e StagingCleanedEvent) Type() EventType {
	return EventTypeStagingCleaned
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run on their
// own goroutines; Wait blocks until they have all returned.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush hands pending events to the real bus; call it after commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	if b.real == nil {
		b.pending = nil
		return
	}
	// Handlers outlive the transaction, so they get a fresh context.
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events; call it after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns how many events wait for Flush.
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

package events

import (
	"context"
	"sync"

	"trenchwars/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWarCreated      EventType = "war_created"
	EventTypeBetPlaced       EventType = "bet_placed"
	EventTypeWarSettled      EventType = "war_settled"
	EventTypeWinningsClaimed EventType = "winnings_claimed"
	EventTypePriceRecorded   EventType = "price_recorded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// WarCreatedEvent represents a new war opening for bets
type WarCreatedEvent struct {
	WarID        int64
	TokenASymbol string
	TokenBSymbol string
	EndTime      int64
}

func (e WarCreatedEvent) Type() EventType {
	return EventTypeWarCreated
}

// BetPlacedEvent represents a bet accepted into a war's pool
type BetPlacedEvent struct {
	BetID  int64
	WarID  int64
	UserID int64
	Side   models.BetSide
	Amount int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// WarSettledEvent represents a war being irreversibly settled
type WarSettledEvent struct {
	WarID             int64
	Winner            models.Winner
	TotalPool         int64
	PlatformFee       int64
	DistributablePool int64
}

func (e WarSettledEvent) Type() EventType {
	return EventTypeWarSettled
}

// WinningsClaimedEvent represents a bet's payout being claimed
type WinningsClaimedEvent struct {
	BetID  int64
	WarID  int64
	UserID int64
	Payout int64
}

func (e WinningsClaimedEvent) Type() EventType {
	return EventTypeWinningsClaimed
}

// PriceRecordedEvent represents a new price observation for a token
type PriceRecordedEvent struct {
	TokenID int64
	Symbol  string
	Price   float64
}

func (e PriceRecordedEvent) Type() EventType {
	return EventTypePriceRecorded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
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

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
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

// TransactionalBus stashes events published inside a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction's context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event after commit")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops all pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

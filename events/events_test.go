package events

import (
	"context"
	"testing"
	"time"

	"trenchwars/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeWarSettled, func(ctx context.Context, e Event) {
		received <- e
	})

	bus.Emit(context.Background(), WarSettledEvent{
		WarID:  1,
		Winner: models.WinnerTokenA,
	})

	select {
	case e := <-received:
		settled, ok := e.(WarSettledEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1), settled.WarID)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeBetPlaced, func(ctx context.Context, e Event) {
		panic("handler bug")
	})
	bus.Subscribe(EventTypeBetPlaced, func(ctx context.Context, e Event) {
		close(done)
	})

	bus.Emit(context.Background(), BetPlacedEvent{BetID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler was never invoked")
	}
}

func TestTransactionalBus_FlushAfterCommit(t *testing.T) {
	real := NewBus()

	received := make(chan Event, 2)
	real.Subscribe(EventTypeBetPlaced, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus := NewTransactionalBus(real)
	txBus.Publish(BetPlacedEvent{BetID: 1})
	txBus.Publish(BetPlacedEvent{BetID: 2})

	// Nothing reaches handlers until the flush
	select {
	case <-received:
		t.Fatal("event emitted before flush")
	case <-time.After(50 * time.Millisecond):
	}

	txBus.Flush(context.Background())

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatal("flushed event never reached handler")
		}
	}
}

func TestTransactionalBus_DiscardOnRollback(t *testing.T) {
	real := NewBus()

	received := make(chan Event, 1)
	real.Subscribe(EventTypeBetPlaced, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus := NewTransactionalBus(real)
	txBus.Publish(BetPlacedEvent{BetID: 1})
	txBus.Discard()
	txBus.Flush(context.Background())

	select {
	case <-received:
		t.Fatal("discarded event was emitted")
	case <-time.After(50 * time.Millisecond):
	}
}

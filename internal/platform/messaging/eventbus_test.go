package messaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventBusDeliversInFIFOOrder(t *testing.T) {
	bus := NewEventBus(BusOptions{Capacity: 10, Logger: discardLogger()})
	for i := 0; i < 10; i++ {
		bus.Publish(context.Background(), "book-created", fmt.Sprintf("book %d", i), map[string]any{"id": i})
	}

	for i := 0; i < 10; i++ {
		ev, ok := bus.TryReceive(context.Background(), 100*time.Millisecond)
		if !ok {
			t.Fatalf("expected event %d, got empty", i)
		}
		if ev.Message != fmt.Sprintf("book %d", i) {
			t.Fatalf("expected message for book %d, got %q", i, ev.Message)
		}
		if ev.Payload["id"] != i {
			t.Fatalf("expected payload id %d, got %v", i, ev.Payload["id"])
		}
	}
}

func TestEventBusDropsExcessPublishesWithoutEviction(t *testing.T) {
	bus := NewEventBus(BusOptions{
		Capacity:       100,
		PublishTimeout: 5 * time.Millisecond,
		Logger:         discardLogger(),
	})

	for i := 0; i < 150; i++ {
		bus.Publish(context.Background(), "book-created", fmt.Sprintf("book %d", i), nil)
	}

	if got := bus.Len(); got != 100 {
		t.Fatalf("expected 100 queued events, got %d", got)
	}
	stats := bus.Stats()
	if stats.Published != 100 || stats.Dropped != 50 {
		t.Fatalf("expected 100 published and 50 dropped, got %+v", stats)
	}

	first, ok := bus.TryReceive(context.Background(), 0)
	if !ok || first.Message != "book 0" {
		t.Fatalf("expected oldest event to survive, got %+v ok=%v", first, ok)
	}
}

func TestEventBusPublishWaitIsBounded(t *testing.T) {
	timeout := 40 * time.Millisecond
	bus := NewEventBus(BusOptions{Capacity: 1, PublishTimeout: timeout, Logger: discardLogger()})
	bus.Publish(context.Background(), "book-created", "first", nil)

	started := time.Now()
	bus.Publish(context.Background(), "book-created", "second", nil)
	elapsed := time.Since(started)

	if elapsed < timeout {
		t.Fatalf("expected publish to wait at least %s, waited %s", timeout, elapsed)
	}
	if elapsed > 20*timeout {
		t.Fatalf("publish blocked too long: %s", elapsed)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected full queue to keep a single event, got %d", bus.Len())
	}
}

func TestEventBusPublishSucceedsWhenConsumerFreesRoom(t *testing.T) {
	bus := NewEventBus(BusOptions{Capacity: 1, PublishTimeout: time.Second, Logger: discardLogger()})
	bus.Publish(context.Background(), "book-created", "first", nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		bus.TryReceive(context.Background(), time.Second)
	}()

	if !bus.Enqueue(context.Background(), NewEvent("book-deleted", "second", nil)) {
		t.Fatalf("expected enqueue to succeed once room was freed")
	}
	ev, ok := bus.TryReceive(context.Background(), time.Second)
	if !ok || ev.Kind != "book-deleted" {
		t.Fatalf("expected second event, got %+v ok=%v", ev, ok)
	}
}

func TestEventBusTryReceiveWaitsFullTimeout(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	timeout := 50 * time.Millisecond

	started := time.Now()
	_, ok := bus.TryReceive(context.Background(), timeout)
	elapsed := time.Since(started)

	if ok {
		t.Fatalf("expected empty result")
	}
	if elapsed < timeout {
		t.Fatalf("expected to wait at least %s, waited %s", timeout, elapsed)
	}
}

func TestEventBusTryReceiveReturnsOnCancel(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	_, ok := bus.TryReceive(ctx, 10*time.Second)
	if ok {
		t.Fatalf("expected empty result after cancel")
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("cancel did not unblock receive promptly: %s", elapsed)
	}
}

func TestEventBusToleratesNilContext(t *testing.T) {
	bus := NewEventBus(BusOptions{Capacity: 1, PublishTimeout: 10 * time.Millisecond, Logger: discardLogger()})

	if _, ok := bus.TryReceive(nil, 10*time.Millisecond); ok {
		t.Fatalf("expected empty result from idle bus")
	}
	if !bus.Enqueue(nil, NewEvent("book-created", "first", nil)) {
		t.Fatalf("expected enqueue with nil context to succeed")
	}
	if ev, ok := bus.TryReceive(nil, 10*time.Millisecond); !ok || ev.Message != "first" {
		t.Fatalf("expected queued event, got %+v ok=%v", ev, ok)
	}
}

func TestEventBusRejectsKindsThatBreakFraming(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	if bus.Enqueue(context.Background(), NewEvent("book\ncreated", "x", nil)) {
		t.Fatalf("expected kind with newline to be rejected")
	}
	if bus.Enqueue(context.Background(), NewEvent("", "x", nil)) {
		t.Fatalf("expected empty kind to be rejected")
	}
	if bus.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", bus.Len())
	}
}

func TestEventBusConcurrentProducersNeverExceedCapacity(t *testing.T) {
	bus := NewEventBus(BusOptions{Capacity: 20, PublishTimeout: 5 * time.Millisecond, Logger: discardLogger()})

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				bus.Publish(context.Background(), "book-created", fmt.Sprintf("%d-%d", p, i), nil)
				if n := bus.Len(); n > bus.Cap() {
					t.Errorf("queue length %d exceeded capacity %d", n, bus.Cap())
				}
			}
		}(p)
	}
	wg.Wait()

	stats := bus.Stats()
	if stats.Published+stats.Dropped != 200 {
		t.Fatalf("expected every publish to be accounted for, got %+v", stats)
	}
	if stats.Queued != 20 {
		t.Fatalf("expected a full queue, got %d", stats.Queued)
	}
}

func TestNewEventCopiesPayload(t *testing.T) {
	payload := map[string]any{"id": 1}
	ev := NewEvent("book-created", "Book created: Dune", payload)
	payload["id"] = 2

	if ev.Payload["id"] != 1 {
		t.Fatalf("expected event payload to be isolated from caller, got %v", ev.Payload["id"])
	}
	if NewEvent("auth-token-expired", "Token has expired", nil).Payload == nil {
		t.Fatalf("expected nil payload to become empty map")
	}
}

package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DefaultQueueCapacity  = 100
	DefaultPublishTimeout = 2 * time.Second
	DefaultReceiveTimeout = 10 * time.Second
)

// BusOptions configures an EventBus. Zero values fall back to the defaults.
type BusOptions struct {
	Name           string
	Capacity       int
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// BusStats is a point-in-time snapshot of bus counters.
type BusStats struct {
	Name      string
	Capacity  int
	Queued    int
	Published uint64
	Dropped   uint64
}

// EventBus is a bounded FIFO of events shared by many producers.
//
// Publish never fails the caller: when the queue stays full for the publish
// timeout the event is dropped and logged. Oldest entries are never evicted.
type EventBus struct {
	name           string
	queue          chan Event
	publishTimeout time.Duration
	logger         *slog.Logger

	published atomic.Uint64
	dropped   atomic.Uint64
}

func NewEventBus(opts BusOptions) *EventBus {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	timeout := opts.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	name := opts.Name
	if name == "" {
		name = "events"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		name:           name,
		queue:          make(chan Event, capacity),
		publishTimeout: timeout,
		logger:         logger,
	}
}

// Publish builds an event and enqueues it, waiting at most the publish
// timeout for room. It is fire-and-forget.
func (b *EventBus) Publish(ctx context.Context, kind string, message string, payload map[string]any) {
	b.Enqueue(ctx, NewEvent(kind, message, payload))
}

// Enqueue is Publish for a prebuilt event and reports whether it was queued.
func (b *EventBus) Enqueue(ctx context.Context, ev Event) bool {
	return b.offer(ctx, ev, b.publishTimeout)
}

// TryEnqueue queues ev only if there is room right now.
func (b *EventBus) TryEnqueue(ev Event) bool {
	return b.offer(context.Background(), ev, 0)
}

// TryReceive waits up to timeout for the next event. The boolean is false
// when the wait elapsed or ctx was cancelled first.
func (b *EventBus) TryReceive(ctx context.Context, timeout time.Duration) (Event, bool) {
	select {
	case ev := <-b.queue:
		return ev, true
	default:
	}
	if timeout <= 0 {
		return Event{}, false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-b.queue:
		return ev, true
	case <-timer.C:
		return Event{}, false
	case <-ctx.Done():
		return Event{}, false
	}
}

// Attach hands every stream session the bus itself, so concurrent sessions
// compete for events.
func (b *EventBus) Attach(context.Context) (Receiver, func()) {
	return b, func() {}
}

func (b *EventBus) Len() int {
	return len(b.queue)
}

func (b *EventBus) Cap() int {
	return cap(b.queue)
}

func (b *EventBus) Stats() BusStats {
	return BusStats{
		Name:      b.name,
		Capacity:  cap(b.queue),
		Queued:    len(b.queue),
		Published: b.published.Load(),
		Dropped:   b.dropped.Load(),
	}
}

func (b *EventBus) offer(ctx context.Context, ev Event, wait time.Duration) bool {
	if ev.Kind == "" || strings.ContainsAny(ev.Kind, "\r\n") {
		b.drop(ev, "invalid_kind")
		return false
	}

	select {
	case b.queue <- ev:
		b.published.Add(1)
		return true
	default:
	}
	if wait <= 0 {
		b.drop(ev, "queue_full")
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case b.queue <- ev:
		b.published.Add(1)
		return true
	case <-timer.C:
		b.drop(ev, "publish_timeout")
	case <-ctx.Done():
		b.drop(ev, "context_done")
	}
	return false
}

func (b *EventBus) drop(ev Event, reason string) {
	b.dropped.Add(1)
	b.logger.Warn("event dropped",
		"event", "event_bus_drop",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"bus", b.name,
		"reason", reason,
		"event_kind", ev.Kind,
		"queued", len(b.queue),
		"capacity", cap(b.queue),
	)
}

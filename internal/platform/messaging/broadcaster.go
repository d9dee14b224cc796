package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BroadcasterOptions configures the per-subscriber queues.
type BroadcasterOptions struct {
	QueueCapacity int
	PollInterval  time.Duration
	Logger        *slog.Logger
}

// Broadcaster drains a source bus and copies every event into the bounded
// queue of each attached subscriber. A subscriber whose queue is full loses
// that event; other subscribers are unaffected.
type Broadcaster struct {
	source        Receiver
	queueCapacity int
	pollInterval  time.Duration
	logger        *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]*Subscription
}

func NewBroadcaster(source Receiver, opts BroadcasterOptions) *Broadcaster {
	capacity := opts.QueueCapacity
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		source:        source,
		queueCapacity: capacity,
		pollInterval:  interval,
		logger:        logger,
		subscribers:   make(map[string]*Subscription),
	}
}

// Run pumps events until ctx is cancelled. It is meant to run in exactly one
// goroutine for the lifetime of the process.
func (b *Broadcaster) Run(ctx context.Context) error {
	b.logger.Info("broadcaster started",
		"event", "broadcaster_started",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subscriber_queue_capacity", b.queueCapacity,
	)
	for {
		if ctx.Err() != nil {
			b.logger.Info("broadcaster stopped",
				"event", "broadcaster_stopped",
				"module", "internal/platform/messaging",
				"layer", "platform",
			)
			return nil
		}
		ev, ok := b.source.TryReceive(ctx, b.pollInterval)
		if !ok {
			continue
		}
		b.fanOut(ev)
	}
}

// Subscribe registers a new subscriber with its own queue.
func (b *Broadcaster) Subscribe() *Subscription {
	id := uuid.NewString()
	sub := &Subscription{
		id: id,
		queue: NewEventBus(BusOptions{
			Name:     "subscriber:" + id,
			Capacity: b.queueCapacity,
			Logger:   b.logger,
		}),
		owner: b,
	}

	b.mu.Lock()
	b.subscribers[id] = sub
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Info("stream subscriber attached",
		"event", "broadcaster_subscribe",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subscriber_id", id,
		"subscriber_count", count,
	)
	return sub
}

// Attach gives each stream session a fresh subscription.
func (b *Broadcaster) Attach(context.Context) (Receiver, func()) {
	sub := b.Subscribe()
	return sub, sub.Close
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *Broadcaster) fanOut(ev Event) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.queue.TryEnqueue(ev)
	}
}

func (b *Broadcaster) removeSubscriber(id string) {
	b.mu.Lock()
	delete(b.subscribers, id)
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Info("stream subscriber detached",
		"event", "broadcaster_unsubscribe",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subscriber_id", id,
		"subscriber_count", count,
	)
}

// Subscription is one subscriber's view of the broadcast.
type Subscription struct {
	id    string
	queue *EventBus
	owner *Broadcaster
	once  sync.Once
}

func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) TryReceive(ctx context.Context, timeout time.Duration) (Event, bool) {
	return s.queue.TryReceive(ctx, timeout)
}

func (s *Subscription) Stats() BusStats {
	return s.queue.Stats()
}

// Close detaches the subscription. Queued events are discarded with it.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.owner.removeSubscriber(s.id)
	})
}

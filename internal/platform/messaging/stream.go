package messaging

import (
	"context"
	"iter"
	"log/slog"
	"time"
)

// Receiver yields events one at a time with a bounded wait.
type Receiver interface {
	TryReceive(ctx context.Context, timeout time.Duration) (Event, bool)
}

// SessionSource hands a Receiver to each new stream session. The returned
// func releases it and must be called exactly once.
type SessionSource interface {
	Attach(ctx context.Context) (Receiver, func())
}

// StreamPublisher turns a SessionSource into SSE frame sequences.
type StreamPublisher struct {
	sessions       SessionSource
	receiveTimeout time.Duration
	logger         *slog.Logger
}

func NewStreamPublisher(sessions SessionSource, receiveTimeout time.Duration, logger *slog.Logger) *StreamPublisher {
	if receiveTimeout <= 0 {
		receiveTimeout = DefaultReceiveTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamPublisher{
		sessions:       sessions,
		receiveTimeout: receiveTimeout,
		logger:         logger,
	}
}

// Open returns an infinite, non-restartable sequence of frames for one
// client. Nothing is attached until iteration starts. Each pull yields an
// event frame, or KeepAliveFrame when the receive timeout elapses first.
//
// The sequence ends when ctx is done, when the consumer stops ranging, or
// when an event cannot be encoded. Missed events are never replayed.
func (p *StreamPublisher) Open(ctx context.Context) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		receiver, detach := p.sessions.Attach(ctx)
		defer detach()

		p.logger.Info("stream client connected",
			"event", "stream_connected",
			"module", "internal/platform/messaging",
			"layer", "platform",
		)

		frames := 0
		for {
			if ctx.Err() != nil {
				p.logDisconnect(frames)
				return
			}

			ev, ok := receiver.TryReceive(ctx, p.receiveTimeout)
			if !ok {
				if ctx.Err() != nil {
					p.logDisconnect(frames)
					return
				}
				if !yield(KeepAliveFrame) {
					p.logDisconnect(frames)
					return
				}
				frames++
				continue
			}

			frame, err := EncodeFrame(ev)
			if err != nil {
				p.logger.Error("stream terminated on encode failure",
					"event", "stream_encode_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"event_kind", ev.Kind,
					"frames_sent", frames,
					"error", err.Error(),
				)
				return
			}
			if !yield(frame) {
				p.logDisconnect(frames)
				return
			}
			frames++
		}
	}
}

func (p *StreamPublisher) logDisconnect(frames int) {
	p.logger.Info("stream client disconnected",
		"event", "stream_disconnected",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"frames_sent", frames,
	)
}

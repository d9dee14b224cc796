package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEncodeFrameMatchesWireFormat(t *testing.T) {
	ev := NewEvent("book-created", "Book created: Dune", map[string]any{
		"id":     1,
		"title":  "Dune",
		"author": "Frank Herbert",
	})

	frame, err := EncodeFrame(ev)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	want := "event: book-created\n" +
		`data: {"type":"book-created","message":"Book created: Dune","data":{"author":"Frank Herbert","id":1,"title":"Dune"}}` +
		"\n\n"
	if string(frame) != want {
		t.Fatalf("unexpected frame:\n got %q\nwant %q", frame, want)
	}
}

func TestPublishedEventRoundTripsThroughFrame(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	bus.Publish(context.Background(), "book-created", "Book created: Dune", map[string]any{"id": 1, "title": "Dune"})

	ev, ok := bus.TryReceive(context.Background(), time.Second)
	if !ok {
		t.Fatalf("expected published event")
	}
	frame, err := EncodeFrame(ev)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	want := "event: book-created\ndata: {\"type\":\"book-created\",\"message\":\"Book created: Dune\",\"data\":{\"id\":1,\"title\":\"Dune\"}}\n\n"
	if string(frame) != want {
		t.Fatalf("unexpected frame:\n got %q\nwant %q", frame, want)
	}

	line := strings.SplitN(string(frame), "\n", 3)[1]
	var decoded struct {
		Type    string         `json:"type"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &decoded); err != nil {
		t.Fatalf("decode data line: %v", err)
	}
	if decoded.Type != ev.Kind || decoded.Message != ev.Message {
		t.Fatalf("unexpected decoded event %+v", decoded)
	}
	if decoded.Data["id"] != float64(1) || decoded.Data["title"] != "Dune" {
		t.Fatalf("unexpected decoded payload %+v", decoded.Data)
	}
}

func TestEncodeFrameUsesEmptyObjectForMissingPayload(t *testing.T) {
	frame, err := EncodeFrame(Event{Kind: "auth-token-expired", Message: "Token has expired"})
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !strings.Contains(string(frame), `"data":{}`) {
		t.Fatalf("expected empty data object, got %q", frame)
	}
}

func TestEncodeFrameKeepsMarkupCharacters(t *testing.T) {
	frame, err := EncodeFrame(NewEvent("book-created", "Book created: <Dune & Co>", nil))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !strings.Contains(string(frame), "<Dune & Co>") {
		t.Fatalf("expected message without html escaping, got %q", frame)
	}
}

func TestEncodeFrameRejectsUnencodablePayload(t *testing.T) {
	_, err := EncodeFrame(NewEvent("book-created", "bad", map[string]any{"ch": make(chan int)}))
	if err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestStreamEmitsKeepAliveWhenIdle(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	stream := NewStreamPublisher(bus, 10*time.Millisecond, discardLogger())

	count := 0
	for frame := range stream.Open(context.Background()) {
		if frame != KeepAliveFrame {
			t.Fatalf("expected keep-alive, got %q", frame)
		}
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("expected three keep-alive frames, got %d", count)
	}
}

func TestStreamDeliversQueuedEventsInOrder(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	bus.Publish(context.Background(), "book-created", "Book created: Dune", map[string]any{"id": 1})
	bus.Publish(context.Background(), "book-deleted", "Book deleted with ID 1", map[string]any{"id": 1})

	stream := NewStreamPublisher(bus, time.Second, discardLogger())
	var frames []Frame
	for frame := range stream.Open(context.Background()) {
		frames = append(frames, frame)
		if len(frames) == 2 {
			break
		}
	}

	if !strings.HasPrefix(string(frames[0]), "event: book-created\n") {
		t.Fatalf("unexpected first frame %q", frames[0])
	}
	if !strings.HasPrefix(string(frames[1]), "event: book-deleted\n") {
		t.Fatalf("unexpected second frame %q", frames[1])
	}
}

func TestStreamStopsWhenContextCancelled(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	stream := NewStreamPublisher(bus, 5*time.Second, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan int)
	go func() {
		n := 0
		for range stream.Open(ctx) {
			n++
		}
		done <- n
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("expected no frames before cancel, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not stop after cancel")
	}
}

func TestStreamEndsOnEncodeFailure(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	bus.Publish(context.Background(), "book-created", "ok", map[string]any{"id": 1})
	bus.Publish(context.Background(), "book-created", "broken", map[string]any{"ch": make(chan int)})
	bus.Publish(context.Background(), "book-created", "never", map[string]any{"id": 3})

	stream := NewStreamPublisher(bus, 20*time.Millisecond, discardLogger())
	var frames []Frame
	for frame := range stream.Open(context.Background()) {
		frames = append(frames, frame)
		if len(frames) > 5 {
			break
		}
	}

	if len(frames) != 1 {
		t.Fatalf("expected stream to end after the first frame, got %d frames", len(frames))
	}
	if bus.Len() != 1 {
		t.Fatalf("expected the trailing event to stay queued, got %d", bus.Len())
	}
}

func TestStreamIsLazyUntilIterated(t *testing.T) {
	broadcaster := NewBroadcaster(NewEventBus(BusOptions{Logger: discardLogger()}), BroadcasterOptions{Logger: discardLogger()})
	stream := NewStreamPublisher(broadcaster, 10*time.Millisecond, discardLogger())

	seq := stream.Open(context.Background())
	if broadcaster.Subscribers() != 0 {
		t.Fatalf("expected no subscriber before iteration")
	}
	for range seq {
		if broadcaster.Subscribers() != 1 {
			t.Fatalf("expected one subscriber during iteration, got %d", broadcaster.Subscribers())
		}
		break
	}
	if broadcaster.Subscribers() != 0 {
		t.Fatalf("expected subscriber to detach after iteration, got %d", broadcaster.Subscribers())
	}
}

func TestSharedStreamsCompeteForEvents(t *testing.T) {
	bus := NewEventBus(BusOptions{Logger: discardLogger()})
	for i := 0; i < 10; i++ {
		bus.Publish(context.Background(), "book-created", "Book created", map[string]any{"id": i})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := NewStreamPublisher(bus, 20*time.Millisecond, discardLogger())

	var (
		mu    sync.Mutex
		total int
		wg    sync.WaitGroup
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for frame := range stream.Open(ctx) {
				if frame == KeepAliveFrame {
					return
				}
				mu.Lock()
				total++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if total != 10 {
		t.Fatalf("expected each event to be delivered exactly once across sessions, got %d", total)
	}
}

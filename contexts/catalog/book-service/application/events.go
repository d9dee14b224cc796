package application

import (
	"context"
	"fmt"

	"bookshelf/contexts/catalog/book-service/ports"
)

const (
	EventBookCreated          = "book-created"
	EventBookUpdated          = "book-updated"
	EventBookPartiallyUpdated = "book-partially-updated"
	EventBookDeleted          = "book-deleted"
	EventError                = "error"
)

// Publish is a no-op when events is nil.
func Publish(ctx context.Context, events ports.EventPublisher, kind string, message string, payload map[string]any) {
	if events == nil {
		return
	}
	events.Publish(ctx, kind, message, payload)
}

func PublishNotFound(ctx context.Context, events ports.EventPublisher, bookID int64) {
	Publish(ctx, events, EventError, fmt.Sprintf("Book with ID %d not found", bookID), map[string]any{
		"id": bookID,
	})
}

func PublishFailure(ctx context.Context, events ports.EventPublisher, message string, bookID int64, err error) {
	Publish(ctx, events, EventError, message, map[string]any{
		"id":    bookID,
		"error": err.Error(),
	})
}

package application

import (
	"context"

	"bookshelf/contexts/identity-access/auth-service/ports"
)

const (
	EventAuthSuccess      = "auth-success"
	EventAuthFailed       = "auth-failed"
	EventAuthTokenExpired = "auth-token-expired"
)

func Publish(ctx context.Context, events ports.EventPublisher, kind string, message string, payload map[string]any) {
	if events == nil {
		return
	}
	events.Publish(ctx, kind, message, payload)
}

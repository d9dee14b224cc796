package messaging

import "maps"

// Event is a notification about a completed or failed domain action.
// It is built once by NewEvent and never mutated afterwards.
type Event struct {
	Kind    string         `json:"type"`
	Message string         `json:"message"`
	Payload map[string]any `json:"data"`
}

// NewEvent copies payload so the caller keeps no shared reference to the
// queued value. A nil payload becomes an empty map.
func NewEvent(kind string, message string, payload map[string]any) Event {
	data := make(map[string]any, len(payload))
	maps.Copy(data, payload)
	return Event{
		Kind:    kind,
		Message: message,
		Payload: data,
	}
}

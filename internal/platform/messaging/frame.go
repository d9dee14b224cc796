package messaging

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Frame is one server-sent-events chunk, terminator included.
type Frame string

// KeepAliveFrame is an SSE comment emitted while the stream is idle.
const KeepAliveFrame Frame = ": keep-alive\n\n"

// EventStreamContentType is the media type of the stream response.
const EventStreamContentType = "text/event-stream"

// EncodeFrame renders ev as
//
//	event: <kind>
//	data: {"type":"<kind>","message":"<message>","data":{...}}
//
// followed by the blank line that terminates an SSE message.
func EncodeFrame(ev Event) (Frame, error) {
	wire := ev
	if wire.Payload == nil {
		wire.Payload = map[string]any{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(wire); err != nil {
		return "", fmt.Errorf("encode event %q: %w", ev.Kind, err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	var out bytes.Buffer
	out.Grow(len(ev.Kind) + len(data) + 16)
	out.WriteString("event: ")
	out.WriteString(ev.Kind)
	out.WriteString("\ndata: ")
	out.Write(data)
	out.WriteString("\n\n")
	return Frame(out.String()), nil
}

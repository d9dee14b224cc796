package httpserver

import (
	"io"
	"net/http"

	"bookshelf/internal/platform/messaging"
)

const detailStreamInit = "Stream failed to initialize"

// handleStream godoc
// @Summary Subscribe to book and auth notifications
// @Description Server-sent events. Idle periods produce ": keep-alive" comments.
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /stream/ [get]
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.stream == nil || !supportsFlush(w) {
		s.logger.Error("stream failed to initialize",
			"event", "http_stream_init_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"request_id", requestIDFrom(r.Context()),
		)
		if s.events != nil {
			s.events.Publish(r.Context(), "error", detailStreamInit, map[string]any{
				"error": "response writer does not support streaming",
			})
		}
		writeDetail(w, http.StatusInternalServerError, detailStreamInit)
		return
	}

	username := ""
	if principal, ok := principalFrom(r.Context()); ok {
		username = principal.Username
	}
	s.logger.Info("stream opened",
		"event", "http_stream_opened",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"request_id", requestIDFrom(r.Context()),
		"username", username,
	)

	header := w.Header()
	header.Set("Content-Type", messaging.EventStreamContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		return
	}

	for frame := range s.stream.Open(r.Context()) {
		if _, err := io.WriteString(w, string(frame)); err != nil {
			s.logStreamWriteFailure(r, err)
			return
		}
		if err := rc.Flush(); err != nil {
			s.logStreamWriteFailure(r, err)
			return
		}
	}
}

func (s *Server) logStreamWriteFailure(r *http.Request, err error) {
	s.logger.Info("stream write failed",
		"event", "http_stream_write_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"request_id", requestIDFrom(r.Context()),
		"error", err.Error(),
	)
}

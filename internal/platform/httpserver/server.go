package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	bookservice "bookshelf/contexts/catalog/book-service"
	authservice "bookshelf/contexts/identity-access/auth-service"
	_ "bookshelf/internal/platform/httpserver/docs"
	"bookshelf/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
)

// EventPublisher is the notification sink used by the transport layer itself.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, message string, payload map[string]any)
}

type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	addr    string

	books  bookservice.Module
	auth   authservice.Module
	stream *messaging.StreamPublisher
	events EventPublisher

	httpServer *http.Server
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

func New(
	books bookservice.Module,
	auth authservice.Module,
	stream *messaging.StreamPublisher,
	events EventPublisher,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		books:      books,
		auth:       auth,
		stream:     stream,
		events:     events,
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}
	s.registerRoutes()
	s.handler = s.withRequestID(s.withLogging(s.withRecovery(s.mux)))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return s.baseCtx
		},
	}
	return s
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown ends open event streams first, then drains regular requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	s.cancelBase()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /v1/auth/login", s.handleLogin)

	s.mux.HandleFunc("POST /v1/books", s.requireBearer(s.handleCreateBook))
	s.mux.HandleFunc("POST /v1/books/{$}", s.requireBearer(s.handleCreateBook))
	s.mux.HandleFunc("GET /v1/books", s.requireBearer(s.handleListBooks))
	s.mux.HandleFunc("GET /v1/books/{$}", s.requireBearer(s.handleListBooks))
	s.mux.HandleFunc("GET /v1/books/{book_id}", s.requireBearer(s.handleGetBook))
	s.mux.HandleFunc("PUT /v1/books/{book_id}", s.requireBearer(s.handleReplaceBook))
	s.mux.HandleFunc("PATCH /v1/books/{book_id}", s.requireBearer(s.handlePatchBook))
	s.mux.HandleFunc("DELETE /v1/books/{book_id}", s.requireBearer(s.handleDeleteBook))

	s.mux.HandleFunc("GET /v1/stream", s.requireBearer(s.handleStream))
	s.mux.HandleFunc("GET /v1/stream/{$}", s.requireBearer(s.handleStream))
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

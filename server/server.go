// Package server exposes the query pipeline over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ragkit/ragkit-go/ragkit"
)

// Service is the pipeline contract the server exposes. The agent package's
// Agent satisfies it.
type Service interface {
	Process(ctx context.Context, query string) (*ragkit.Result, error)
	History(ctx context.Context) ([]ragkit.QueryRecord, error)
	ClearHistory(ctx context.Context) error
}

// Server serves the pipeline on:
//
//	POST   /query    process one query
//	GET    /history  session history snapshot
//	DELETE /history  clear the session
//	GET    /health   liveness probe
//	GET    /ws       interactive WebSocket session
type Server struct {
	service Service
	logger  *slog.Logger
	server  *http.Server
	mux     *http.ServeMux
	mu      sync.Mutex
}

// New creates a server for the given service.
//
// Args:
//   - service: The pipeline to expose
//   - addr: Listen address (e.g., "localhost:8080")
//   - logger: Request diagnostics (default: slog.Default())
func New(service Service, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	s := &Server{
		service: service,
		logger:  logger,
		mux:     mux,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s
}

// Handler returns the underlying HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server in the background.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("server listening", "addr", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

type queryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodHead && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	result, err := s.service.Process(r.Context(), req.Query)
	if err != nil {
		s.sendProcessError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.service.History(r.Context())
		if err != nil {
			s.sendError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.sendJSON(w, http.StatusOK, records)

	case http.MethodDelete:
		if err := s.service.ClearHistory(r.Context()); err != nil {
			s.sendError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// sendProcessError maps pipeline failures to HTTP status codes. Invalid
// input is the client's fault; retrieval and transport failures are
// upstream problems.
func (s *Server) sendProcessError(w http.ResponseWriter, err error) {
	var retrievalErr *ragkit.RetrievalError
	switch {
	case errors.Is(err, ragkit.ErrEmptyQuery):
		s.sendError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &retrievalErr):
		s.sendError(w, http.StatusBadGateway, err.Error())
	default:
		s.sendError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, errorResponse{Error: message})
}

// Package server exposes the search client over HTTP.
//
// The boundary is deliberately thin: one JSON endpoint that validates the
// request shape, delegates to the core client and renders the response
// envelope. All domain behavior (query validation, store widening, limit
// clamping, the similarity floor) lives in the core package.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

// SearchRequest is the JSON body accepted by the search endpoint.
type SearchRequest struct {
	// Query is the free-text search query. Required.
	Query string `json:"query"`

	// Store optionally restricts results to a single store.
	Store string `json:"store,omitempty"`

	// Limit optionally caps the result count. Clamped server-side.
	Limit int `json:"limit,omitempty"`
}

// SearchResponse is the envelope returned on a successful search.
type SearchResponse struct {
	// Query echoes the trimmed query the results answer.
	Query string `json:"query"`

	// Store is the store filter actually applied; null when the search
	// ran across all stores.
	Store *string `json:"store"`

	// Results is the ranked result list. Always present, possibly empty.
	Results []core.Result `json:"results"`

	// Count is len(Results).
	Count int `json:"count"`

	// Timestamp is when the response was produced, RFC 3339.
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the envelope returned on failures. The message is
// generic on internal errors; causes are logged, never surfaced.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the search HTTP boundary.
type Server struct {
	client *core.Client
	logger *slog.Logger
	mux    *http.ServeMux
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server around an initialized search client.
func New(client *core.Client, opts ...Option) *Server {
	s := &Server{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)
	s.mux = mux

	return s
}

// Handler returns the root HTTP handler, usable with httptest or any
// net/http server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts serving on addr and blocks until the listener
// fails or the server is shut down.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server: listening", "addr", addr)
	return srv.ListenAndServe()
}

// handleSearch implements POST /search.
//
// Method handling: OPTIONS answers the CORS preflight with 200, POST runs
// the search, everything else is 405. The handler is origin-agnostic and
// always sends permissive CORS headers.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := s.client.Search(r.Context(), req.Query, req.Store, req.Limit)
	if err != nil {
		if errors.Is(err, core.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		s.logger.Error("server: search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	resp := SearchResponse{
		Query:     strings.TrimSpace(req.Query),
		Store:     appliedStore(s.client.ResolveStore(req.Store)),
		Results:   results,
		Count:     len(results),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth implements GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// appliedStore maps the widened "all stores" filter to a JSON null.
func appliedStore(storeFilter string) *string {
	if storeFilter == "" {
		return nil
	}
	return &storeFilter
}

func writeCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

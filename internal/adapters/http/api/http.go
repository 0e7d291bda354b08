// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/lineup/internal/domain/types"
)

// Default server configuration constants.
const (
	defaultMaxBodyBytes  = 8 << 20
	defaultSearchTimeout = time.Minute
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SearchSquads(ctx context.Context, req types.SquadsRequest) (types.SquadsResponse, error)
	SearchTransfers(ctx context.Context, req types.TransfersRequest) (types.TransfersResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	squadsHandler    *SquadsHandler
	transfersHandler *TransfersHandler
}

// Option applies a configuration option to the Server.
type Option func(*limits)

// limits bound every search request.
type limits struct {
	maxBodyBytes int64
	timeout      time.Duration
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(l *limits) {
		if n > 0 {
			l.maxBodyBytes = n
		}
	}
}

// WithSearchTimeout bounds each search.
func WithSearchTimeout(d time.Duration) Option {
	return func(l *limits) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func newLimits(opts []Option) limits {
	l := limits{maxBodyBytes: defaultMaxBodyBytes, timeout: defaultSearchTimeout}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		squadsHandler:    NewSquadsHandler(deps, opts...),
		transfersHandler: NewTransfersHandler(deps, opts...),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/squads", MetricsMiddleware(s.squadsHandler.HandlePostSquads, "squads"))
	mux.HandleFunc("/v1/transfers", MetricsMiddleware(s.transfersHandler.HandlePostTransfers, "transfers"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	msg := http.StatusText(code)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, errorResponse{Code: name, Message: msg})
}

// decode reads a JSON body of at most maxBytes into v.
func decode(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after request body")
	}
	return nil
}

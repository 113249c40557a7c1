package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

const fallbackTimeout = 2 * time.Second

// ReportSource loads the last report stored by a previous run.
type ReportSource interface {
	LatestReport(ctx context.Context, node string) (domain.Report, bool, error)
}

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	monitor  *Monitor
	node     string
	server   *http.Server
	fallback ReportSource
}

// NewServer creates a new health server.
func NewServer(monitor *Monitor, node string, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor: monitor,
		node:    node,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// SetFallback makes /health/detailed serve the stored report of src until the first cycle completes.
func (s *Server) SetFallback(src ReportSource) {
	s.fallback = src
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := StatusUnknown
	if rep, ok := s.monitor.Last(); ok {
		status = StatusFromReport(rep)
	}

	response := map[string]string{"status": string(status)}
	w.Header().Set("Content-Type", "application/json")

	if status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := HealthReport{SystemStatus: StatusUnknown, Node: s.node}
	if rep, ok := s.monitor.Last(); ok {
		report.SystemStatus = StatusFromReport(rep)
		report.Last = &rep
	} else if s.fallback != nil {
		ctx, cancel := context.WithTimeout(r.Context(), fallbackTimeout)
		defer cancel()

		stored, found, err := s.fallback.LatestReport(ctx, s.node)
		if err != nil {
			slog.Warn("Failed to load stored report", "node", s.node, "error", err)
		} else if found {
			// Stored reports are not reflected in the status until this process has run a cycle.
			report.Last = &stored
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

package health

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/capture"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/system"
)

// StatusFunc supplies the live capture status for the health payload.
type StatusFunc func() capture.Status

type HealthResponse struct {
	Status        string         `json:"status"`
	Service       string         `json:"service"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Timestamp     int64          `json:"timestamp"`
	Capture       capture.Status `json:"capture"`
	System        *system.Metrics `json:"system,omitempty"`
}

// Server serves the /health endpoint. Constructed explicitly and shut down by
// the orchestrator; no package-level state.
type Server struct {
	srv       *http.Server
	status    StatusFunc
	startTime time.Time
}

func NewServer(port string, status StatusFunc) *Server {
	s := &Server{
		status:    status,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)

	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	log.Printf("Health check listening on %s", s.srv.Addr)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Health server failed: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := system.Collect()
	if err != nil {
		metrics = nil
	}

	response := &HealthResponse{
		Status:        "healthy",
		Service:       "cyberguard-engine",
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Timestamp:     time.Now().Unix(),
		Capture:       s.status(),
		System:        metrics,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

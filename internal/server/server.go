// Package server exposes the marker detector over HTTP and WebSocket.
package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/fidmark/internal/detector"
)

// NewServer creates a detection server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	det, err := detector.NewDetector(cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize detector: %w", err)
	}
	maxUploadMB := cfg.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &Server{
		detector:    det,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: maxUploadMB,
		timeoutSec:  cfg.TimeoutSec,
	}, nil
}

// SetupRoutes registers all endpoints on the mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.withMiddleware(s.healthHandler))
	mux.HandleFunc("/detect", s.withMiddleware(s.detectHandler))
	mux.HandleFunc("/ws", s.detectWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

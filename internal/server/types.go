package server

import (
	"github.com/MeKo-Tech/fidmark/internal/detector"
)

// markerDetector defines what the server needs from a detector.
type markerDetector interface {
	Detect(frame *detector.Raster) ([]detector.Marker, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	detector    markerDetector
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
	Detector    detector.Config
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// MarkerResult is the wire form of one detected marker. Corners are
// [x, y] pairs starting at the marker's canonical top-left, clockwise.
type MarkerResult struct {
	ID      int           `json:"id"`
	Corners [4][2]float64 `json:"corners"`
}

// DetectResponse is the wire form of one processed frame.
type DetectResponse struct {
	Markers      []MarkerResult `json:"markers"`
	Count        int            `json:"count"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	ProcessingMs float64        `json:"processing_ms"`
}

// ErrorResponse is the wire form of request failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

func markerResults(markers []detector.Marker) []MarkerResult {
	out := make([]MarkerResult, len(markers))
	for i, m := range markers {
		out[i].ID = m.ID
		for c, p := range m.Corners {
			out[i].Corners[c] = [2]float64{p.X, p.Y}
		}
	}
	return out
}

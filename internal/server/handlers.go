package server

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/fidmark/internal/detector"
	"github.com/MeKo-Tech/fidmark/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: v,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, http.StatusOK, response)
}

// detectHandler processes one uploaded frame and returns the detected
// markers. The frame is read from the multipart field "image", or from the
// raw request body when the request is not multipart.
func (s *Server) detectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	img, err := s.readFrameImage(r)
	if err != nil {
		detectionsTotal.WithLabelValues("http", "error").Inc()
		s.writeError(w, "Failed to decode image: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	frame := detector.RasterFromImage(img)
	markers, err := s.detector.Detect(frame)
	elapsed := time.Since(start)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, detector.ErrInvalidFrame) {
			status = http.StatusBadRequest
		}
		detectionsTotal.WithLabelValues("http", "error").Inc()
		s.writeError(w, err.Error(), status)
		return
	}

	detectionsTotal.WithLabelValues("http", "success").Inc()
	detectionDuration.WithLabelValues("http").Observe(elapsed.Seconds())
	markersDetected.WithLabelValues("http").Observe(float64(len(markers)))

	s.writeJSON(w, http.StatusOK, DetectResponse{
		Markers:      markerResults(markers),
		Count:        len(markers),
		Width:        frame.Width,
		Height:       frame.Height,
		ProcessingMs: float64(elapsed.Microseconds()) / 1000,
	})
}

// readFrameImage extracts and decodes the uploaded frame.
func (s *Server) readFrameImage(r *http.Request) (image.Image, error) {
	var reader io.Reader = r.Body
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err == nil {
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("no image file provided")
		}
		defer func() { _ = file.Close() }()
		reader = file
	}
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

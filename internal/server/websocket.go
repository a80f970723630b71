package server

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/fidmark/internal/detector"
)

const wsReadDeadline = 60 * time.Second

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		return true
	},
}

// wsError is the wire form of a per-frame failure on the stream. The
// connection stays open; each frame is independent.
type wsError struct {
	Error string `json:"error"`
}

// detectWebSocketHandler upgrades the connection and runs frame-by-frame
// detection: each binary message is one encoded image frame, answered with
// one DetectResponse.
func (s *Server) detectWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.serveFrameStream(conn)
}

// serveFrameStream processes frames from one connection until it closes.
func (s *Server) serveFrameStream(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

		if messageType != websocket.BinaryMessage {
			// Text messages are treated as keepalives
			continue
		}

		response, err := s.detectFrameBytes(data)
		if err != nil {
			detectionsTotal.WithLabelValues("websocket", "error").Inc()
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(response); err != nil {
			return
		}
	}
}

// detectFrameBytes decodes one encoded frame and runs detection on it.
func (s *Server) detectFrameBytes(data []byte) (DetectResponse, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return DetectResponse{}, errors.New("failed to decode frame: " + err.Error())
	}

	start := time.Now()
	frame := detector.RasterFromImage(img)
	markers, err := s.detector.Detect(frame)
	elapsed := time.Since(start)
	if err != nil {
		return DetectResponse{}, err
	}

	detectionsTotal.WithLabelValues("websocket", "success").Inc()
	detectionDuration.WithLabelValues("websocket").Observe(elapsed.Seconds())
	markersDetected.WithLabelValues("websocket").Observe(float64(len(markers)))

	return DetectResponse{
		Markers:      markerResults(markers),
		Count:        len(markers),
		Width:        frame.Width,
		Height:       frame.Height,
		ProcessingMs: float64(elapsed.Microseconds()) / 1000,
	}, nil
}

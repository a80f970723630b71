package detector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

// Config holds the immutable configuration of a Detector. It is fixed at
// construction; the detector reads nothing else from its environment.
type Config struct {
	Dictionary *Dictionary // marker format; required

	GridCellSize              int     // warp samples per cell side (default: 8)
	AdaptiveThresholdWindow   int     // threshold window in pixels, odd; 0 scales to frame size
	AdaptiveThresholdConstant float64 // subtracted from the window mean (default: 7)
	MinMarkerAreaRatio        float64 // min candidate area as a fraction of frame area
	MaxAspectRatio            float64 // max bounding-box elongation of a candidate
	MinContourPerimeter       int     // min traced boundary length in pixels before a contour is considered
	DuplicateCornerEpsilonPx  float64 // corner distance under which same-id markers merge
	InvertPolarity            bool    // detect light markers on dark background
}

// DefaultConfig returns a detector configuration for dark markers on light
// background with the ArUco 5x5 dictionary.
func DefaultConfig() Config {
	return Config{
		Dictionary:                ArUco5x5(),
		GridCellSize:              8,
		AdaptiveThresholdWindow:   0,
		AdaptiveThresholdConstant: 7,
		MinMarkerAreaRatio:        0.001,
		MaxAspectRatio:            4.0,
		MinContourPerimeter:       16,
		DuplicateCornerEpsilonPx:  8.0,
		InvertPolarity:            false,
	}
}

// Detector runs the marker detection pipeline over one frame per call. It
// keeps no state between calls beyond its configuration, so distinct
// instances are safe to use from distinct goroutines; a single instance must
// only process one frame at a time.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config) (*Detector, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	slog.Debug("initializing detector",
		"dictionary", cfg.Dictionary.Name,
		"grid_cell_size", cfg.GridCellSize,
		"threshold_window", cfg.AdaptiveThresholdWindow,
		"invert_polarity", cfg.InvertPolarity)
	return &Detector{cfg: cfg}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dictionary == nil {
		return errors.New("dictionary cannot be nil")
	}
	if cfg.GridCellSize < 2 {
		return fmt.Errorf("grid cell size must be at least 2, got %d", cfg.GridCellSize)
	}
	if cfg.MinMarkerAreaRatio <= 0 || cfg.MinMarkerAreaRatio >= 1 {
		return fmt.Errorf("min marker area ratio must be in (0, 1), got %g", cfg.MinMarkerAreaRatio)
	}
	if cfg.MaxAspectRatio < 1 {
		return fmt.Errorf("max aspect ratio must be at least 1, got %g", cfg.MaxAspectRatio)
	}
	if cfg.DuplicateCornerEpsilonPx < 0 {
		return fmt.Errorf("duplicate corner epsilon must be non-negative, got %g", cfg.DuplicateCornerEpsilonPx)
	}
	return nil
}

// Config returns a copy of the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// scoredMarker pairs a decoded marker with its candidate perimeter so
// deduplication can prefer the outer border trace.
type scoredMarker struct {
	marker    Marker
	perimeter float64
}

// Detect runs the full pipeline over one frame and returns all validated
// markers. A frame without markers yields an empty slice; only a
// structurally invalid frame yields an error (ErrInvalidFrame).
func (d *Detector) Detect(frame *Raster) ([]Marker, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	gray := frame.Gray()

	bin := binarize(gray, d.cfg.AdaptiveThresholdWindow, d.cfg.AdaptiveThresholdConstant, d.cfg.InvertPolarity)
	contours := findContours(bin, d.cfg.MinContourPerimeter)

	frameArea := float64(gray.Width * gray.Height)
	found := make([]scoredMarker, 0, len(contours))
	for _, contour := range contours {
		cand, ok := approxQuad(contour, frameArea, d.cfg)
		if !ok {
			continue
		}
		m, ok := decodeCandidate(gray, cand, d.cfg)
		if !ok {
			continue
		}
		found = append(found, scoredMarker{marker: m, perimeter: cand.perimeter})
	}

	markers := dedupeMarkers(found, d.cfg.DuplicateCornerEpsilonPx)
	slog.Debug("frame processed",
		"contours", len(contours),
		"decoded", len(found),
		"markers", len(markers))
	return markers, nil
}

// dedupeMarkers merges markers that share an id and have nearly coincident
// corner sets, typically the outer and inner border trace of one printed
// square. The larger perimeter wins.
func dedupeMarkers(found []scoredMarker, epsilon float64) []Marker {
	kept := make([]scoredMarker, 0, len(found))
	for _, sm := range found {
		duplicate := false
		for i := range kept {
			if kept[i].marker.ID != sm.marker.ID {
				continue
			}
			if !cornersCoincide(kept[i].marker.Corners, sm.marker.Corners, epsilon) {
				continue
			}
			duplicate = true
			if sm.perimeter > kept[i].perimeter {
				kept[i] = sm
			}
			break
		}
		if !duplicate {
			kept = append(kept, sm)
		}
	}
	markers := make([]Marker, len(kept))
	for i, sm := range kept {
		markers[i] = sm.marker
	}
	return markers
}

// cornersCoincide reports whether every corresponding corner pair is within
// epsilon pixels.
func cornersCoincide(a, b [4]utils.Point, epsilon float64) bool {
	for i := range 4 {
		if utils.Dist(a[i], b[i]) > epsilon {
			return false
		}
	}
	return true
}

// Package testutil builds synthetic camera frames for pipeline tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fidmark/internal/detector"
	"github.com/MeKo-Tech/fidmark/internal/generator"
)

// FrameConfig describes a synthetic frame holding one rendered marker.
type FrameConfig struct {
	Width      int
	Height     int
	MarkerID   int
	CellPixels int
	OffsetX    int // top-left of the marker border (not the quiet zone)
	OffsetY    int
	Rotations  int // quarter turns counterclockwise, 0-3
}

// DefaultFrameConfig places marker 7 in a 320x240 frame.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:      320,
		Height:     240,
		MarkerID:   7,
		CellPixels: 8,
		OffsetX:    60,
		OffsetY:    40,
		Rotations:  0,
	}
}

// MarkerFrame renders the configured marker into a white frame and returns
// it as a grayscale Raster together with the marker's border corner
// positions (top-left, clockwise, before rotation is applied).
func MarkerFrame(t *testing.T, cfg FrameConfig) (*detector.Raster, [4][2]float64) {
	t.Helper()

	opts := generator.DefaultOptions()
	opts.CellPixels = cfg.CellPixels
	opts.QuietCells = 0
	marker, err := generator.Render(cfg.MarkerID, opts)
	require.NoError(t, err)

	rotated := rotateQuarter(marker, cfg.Rotations)

	canvas := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	at := image.Rect(cfg.OffsetX, cfg.OffsetY,
		cfg.OffsetX+rotated.Bounds().Dx(), cfg.OffsetY+rotated.Bounds().Dy())
	draw.Draw(canvas, at, rotated, image.Point{}, draw.Src)

	side := float64(marker.Bounds().Dx() - 1)
	x0, y0 := float64(cfg.OffsetX), float64(cfg.OffsetY)
	corners := [4][2]float64{
		{x0, y0},
		{x0 + side, y0},
		{x0 + side, y0 + side},
		{x0, y0 + side},
	}
	return detector.RasterFromImage(canvas), corners
}

// rotateQuarter applies n counterclockwise quarter turns.
func rotateQuarter(img image.Image, n int) *image.NRGBA {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return imaging.Rotate90(img)
	case 2:
		return imaging.Rotate180(img)
	case 3:
		return imaging.Rotate270(img)
	default:
		return imaging.Clone(img)
	}
}

// UniformFrame returns a single-valued grayscale frame.
func UniformFrame(w, h int, value byte) *detector.Raster {
	r := detector.NewGrayRaster(w, h)
	for i := range r.Pix {
		r.Pix[i] = value
	}
	return r
}

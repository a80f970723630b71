package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

func TestNewDetector(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "aruco-5x5", d.Config().Dictionary.Name)
}

func TestNewDetector_ConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil dictionary", func(c *Config) { c.Dictionary = nil }},
		{"grid cell size too small", func(c *Config) { c.GridCellSize = 1 }},
		{"zero area ratio", func(c *Config) { c.MinMarkerAreaRatio = 0 }},
		{"area ratio too large", func(c *Config) { c.MinMarkerAreaRatio = 1 }},
		{"aspect ratio below one", func(c *Config) { c.MaxAspectRatio = 0.5 }},
		{"negative corner epsilon", func(c *Config) { c.DuplicateCornerEpsilonPx = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewDetector(cfg)
			assert.Error(t, err)
		})
	}
}

func TestDetect_SingleMarker(t *testing.T) {
	cfg := DefaultConfig()
	grid, err := cfg.Dictionary.Encode(7)
	require.NoError(t, err)

	frame := uniformRaster(320, 240, 255)
	paintGrid(frame, grid, 8, 60, 40)

	d, err := NewDetector(cfg)
	require.NoError(t, err)

	markers, err := d.Detect(frame)
	require.NoError(t, err)
	require.Len(t, markers, 1)

	m := markers[0]
	assert.Equal(t, 7, m.ID)
	expected := [4]utils.Point{
		{X: 60, Y: 40}, {X: 115, Y: 40}, {X: 115, Y: 95}, {X: 60, Y: 95},
	}
	for i := range 4 {
		assert.InDelta(t, expected[i].X, m.Corners[i].X, 2.0, "corner %d", i)
		assert.InDelta(t, expected[i].Y, m.Corners[i].Y, 2.0, "corner %d", i)
	}
	// Winding stays clockwise in screen coordinates
	assert.Positive(t, utils.SignedArea(m.Corners[:]))
}

func TestDetect_TwoMarkers(t *testing.T) {
	cfg := DefaultConfig()
	d, err := NewDetector(cfg)
	require.NoError(t, err)

	frame := uniformRaster(400, 240, 255)
	for _, placement := range []struct{ id, ox, oy int }{{3, 30, 30}, {900, 230, 120}} {
		grid, err := cfg.Dictionary.Encode(placement.id)
		require.NoError(t, err)
		paintGrid(frame, grid, 8, placement.ox, placement.oy)
	}

	markers, err := d.Detect(frame)
	require.NoError(t, err)
	require.Len(t, markers, 2)

	ids := []int{markers[0].ID, markers[1].ID}
	assert.ElementsMatch(t, []int{3, 900}, ids)
}

func TestDetect_InvertedPolarity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InvertPolarity = true
	grid, err := cfg.Dictionary.Encode(7)
	require.NoError(t, err)

	// Light marker on dark background
	frame := uniformRaster(320, 240, 0)
	for row := range grid.Size {
		for col := range grid.Size {
			if grid.At(row, col) {
				fillRect(frame, 60+col*8, 40+row*8, 60+(col+1)*8, 40+(row+1)*8, 255)
			}
		}
	}

	d, err := NewDetector(cfg)
	require.NoError(t, err)

	markers, err := d.Detect(frame)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, 7, markers[0].ID)
}

func TestDetect_BlankFrames(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)

	for _, v := range []byte{0, 255} {
		markers, err := d.Detect(uniformRaster(160, 120, v))
		require.NoError(t, err)
		assert.Empty(t, markers)
	}
}

func TestDetect_InvalidFrame(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)

	_, err = d.Detect(nil)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = d.Detect(&Raster{Width: 4, Height: 4, Channels: 1, Pix: make([]byte, 3)})
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestDedupeMarkers(t *testing.T) {
	outer := scoredMarker{
		marker: Marker{ID: 9, Corners: [4]utils.Point{
			{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}, {X: 10, Y: 90},
		}},
		perimeter: 320,
	}
	inner := scoredMarker{
		marker: Marker{ID: 9, Corners: [4]utils.Point{
			{X: 13, Y: 13}, {X: 87, Y: 13}, {X: 87, Y: 87}, {X: 13, Y: 87},
		}},
		perimeter: 296,
	}

	t.Run("coincident same id merge, larger perimeter wins", func(t *testing.T) {
		markers := dedupeMarkers([]scoredMarker{inner, outer}, 8.0)
		require.Len(t, markers, 1)
		assert.Equal(t, outer.marker.Corners, markers[0].Corners)
	})

	t.Run("different ids stay separate", func(t *testing.T) {
		other := inner
		other.marker.ID = 10
		markers := dedupeMarkers([]scoredMarker{outer, other}, 8.0)
		assert.Len(t, markers, 2)
	})

	t.Run("same id far apart stays separate", func(t *testing.T) {
		far := outer
		for i := range far.marker.Corners {
			far.marker.Corners[i].X += 200
		}
		markers := dedupeMarkers([]scoredMarker{outer, far}, 8.0)
		assert.Len(t, markers, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, dedupeMarkers(nil, 8.0))
	})
}

func TestCornersCoincide(t *testing.T) {
	a := [4]utils.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	b := a
	b[2].X += 3

	assert.True(t, cornersCoincide(a, b, 5))
	assert.False(t, cornersCoincide(a, b, 2))
}

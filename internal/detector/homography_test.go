package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

func unitSquare() [4]utils.Point {
	return [4]utils.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

func TestComputeHomography_Identity(t *testing.T) {
	h, ok := computeHomography(unitSquare(), unitSquare())
	require.True(t, ok)

	x, y := applyHomography(h, 0.25, 0.75)
	assert.InDelta(t, 0.25, x, 1e-9)
	assert.InDelta(t, 0.75, y, 1e-9)
}

func TestComputeHomography_ScaleAndTranslate(t *testing.T) {
	q := [4]utils.Point{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 40}, {X: 10, Y: 40}}
	h, ok := computeHomography(unitSquare(), q)
	require.True(t, ok)

	// Corners land on their correspondences, the center on the center
	for i, p := range unitSquare() {
		x, y := applyHomography(h, p.X, p.Y)
		assert.InDelta(t, q[i].X, x, 1e-9)
		assert.InDelta(t, q[i].Y, y, 1e-9)
	}
	x, y := applyHomography(h, 0.5, 0.5)
	assert.InDelta(t, 20.0, x, 1e-9)
	assert.InDelta(t, 30.0, y, 1e-9)
}

func TestComputeHomography_Perspective(t *testing.T) {
	trapezoid := [4]utils.Point{{X: 2, Y: 1}, {X: 8, Y: 2}, {X: 7, Y: 9}, {X: 1, Y: 8}}
	h, ok := computeHomography(unitSquare(), trapezoid)
	require.True(t, ok)

	for i, p := range unitSquare() {
		x, y := applyHomography(h, p.X, p.Y)
		assert.InDelta(t, trapezoid[i].X, x, 1e-9)
		assert.InDelta(t, trapezoid[i].Y, y, 1e-9)
	}
}

func TestComputeHomography_CollinearCornersFail(t *testing.T) {
	collinear := [4]utils.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	_, ok := computeHomography(collinear, unitSquare())
	assert.False(t, ok)
}

func TestWarpPatch_IdentityMapping(t *testing.T) {
	gray := NewGrayRaster(10, 10)
	for y := range 10 {
		for x := range 10 {
			gray.Pix[y*10+x] = byte(x * 10)
		}
	}
	c := candidate{corners: [4]utils.Point{
		{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 9}, {X: 0, Y: 9},
	}}

	patch, ok := warpPatch(gray, c, 10)
	require.True(t, ok)
	require.Len(t, patch, 100)
	for y := range 10 {
		for x := range 10 {
			require.Equal(t, byte(x*10), patch[y*10+x], "patch sample (%d,%d)", x, y)
		}
	}
}

func TestWarpPatch_DegenerateCandidate(t *testing.T) {
	gray := uniformRaster(8, 8, 128)
	c := candidate{corners: [4]utils.Point{
		{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1},
	}}

	_, ok := warpPatch(gray, c, 8)
	assert.False(t, ok)
}

func TestBilinearSample(t *testing.T) {
	gray := &Raster{Width: 2, Height: 2, Channels: 1, Pix: []byte{0, 100, 200, 100}}

	assert.Equal(t, byte(0), bilinearSample(gray, 0, 0))
	assert.Equal(t, byte(100), bilinearSample(gray, 1, 0))
	assert.Equal(t, byte(50), bilinearSample(gray, 0.5, 0))
	assert.Equal(t, byte(100), bilinearSample(gray, 0.5, 0.5))

	// Out of bounds clamps to white
	assert.Equal(t, byte(255), bilinearSample(gray, -0.1, 0))
	assert.Equal(t, byte(255), bilinearSample(gray, 0, 1.5))
}

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

func TestApproxQuad_Square(t *testing.T) {
	contour := Contour{{X: 5, Y: 5}, {X: 14, Y: 5}, {X: 14, Y: 14}, {X: 5, Y: 14}}

	c, ok := approxQuad(contour, 576, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, [4]utils.Point{{X: 5, Y: 5}, {X: 14, Y: 5}, {X: 14, Y: 14}, {X: 5, Y: 14}}, c.corners)
	assert.InDelta(t, 36.0, c.perimeter, 1e-9)
}

func TestApproxQuad_SimplifiesNoisyEdges(t *testing.T) {
	contour := Contour{
		{X: 0, Y: 0}, {X: 10, Y: 0.2}, {X: 20, Y: 0},
		{X: 20, Y: 20}, {X: 0, Y: 20},
	}

	c, ok := approxQuad(contour, 10000, DefaultConfig())
	require.True(t, ok)
	// The cycle starts at the corner farthest from the centroid; the bump
	// at (10, 0.2) is simplified away
	assert.Equal(t, [4]utils.Point{{X: 20, Y: 20}, {X: 0, Y: 20}, {X: 0, Y: 0}, {X: 20, Y: 0}}, c.corners)
}

func TestApproxQuad_NormalizesWindingToClockwise(t *testing.T) {
	ccw := Contour{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}

	c, ok := approxQuad(ccw, 576, DefaultConfig())
	require.True(t, ok)
	assert.Positive(t, utils.SignedArea(c.corners[:]))
}

func TestApproxQuad_Rejections(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("too few points", func(t *testing.T) {
		_, ok := approxQuad(Contour{{X: 0, Y: 0}, {X: 1, Y: 1}}, 576, cfg)
		assert.False(t, ok)
	})

	t.Run("concave", func(t *testing.T) {
		concave := Contour{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 6, Y: 6}, {X: 0, Y: 20}}
		_, ok := approxQuad(concave, 10000, cfg)
		assert.False(t, ok)
	})

	t.Run("area below threshold", func(t *testing.T) {
		tiny := Contour{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
		_, ok := approxQuad(tiny, 10000, cfg)
		assert.False(t, ok)
	})

	t.Run("too elongated", func(t *testing.T) {
		sliver := Contour{{X: 0, Y: 0}, {X: 59, Y: 0}, {X: 59, Y: 4}, {X: 0, Y: 4}}
		_, ok := approxQuad(sliver, 10000, cfg)
		assert.False(t, ok)
	})
}

func TestRotateToFarthest(t *testing.T) {
	pts := Contour{{X: 5, Y: 5}, {X: 10, Y: 0}, {X: 5, Y: 4}, {X: 0, Y: 5}}
	out := rotateToFarthest(pts)
	require.Len(t, out, 4)
	// Cycle starts at the point farthest from the centroid
	assert.Equal(t, utils.Point{X: 10, Y: 0}, out[0])
	assert.Equal(t, utils.Point{X: 5, Y: 4}, out[1])
	assert.Equal(t, utils.Point{X: 5, Y: 5}, out[3])
}

func TestDropClosingPoint(t *testing.T) {
	pts := []utils.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0.5, Y: 0.5}}
	assert.Len(t, dropClosingPoint(pts, 1.0), 2)
	assert.Len(t, dropClosingPoint(pts, 0.5), 3)
	assert.Len(t, dropClosingPoint(pts[:1], 1.0), 1)
}

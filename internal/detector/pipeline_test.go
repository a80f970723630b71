package detector_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fidmark/internal/detector"
	"github.com/MeKo-Tech/fidmark/internal/testutil"
	"github.com/MeKo-Tech/fidmark/internal/utils"
)

func TestDetect_RenderedMarkerAllRotations(t *testing.T) {
	d, err := detector.NewDetector(detector.DefaultConfig())
	require.NoError(t, err)

	for rotations := range 4 {
		t.Run(fmt.Sprintf("rotations=%d", rotations), func(t *testing.T) {
			cfg := testutil.DefaultFrameConfig()
			cfg.Rotations = rotations
			frame, corners := testutil.MarkerFrame(t, cfg)

			markers, err := d.Detect(frame)
			require.NoError(t, err)
			require.Len(t, markers, 1)

			m := markers[0]
			assert.Equal(t, cfg.MarkerID, m.ID)

			// A counterclockwise quarter turn moves the marker's canonical
			// top-left one corner backwards around the border square.
			lead := (4 - rotations) % 4
			for i := range 4 {
				want := corners[(lead+i)%4]
				assert.InDelta(t, want[0], m.Corners[i].X, 2.0, "corner %d x", i)
				assert.InDelta(t, want[1], m.Corners[i].Y, 2.0, "corner %d y", i)
			}
			assert.Positive(t, utils.SignedArea(m.Corners[:]))
		})
	}
}

func TestDetect_UniformFramesYieldNothing(t *testing.T) {
	d, err := detector.NewDetector(detector.DefaultConfig())
	require.NoError(t, err)

	for _, v := range []byte{0, 128, 255} {
		markers, err := d.Detect(testutil.UniformFrame(320, 240, v))
		require.NoError(t, err)
		assert.Empty(t, markers, "uniform value %d", v)
	}
}

func TestDetect_MarkerIDsAcrossDictionary(t *testing.T) {
	d, err := detector.NewDetector(detector.DefaultConfig())
	require.NoError(t, err)

	for _, id := range []int{0, 1, 63, 512, 1023} {
		cfg := testutil.DefaultFrameConfig()
		cfg.MarkerID = id
		frame, _ := testutil.MarkerFrame(t, cfg)

		markers, err := d.Detect(frame)
		require.NoError(t, err)
		require.Len(t, markers, 1, "id %d", id)
		assert.Equal(t, id, markers[0].ID)
	}
}

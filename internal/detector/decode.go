package detector

import "github.com/MeKo-Tech/fidmark/internal/utils"

// Marker is a validated detection: a dictionary id plus the candidate
// corners reordered so Corners[0] is the marker's canonical top-left
// regardless of how it was physically rotated in view.
type Marker struct {
	ID      int
	Corners [4]utils.Point
}

// decodeCandidate warps a candidate out of the frame, reads its cell grid
// and matches it against the dictionary in all four rotations. Any failure
// (degenerate homography, broken border ring, no matching rotation) just
// means the candidate is not a marker.
func decodeCandidate(gray *Raster, c candidate, cfg Config) (Marker, bool) {
	grid := cfg.Dictionary.GridSize()
	patch, ok := warpPatch(gray, c, grid*cfg.GridCellSize)
	if !ok {
		return Marker{}, false
	}

	bits := thresholdCells(patch, grid, cfg.GridCellSize, cfg.InvertPolarity)
	if !borderIsDark(bits) {
		return Marker{}, false
	}

	inner := bits.Inner(borderCells)
	for rot := range 4 {
		if id, ok := cfg.Dictionary.Decode(inner); ok {
			return Marker{ID: id, Corners: reorderCorners(c.corners, rot)}, true
		}
		inner = inner.RotateCW()
	}
	return Marker{}, false
}

// thresholdCells binarizes the warped patch with a global Otsu threshold and
// majority-votes each cell's samples into a bit. True means the cell carries
// marker ink, which is the dark class, or the bright one under inverted
// polarity.
func thresholdCells(patch []byte, grid, cellSize int, invert bool) *BitMatrix {
	thresh := otsuThreshold(patch)
	size := grid * cellSize
	bits := NewBitMatrix(grid)
	for r := range grid {
		for c := range grid {
			dark := 0
			for y := r * cellSize; y < (r+1)*cellSize; y++ {
				for x := c * cellSize; x < (c+1)*cellSize; x++ {
					if patch[y*size+x] < thresh {
						dark++
					}
				}
			}
			bits.Set(r, c, (2*dark > cellSize*cellSize) != invert)
		}
	}
	return bits
}

// borderIsDark checks that the outer ring of cells is uniformly black.
func borderIsDark(bits *BitMatrix) bool {
	n := bits.Size
	for i := range n {
		if !bits.At(0, i) || !bits.At(n-1, i) || !bits.At(i, 0) || !bits.At(i, n-1) {
			return false
		}
	}
	return true
}

// reorderCorners shifts the corner cycle so the canonical top-left leads.
// If the sampled grid needed rot clockwise quarter turns to match the
// dictionary, the canonical top-left sits rot corners behind index 0.
func reorderCorners(corners [4]utils.Point, rot int) [4]utils.Point {
	var out [4]utils.Point
	for i := range 4 {
		out[i] = corners[(4-rot+i)%4]
	}
	return out
}

// otsuThreshold picks the gray level maximizing between-class variance over
// the patch histogram. Flat histograms land on an arbitrary bin, which is
// fine: such patches carry no decodable pattern anyway.
func otsuThreshold(patch []byte) byte {
	var histogram [256]int
	for _, v := range patch {
		histogram[v]++
	}
	total := len(patch)

	var totalSum float64
	for i, n := range histogram {
		totalSum += float64(i) * float64(n)
	}

	var sumB float64
	wB := 0
	best := 128
	maxVariance := -1.0
	for t := range 256 {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(histogram[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	// Threshold sits just above the dark class
	return byte(min(best+1, 255))
}

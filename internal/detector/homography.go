package detector

import (
	"math"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

// computeHomography computes the 3x3 projective transform H mapping
// p[i] -> q[i] for the 4 correspondences, returned row-major with h22 fixed
// to 1. Reports false when the 8x8 system is singular (collinear corners).
func computeHomography(p, q [4]utils.Point) ([9]float64, bool) {
	// x' = (h0 X + h1 Y + h2)/(h6 X + h7 Y + 1)
	// y' = (h3 X + h4 Y + h5)/(h6 X + h7 Y + 1)
	var a [8][9]float64 // augmented system
	for i := range 4 {
		X, Y := p[i].X, p[i].Y
		x, y := q[i].X, q[i].Y
		a[2*i] = [9]float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x, x}
		a[2*i+1] = [9]float64{0, 0, 0, X, Y, 1, -X * y, -Y * y, y}
	}

	h, ok := solveAugmented(&a)
	if !ok {
		return [9]float64{}, false
	}
	return [9]float64{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// solveAugmented runs Gauss-Jordan elimination with partial pivoting on an
// 8x8 system in augmented form.
func solveAugmented(a *[8][9]float64) ([8]float64, bool) {
	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return [8]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		div := a[col][col]
		for c := col; c < 9; c++ {
			a[col][c] /= div
		}
		for r := range 8 {
			if r == col || a[r][col] == 0 {
				continue
			}
			factor := a[r][col]
			for c := col; c < 9; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	var x [8]float64
	for i := range 8 {
		x[i] = a[i][8]
	}
	return x, true
}

// applyHomography maps (x, y) through H.
func applyHomography(h [9]float64, x, y float64) (float64, float64) {
	denom := h[6]*x + h[7]*y + h[8]
	if denom == 0 {
		return -1e9, -1e9
	}
	return (h[0]*x + h[1]*y + h[2]) / denom, (h[3]*x + h[4]*y + h[5]) / denom
}

// warpPatch resamples the candidate quadrilateral into a size x size
// grayscale patch by inverse-mapping every destination sample through the
// homography and bilinear-sampling the source raster. Reports false when the
// candidate corners are degenerate.
func warpPatch(gray *Raster, c candidate, size int) ([]byte, bool) {
	s := float64(size - 1)
	dst := [4]utils.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
	h, ok := computeHomography(dst, c.corners)
	if !ok {
		return nil, false
	}

	patch := make([]byte, size*size)
	for y := range size {
		for x := range size {
			sx, sy := applyHomography(h, float64(x), float64(y))
			patch[y*size+x] = bilinearSample(gray, sx, sy)
		}
	}
	return patch, true
}

// bilinearSample reads an interpolated grayscale value at (x, y); samples
// outside the raster clamp to white so stray border samples read as
// background.
func bilinearSample(gray *Raster, x, y float64) byte {
	w, h := gray.Width, gray.Height
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return 255
	}
	x0, y0 := int(x), int(y)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := x-float64(x0), y-float64(y0)

	top := float64(gray.at(x0, y0))*(1-fx) + float64(gray.at(x1, y0))*fx
	bottom := float64(gray.at(x0, y1))*(1-fx) + float64(gray.at(x1, y1))*fx
	return byte(top*(1-fy) + bottom*fy + 0.5)
}

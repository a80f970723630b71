package detector

import (
	"container/list"

	"github.com/MeKo-Tech/fidmark/internal/utils"
)

// Contour is an ordered closed boundary point sequence in trace order.
type Contour []utils.Point

// compStats holds per-component statistics gathered during labeling.
type compStats struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// findContours labels the foreground of a binary raster and traces the outer
// boundary of every component. Components whose boundary is geometrically
// shorter than minPerimeter pixels are discarded as noise. Contours come back
// in scan order, which is deterministic but otherwise meaningless.
func findContours(bin *Raster, minPerimeter int) []Contour {
	comps, labels := connectedComponents(bin)
	contours := make([]Contour, 0, len(comps))
	for i, st := range comps {
		if st.count < minPerimeter {
			continue
		}
		pts := traceContourMoore(labels, bin.Width, bin.Height, i+1, st)
		if len(pts) < 4 || utils.Perimeter(pts) < float64(minPerimeter) {
			continue
		}
		contours = append(contours, pts)
	}
	return contours
}

// connectedComponents finds 4-connected foreground components and returns
// per-component stats plus a label map (labels start at 1).
func connectedComponents(bin *Raster) ([]compStats, []int) {
	w, h := bin.Width, bin.Height
	labels := make([]int, w*h)
	var comps []compStats
	label := 1

	for y := range h {
		for x := range w {
			idx := y*w + x
			if bin.Pix[idx] != 0 && labels[idx] == 0 {
				comps = append(comps, floodComponent(bin, labels, x, y, label))
				label++
			}
		}
	}
	return comps, labels
}

// floodComponent BFS-labels one component starting from a seed pixel.
func floodComponent(bin *Raster, labels []int, startX, startY, label int) compStats {
	w, h := bin.Width, bin.Height
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}

	q := list.New()
	startIdx := startY*w + startX
	labels[startIdx] = label
	q.PushBack(startIdx)

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w

		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if bin.Pix[ni] != 0 && labels[ni] == 0 {
				labels[ni] = label
				q.PushBack(ni)
			}
		}
	}
	return st
}

// traceContourMoore extracts the outer boundary polygon of the given labeled
// component using Moore-neighbor tracing, restricted to the component's AABB.
// Returned points are pixel-center coordinates; collinear runs are collapsed
// as they are appended.
func traceContourMoore(labels []int, w, h, label int, st compStats) Contour {
	sx, sy := startingBoundaryPixel(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make(Contour, 0, 64)
	appendPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		if n := len(pts); n >= 2 {
			a, b := pts[n-2], pts[n-1]
			// Drop b when a, b, p are collinear
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts left of the start pixel
	appendPoint(cx, cy)

	maxSteps := w*h*4 + 8
	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny

		if last := pts[len(pts)-1]; last.X != float64(cx) || last.Y != float64(cy) {
			appendPoint(cx, cy)
		}
		if cx == sx && cy == sy {
			break
		}
	}

	// Remove duplicated closing point if present
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// startingBoundaryPixel scans the component AABB for the first pixel with a
// 4-neighbor outside the component.
func startingBoundaryPixel(labels []int, w, h, label int, st compStats) (int, int) {
	isLabel := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == label
	}
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if !isLabel(x, y) {
				continue
			}
			if !isLabel(x+1, y) || !isLabel(x-1, y) || !isLabel(x, y+1) || !isLabel(x, y-1) {
				return x, y
			}
		}
	}
	return -1, -1
}

// 8-neighborhood in clockwise order: E, SE, S, SW, W, NW, N, NE.
var (
	mooreDx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// nextBoundaryPixel scans the Moore neighborhood clockwise starting just
// after the backtrack direction and returns the next component pixel along
// with the new backtrack position.
func nextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	isLabel := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == label
	}

	start := 0
	for i := range 8 {
		if mooreDx[i] == bx-cx && mooreDy[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}

	for k := range 8 {
		i := (start + k) % 8
		tx, ty := cx+mooreDx[i], cy+mooreDy[i]
		if isLabel(tx, ty) {
			return tx, ty, cx, cy, true
		}
		// advance the backtrack to this neighbor for clockwise scanning
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}

package detector

import (
	"github.com/MeKo-Tech/fidmark/internal/utils"
)

// candidate is a convex quadrilateral that survived polygon filtering.
// Corners are stored clockwise (screen coordinates, y down).
type candidate struct {
	corners   [4]utils.Point
	perimeter float64
}

const (
	// Epsilon for polygon simplification starts at this fraction of the
	// contour perimeter and grows geometrically per attempt.
	quadEpsilonRatio  = 0.02
	quadEpsilonGrowth = 1.5
	quadMaxIterations = 6
)

// approxQuad reduces a contour to a quadrilateral candidate, or reports
// failure when the contour does not look like a marker outline: it must
// simplify to exactly 4 vertices, be convex, cover a minimum fraction of the
// frame area, and not be extremely elongated.
func approxQuad(contour Contour, frameArea float64, cfg Config) (candidate, bool) {
	if len(contour) < 4 {
		return candidate{}, false
	}
	perimeter := utils.Perimeter(contour)
	eps := quadEpsilonRatio * perimeter

	// Simplification treats the contour as an open polyline and always
	// keeps both endpoints, so start the cycle at an extreme point that is
	// certain to be a true corner.
	pts := rotateToFarthest(contour)

	var quad []utils.Point
	for range quadMaxIterations {
		simplified := utils.SimplifyPolygon(pts, eps)
		simplified = dropClosingPoint(simplified, eps)
		if len(simplified) == 4 {
			quad = simplified
			break
		}
		if len(simplified) < 4 {
			return candidate{}, false
		}
		pts = simplified
		eps *= quadEpsilonGrowth
	}
	if quad == nil {
		return candidate{}, false
	}

	if !utils.IsConvex(quad) {
		return candidate{}, false
	}

	area := utils.SignedArea(quad)
	if area < 0 {
		// Normalize winding to clockwise
		quad[1], quad[3] = quad[3], quad[1]
		area = -area
	}
	if area < cfg.MinMarkerAreaRatio*frameArea {
		return candidate{}, false
	}
	if utils.BoundingBox(quad).AspectRatio() > cfg.MaxAspectRatio {
		return candidate{}, false
	}

	c := candidate{perimeter: perimeter}
	copy(c.corners[:], quad)
	return c, true
}

// rotateToFarthest rotates the point cycle so it starts at the point
// farthest from the centroid.
func rotateToFarthest(contour Contour) []utils.Point {
	var cx, cy float64
	for _, p := range contour {
		cx += p.X
		cy += p.Y
	}
	centroid := utils.Point{X: cx / float64(len(contour)), Y: cy / float64(len(contour))}

	best := 0
	bestDist := -1.0
	for i, p := range contour {
		if d := utils.Dist(p, centroid); d > bestDist {
			bestDist = d
			best = i
		}
	}

	out := make([]utils.Point, 0, len(contour))
	out = append(out, contour[best:]...)
	out = append(out, contour[:best]...)
	return out
}

// dropClosingPoint removes a trailing point that nearly coincides with the
// first one; the trace closes the cycle, simplification keeps both ends.
func dropClosingPoint(pts []utils.Point, eps float64) []utils.Point {
	if len(pts) >= 2 && utils.Dist(pts[0], pts[len(pts)-1]) <= eps {
		return pts[:len(pts)-1]
	}
	return pts
}

package utils

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPoint generates a random point.
func genPoint() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	).Map(func(vals []interface{}) Point {
		return Point{X: vals[0].(float64), Y: vals[1].(float64)}
	})
}

// genPolygon generates a random polygon.
func genPolygon(size int) gopter.Gen {
	return gen.SliceOfN(size, genPoint())
}

func TestSimplifyPolygon_OutputNonIncreasing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("simplified polygon has <= input points", prop.ForAll(
		func(points []Point, epsilon float64) bool {
			simplified := SimplifyPolygon(points, epsilon)
			return len(simplified) <= len(points)
		},
		genPolygon(12),
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}

func TestSimplifyPolygon_PreservesEndpoints(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("first and last points survive", prop.ForAll(
		func(points []Point, epsilon float64) bool {
			simplified := SimplifyPolygon(points, epsilon)
			if len(simplified) == 0 {
				return false
			}
			return simplified[0] == points[0] &&
				simplified[len(simplified)-1] == points[len(points)-1]
		},
		genPolygon(12),
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}

func TestSignedArea_NegatedByReversal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("reversing the polygon flips the area sign", prop.ForAll(
		func(points []Point) bool {
			reversed := make([]Point, len(points))
			for i, p := range points {
				reversed[len(points)-1-i] = p
			}
			a := SignedArea(points)
			b := SignedArea(reversed)
			diff := a + b
			if diff < 0 {
				diff = -diff
			}
			return diff < 1e-6
		},
		genPolygon(8),
	))

	properties.TestingRun(t)
}

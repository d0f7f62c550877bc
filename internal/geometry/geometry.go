// Package geometry provides length and equality operations over drawn route
// shapes. Both functions are total: non-line geometries fall back to a
// defined result instead of failing, since they are fed from generic
// map-event payloads.
package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Length returns the great-circle length of a line geometry in meters.
// Non-LineString geometries and lines with fewer than two points yield 0.
func Length(g orb.Geometry) float64 {
	ls, ok := g.(orb.LineString)
	if !ok || len(ls) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(ls); i++ {
		total += geo.DistanceHaversine(ls[i-1], ls[i])
	}
	return total
}

// Equal reports whether two geometries are both LineStrings with identical
// ordered coordinates. Same points in a different order are not equal; this
// is a strict structural comparison, not a spatial-tolerance one.
func Equal(a, b orb.Geometry) bool {
	la, ok := a.(orb.LineString)
	if !ok {
		return false
	}
	lb, ok := b.(orb.LineString)
	if !ok {
		return false
	}
	return la.Equal(lb)
}

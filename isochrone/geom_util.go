package isochrone

import (
	"math"

	"github.com/ttpr0/go-seareach/geo"
)

// Splits the segment a-b at the antimeridian if its longitude delta exceeds 180 degrees.
//
// Returns one or two segments. The raw segment is returned if the crossing cannot be located.
func _SplitAtAntimeridian(a, b geo.Coord) (Segment, Segment, bool) {
	raw := Segment{A: a, B: b}
	if math.Abs(a[0]-b[0]) <= 180 {
		return raw, Segment{}, false
	}
	// far longitude shifted towards continuity with a
	lon_b := b[0] - 360
	if b[0] < a[0] {
		lon_b = b[0] + 360
	}
	denom := math.Abs(lon_b - a[0])
	if denom == 0 {
		return raw, Segment{}, false
	}
	edge := -180.0
	if a[0] > 0 {
		edge = 180.0
	}
	fraction := math.Abs(edge-a[0]) / denom
	if fraction < 0 || fraction > 1 {
		return raw, Segment{}, false
	}
	mid_lat := a[1] + (b[1]-a[1])*fraction
	first := Segment{A: a, B: geo.Coord{edge, mid_lat}}
	second := Segment{A: geo.Coord{-edge, mid_lat}, B: b}
	return first, second, true
}

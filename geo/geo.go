package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Coord is a (lon, lat) pair in decimal degrees.
type Coord = orb.Point

type CoordArray = orb.LineString

const (
	// earth radius used for edge weights of the navigation graph
	EARTH_RADIUS_KM = 6371.0
	// earth radius used for reported route and isochrone distances
	EARTH_RADIUS_NM = 3440.065
	// kilometers per nautical mile
	KM_PER_NM = 1.852
)

//*******************************************
// distances
//*******************************************

// Great-circle distance between a and b on a sphere of the given radius.
func Haversine(a, b Coord, radius float64) float64 {
	lon1, lat1 := a[0]*math.Pi/180, a[1]*math.Pi/180
	lon2, lat2 := b[0]*math.Pi/180, b[1]*math.Pi/180
	dlon := lon2 - lon1
	dlat := lat2 - lat1
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	// rounding can push h marginally above 1 for antipodal points
	h = math.Min(1, h)
	return 2 * radius * math.Asin(math.Sqrt(h))
}

func DistanceKM(a, b Coord) float64 {
	return Haversine(a, b, EARTH_RADIUS_KM)
}

func DistanceNM(a, b Coord) float64 {
	return Haversine(a, b, EARTH_RADIUS_NM)
}

//*******************************************
// interpolation
//*******************************************

// Linear interpolation in (lon, lat) space, fraction is clamped to [0, 1].
//
// No longitude wrap handling is done here, shift b beforehand if needed.
func Interpolate(a, b Coord, fraction float64) Coord {
	fraction = Clamp(fraction, 0, 1)
	return Coord{
		a[0] + (b[0]-a[0])*fraction,
		a[1] + (b[1]-a[1])*fraction,
	}
}

func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Shifts lon by ±360 so that it lies within 180 degrees of ref.
func UnwrapLon(lon, ref float64) float64 {
	diff := lon - ref
	if diff > 180 {
		return lon - 360
	}
	if diff < -180 {
		return lon + 360
	}
	return lon
}

// Maps a longitude that left [-180, 180] by at most one wrap back into range.
func NormalizeLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	if lon < -180 {
		return lon + 360
	}
	return lon
}

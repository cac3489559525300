package main

import (
	"fmt"

	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/isochrone"
)

// Parses a [lon, lat] pair, both values must be within the wgs84 range.
func _ParseCoord(values []float64) (geo.Coord, error) {
	if len(values) != 2 {
		return geo.Coord{}, fmt.Errorf("%w: coordinate needs [lon, lat], got %v values", isochrone.ErrInvalidParameter, len(values))
	}
	lon, lat := values[0], values[1]
	if !(lon >= -180 && lon <= 180) || !(lat >= -90 && lat <= 90) {
		return geo.Coord{}, fmt.Errorf("%w: coordinate %v out of range", isochrone.ErrInvalidParameter, values)
	}
	return geo.Coord{lon, lat}, nil
}

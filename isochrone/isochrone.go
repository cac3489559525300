package isochrone

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-seareach/algorithm"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
)

var (
	ErrInvalidParameter = errors.New("invalid isochrone parameter")
	ErrNoNearestNode    = errors.New("no graph node near origin")
)

// Frontier of one day.
type Feature struct {
	Day        int
	DistanceNM float64
	Segments   List[Segment]
}

//**********************************************************
// isochrone assembler
//**********************************************************

// Computes the daily frontiers reachable from origin at speed_knots for days 1..max_days.
//
// Features are ordered by descending day, days without any segment are omitted.
func ComputeIsochrones(g graph.IGraph, origin geo.Coord, speed_knots float64, max_days int) (List[Feature], error) {
	if err := _CheckParameters(speed_knots, max_days); err != nil {
		return nil, err
	}
	start, ok := g.GetClosestNode(origin)
	if !ok {
		if g.NodeCount() == 0 {
			return nil, algorithm.ErrEmptyGraph
		}
		return nil, fmt.Errorf("%w: %v", ErrNoNearestNode, origin)
	}
	slog.Debug(fmt.Sprintf("start calculating distance labels from %v (node %v)", origin, start))
	max_range := DayThreshold(speed_knots, max_days)
	labels, err := algorithm.CalcRangeDistanceLabels(g, start, max_range)
	if err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("distance labels finished, %v nodes reached", labels.Count()))
	return ComputeIsochronesFromLabels(g, labels, speed_knots, max_days)
}

// Builds the daily frontiers from precomputed labels.
//
// Labels are independent of speed, so one labeling can serve many speeds as long as it
// covers DayThreshold(speed_knots, max_days).
func ComputeIsochronesFromLabels(g graph.IGraph, labels *algorithm.DistanceLabels, speed_knots float64, max_days int) (List[Feature], error) {
	if err := _CheckParameters(speed_knots, max_days); err != nil {
		return nil, err
	}
	features := NewList[Feature](max_days)
	for day := 1; day <= max_days; day++ {
		target := DayThreshold(speed_knots, day)
		segments := ExtractFrontier(g, labels, target)
		if segments.Length() == 0 {
			continue
		}
		features.Add(Feature{
			Day:        day,
			DistanceNM: math.Round(target/geo.KM_PER_NM*10) / 10,
			Segments:   segments,
		})
	}
	// later days first so they render underneath earlier ones
	features.Reverse()
	return features, nil
}

// Distance (km) covered after day days at speed_knots.
func DayThreshold(speed_knots float64, day int) float64 {
	speed_kmh := speed_knots * geo.KM_PER_NM
	return speed_kmh * 24 * float64(day)
}

func _CheckParameters(speed_knots float64, max_days int) error {
	if !(speed_knots > 0) || math.IsInf(speed_knots, 1) {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidParameter, speed_knots)
	}
	if max_days < 1 {
		return fmt.Errorf("%w: days must be at least 1, got %v", ErrInvalidParameter, max_days)
	}
	return nil
}

//**********************************************************
// geojson output
//**********************************************************

// Renders features as a FeatureCollection of MultiLineStrings with day and distance_nm properties.
func NewFeatureCollection(features List[Feature]) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, feature := range features {
		lines := make(orb.MultiLineString, 0, feature.Segments.Length())
		for _, seg := range feature.Segments {
			lines = append(lines, orb.LineString{seg.A, seg.B})
		}
		f := geojson.NewFeature(lines)
		f.Properties["day"] = feature.Day
		f.Properties["distance_nm"] = feature.DistanceNM
		fc.Append(f)
	}
	return fc
}

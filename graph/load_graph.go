package graph

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/slog"
)

//*******************************************
// geojson line network
//*******************************************

// Builds a graph from a FeatureCollection of (Multi)LineStrings.
//
// Every pair of consecutive vertices becomes an edge. A numeric "weight" property (km)
// is used as edge weight for two-point lines, longer lines get unset weights.
func LoadGeoJSON(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph geojson: %w", err)
	}
	builder := NewGraphBuilder()
	skipped := 0
	for _, feature := range fc.Features {
		weight := math.NaN()
		if w, ok := feature.Properties["weight"].(float64); ok && w >= 0 {
			weight = w
		}
		var lines []orb.LineString
		switch geom := feature.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, geom)
		case orb.MultiLineString:
			lines = append(lines, geom...)
		default:
			skipped += 1
			continue
		}
		for _, line := range lines {
			line_weight := math.NaN()
			if len(line) == 2 {
				line_weight = weight
			}
			for i := 0; i < len(line)-1; i++ {
				if err := builder.AddEdge(line[i], line[i+1], line_weight); err != nil {
					return nil, err
				}
			}
		}
	}
	if skipped > 0 {
		slog.Warn(fmt.Sprintf("skipped %v non-line features", skipped))
	}
	return builder.Build(), nil
}

func LoadGeoJSONFile(file string) (*Graph, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadGeoJSON(f)
}

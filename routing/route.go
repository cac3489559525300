package routing

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	. "github.com/ttpr0/go-seareach/util"
)

var ErrDegenerateRoute = errors.New("route needs at least two vertices")

//**********************************************************
// route correction
//**********************************************************

// Great-circle length of the polyline in nautical miles.
//
// Graph paths zig-zag along the mesh, summing the polyline gives a much closer estimate
// of the sailed distance than the sum of edge weights.
func CorrectedLength(coords []geo.Coord) (float64, error) {
	if len(coords) < 2 {
		return 0, fmt.Errorf("%w: got %v", ErrDegenerateRoute, len(coords))
	}
	length := 0.0
	for i := 0; i < len(coords)-1; i++ {
		length += geo.DistanceNM(coords[i], coords[i+1])
	}
	return length, nil
}

//**********************************************************
// routes
//**********************************************************

type Route struct {
	Coords List[geo.Coord]
	// length along the graph edges in nautical miles
	GraphLength float64
}

// Routes from origin to destination over the graph nodes closest to both.
//
// The returned polyline starts at origin and ends at destination.
func FindRoute(g graph.IGraph, origin, destination geo.Coord) (Route, error) {
	start, ok := g.GetClosestNode(origin)
	if !ok {
		return Route{}, fmt.Errorf("%w: no node near origin %v", ErrNoRoute, origin)
	}
	end, ok := g.GetClosestNode(destination)
	if !ok {
		return Route{}, fmt.Errorf("%w: no node near destination %v", ErrNoRoute, destination)
	}
	path, err := CalcShortestPath(g, start, end)
	if err != nil {
		return Route{}, err
	}
	coords := NewList[geo.Coord](path.Nodes.Length() + 2)
	_AppendCoord(&coords, origin)
	for _, c := range path.GetGeometry(g) {
		_AppendCoord(&coords, c)
	}
	_AppendCoord(&coords, destination)
	if coords.Length() == 1 {
		coords.Add(destination)
	}
	return Route{
		Coords:      coords,
		GraphLength: path.Length / geo.KM_PER_NM,
	}, nil
}

// Routes from origin to destination passing through midpoint.
func FindRouteVia(g graph.IGraph, origin, midpoint, destination geo.Coord) (Route, error) {
	first, err := FindRoute(g, origin, midpoint)
	if err != nil {
		return Route{}, err
	}
	second, err := FindRoute(g, midpoint, destination)
	if err != nil {
		return Route{}, err
	}
	coords := NewList[geo.Coord](first.Coords.Length() + second.Coords.Length())
	coords = append(coords, first.Coords...)
	coords = append(coords, second.Coords[1:]...)
	return Route{
		Coords:      coords,
		GraphLength: first.GraphLength + second.GraphLength,
	}, nil
}

func _AppendCoord(coords *List[geo.Coord], c geo.Coord) {
	if coords.Length() > 0 && (*coords)[coords.Length()-1] == c {
		return
	}
	coords.Add(c)
}

// Renders the route as a LineString feature, length holds the corrected length.
func (self Route) Feature() (*geojson.Feature, error) {
	length, err := CorrectedLength(self.Coords)
	if err != nil {
		return nil, err
	}
	f := geojson.NewFeature(orb.LineString(self.Coords))
	f.Properties["units"] = "nm"
	f.Properties["length"] = length
	f.Properties["graph_length"] = self.GraphLength
	return f, nil
}

package isochrone

import (
	"github.com/ttpr0/go-seareach/algorithm"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	. "github.com/ttpr0/go-seareach/util"
)

// Part of the frontier between two (lon, lat) points.
type Segment struct {
	A geo.Coord
	B geo.Coord
}

//**********************************************************
// frontier context
//**********************************************************

// Per-threshold extraction state: visited undirected edges and emitted segments.
//
// A context belongs to a single extraction and must not be shared.
type FrontierContext struct {
	visited  Dict[uint64, struct{}]
	segments List[Segment]
}

func NewFrontierContext() *FrontierContext {
	return &FrontierContext{
		visited:  NewDict[uint64, struct{}](100),
		segments: NewList[Segment](100),
	}
}

// Marks the edge between a and b as visited, returns false if it was already visited.
func (self *FrontierContext) Visit(a, b int32) bool {
	key := graph.EdgeKey(a, b)
	if self.visited.ContainsKey(key) {
		return false
	}
	self.visited[key] = struct{}{}
	return true
}

// Adds the segment a-b, split in two at the antimeridian if it wraps around it.
func (self *FrontierContext) AddSegment(a, b geo.Coord) {
	first, second, split := _SplitAtAntimeridian(a, b)
	self.segments.Add(first)
	if split {
		self.segments.Add(second)
	}
}

func (self *FrontierContext) Segments() List[Segment] {
	return self.segments
}

//**********************************************************
// frontier extractor
//**********************************************************

// Extracts the frontier line segments of all nodes within target (km) of the labels' start.
//
// Edges with both ends in range are emitted whole, edges leaving the range are cut at the
// interpolated crossing point. Zero-weight edges leaving the range are skipped.
func ExtractFrontier(g graph.IGraph, labels *algorithm.DistanceLabels, target float64) List[Segment] {
	ctx := NewFrontierContext()
	explorer := g.GetGraphExplorer()
	labels.ForReached(func(u int32, dist_u float64) {
		if dist_u > target {
			return
		}
		loc_u := g.GetNodeGeom(u)
		explorer.ForAdjacentEdges(u, func(ref graph.EdgeRef) {
			v := ref.OtherID
			if !ctx.Visit(u, v) {
				return
			}
			loc_v := g.GetNodeGeom(v)
			if dist_v, ok := labels.Get(v); ok && dist_v <= target {
				ctx.AddSegment(loc_u, loc_v)
				return
			}
			weight := explorer.GetEdgeWeight(ref)
			if weight <= 0 {
				return
			}
			fraction := geo.Clamp((target-dist_u)/weight, 0, 1)
			far := geo.Coord{geo.UnwrapLon(loc_v[0], loc_u[0]), loc_v[1]}
			point := geo.Interpolate(loc_u, far, fraction)
			point[0] = geo.NormalizeLon(point[0])
			ctx.AddSegment(loc_u, point)
		})
	})
	return ctx.Segments()
}

package graph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"github.com/ttpr0/go-seareach/geo"
	. "github.com/ttpr0/go-seareach/util"
)

//*******************************************
// graph index
//*******************************************

type _IndexedNode struct {
	id  int32
	loc orb.Point
}

func (self _IndexedNode) Point() orb.Point {
	return self.loc
}

// Nearest-node lookup over the graph nodes.
//
// Distances are planar in (lon, lat), nodes across the antimeridian are not considered close.
type GraphIndex struct {
	tree *quadtree.Quadtree
	size int
}

func NewGraphIndex(nodes Array[Node]) *GraphIndex {
	tree := quadtree.New(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}})
	size := 0
	for i, node := range nodes {
		// only fails for coordinates outside the valid range, builders reject those
		if err := tree.Add(_IndexedNode{id: int32(i), loc: node.Loc}); err != nil {
			continue
		}
		size += 1
	}
	return &GraphIndex{
		tree: tree,
		size: size,
	}
}

func (self *GraphIndex) GetClosestNode(point geo.Coord) (int32, bool) {
	if self.size == 0 {
		return -1, false
	}
	found := self.tree.Find(point)
	if found == nil {
		return -1, false
	}
	return found.(_IndexedNode).id, true
}

package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	. "github.com/ttpr0/go-seareach/util"
)

var ErrNoRoute = errors.New("no route between locations")

type _Flag struct {
	path_length float64
	prev_node   int32
	prev_edge   int32
	visited     bool
}

// Node path between two graph nodes with its length along the graph edges (km).
type Path struct {
	Nodes  List[int32]
	Length float64
}

// Computes the shortest path from start to end on g.
func CalcShortestPath(g graph.IGraph, start, end int32) (Path, error) {
	if !g.IsNode(start) || !g.IsNode(end) {
		return Path{}, fmt.Errorf("%w: invalid node %v or %v", ErrNoRoute, start, end)
	}
	flags := NewArray[_Flag](g.NodeCount())
	for i := range flags {
		flags[i] = _Flag{path_length: math.Inf(1), prev_node: -1, prev_edge: -1}
	}
	heap := NewPriorityQueue[int32, float64](100)
	explorer := g.GetGraphExplorer()

	flags[start].path_length = 0
	heap.Enqueue(start, 0)
	for {
		curr_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_flag := flags[curr_id]
		if curr_flag.visited {
			continue
		}
		if curr_id == end {
			break
		}
		curr_flag.visited = true
		flags[curr_id] = curr_flag
		explorer.ForAdjacentEdges(curr_id, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			other_flag := flags[other_id]
			if other_flag.visited {
				return
			}
			new_length := curr_flag.path_length + explorer.GetEdgeWeight(ref)
			if other_flag.path_length > new_length {
				other_flag.prev_node = curr_id
				other_flag.prev_edge = ref.EdgeID
				other_flag.path_length = new_length
				flags[other_id] = other_flag
				heap.Enqueue(other_id, new_length)
			}
		})
	}
	if math.IsInf(flags[end].path_length, 1) {
		return Path{}, fmt.Errorf("%w: node %v unreachable from %v", ErrNoRoute, end, start)
	}

	nodes := NewList[int32](10)
	for curr := end; curr != -1; curr = flags[curr].prev_node {
		nodes.Add(curr)
	}
	nodes.Reverse()
	return Path{
		Nodes:  nodes,
		Length: flags[end].path_length,
	}, nil
}

func (self Path) GetGeometry(g graph.IGraph) List[geo.Coord] {
	coords := NewList[geo.Coord](self.Nodes.Length())
	for _, node := range self.Nodes {
		coords.Add(g.GetNodeGeom(node))
	}
	return coords
}

package algorithm

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-seareach/graph"
	. "github.com/ttpr0/go-seareach/util"
)

var (
	ErrEmptyGraph   = errors.New("empty graph")
	ErrInvalidStart = errors.New("start is not a node of the graph")
)

//*******************************************
// distance labels
//*******************************************

// Shortest-path distances (km) from a single start node.
type DistanceLabels struct {
	start int32
	dist  Array[float64]
	count int
}

func (self *DistanceLabels) Start() int32 {
	return self.start
}

// Returns the distance to node, false if node was not reached.
func (self *DistanceLabels) Get(node int32) (float64, bool) {
	if node < 0 || int(node) >= len(self.dist) {
		return 0, false
	}
	d := self.dist[node]
	if math.IsInf(d, 1) {
		return 0, false
	}
	return d, true
}

// Number of reached nodes.
func (self *DistanceLabels) Count() int {
	return self.count
}

// Calls callback for every reached node in ascending node order.
func (self *DistanceLabels) ForReached(callback func(node int32, dist float64)) {
	for i, d := range self.dist {
		if math.IsInf(d, 1) {
			continue
		}
		callback(int32(i), d)
	}
}

//*******************************************
// dijkstra
//*******************************************

// Computes distance labels from start to every reachable node.
func CalcDistanceLabels(g graph.IGraph, start int32) (*DistanceLabels, error) {
	return CalcRangeDistanceLabels(g, start, math.Inf(1))
}

// Computes distance labels from start, nodes further than max_range are left unreached.
func CalcRangeDistanceLabels(g graph.IGraph, start int32, max_range float64) (*DistanceLabels, error) {
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	if !g.IsNode(start) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStart, start)
	}

	dist := NewArray[float64](g.NodeCount())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	visited := NewArray[bool](g.NodeCount())
	heap := NewPriorityQueue[int32, float64](100)
	explorer := g.GetGraphExplorer()

	dist[start] = 0
	heap.Enqueue(start, 0)
	count := 0
	for {
		curr_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		if visited[curr_id] {
			continue
		}
		visited[curr_id] = true
		count += 1
		curr_dist := dist[curr_id]
		explorer.ForAdjacentEdges(curr_id, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			if visited[other_id] {
				return
			}
			new_length := curr_dist + explorer.GetEdgeWeight(ref)
			if new_length > max_range {
				return
			}
			if dist[other_id] > new_length {
				dist[other_id] = new_length
				heap.Enqueue(other_id, new_length)
			}
		})
	}

	return &DistanceLabels{
		start: start,
		dist:  dist,
		count: count,
	}, nil
}

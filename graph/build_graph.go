package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-seareach/geo"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var ErrInvalidCoord = errors.New("coordinate out of range")

//*******************************************
// graph builder
//*******************************************

// Collects nodes and edges of a navigation graph.
//
// Nodes are identified by their exact coordinate, edges by their unordered node pair.
type GraphBuilder struct {
	nodes    List[Node]
	edges    List[Edge]
	node_ids Dict[geo.Coord, int32]
	edge_ids Dict[uint64, int32]
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodes:    NewList[Node](1000),
		edges:    NewList[Edge](1000),
		node_ids: NewDict[geo.Coord, int32](1000),
		edge_ids: NewDict[uint64, int32](1000),
	}
}

func (self *GraphBuilder) AddNode(loc geo.Coord) (int32, error) {
	if loc[0] < -180 || loc[0] > 180 || loc[1] < -90 || loc[1] > 90 || math.IsNaN(loc[0]) || math.IsNaN(loc[1]) {
		return -1, fmt.Errorf("%w: %v", ErrInvalidCoord, loc)
	}
	if id, ok := self.node_ids[loc]; ok {
		return id, nil
	}
	id := int32(self.nodes.Length())
	self.nodes.Add(Node{Loc: loc})
	self.node_ids[loc] = id
	return id, nil
}

// Adds an undirected edge, weight NaN marks it as unset.
//
// Self loops are dropped, adding an existing node pair again replaces its weight.
func (self *GraphBuilder) AddEdge(a, b geo.Coord, weight float64) error {
	if weight < 0 || math.IsInf(weight, 0) {
		return fmt.Errorf("invalid edge weight %v between %v and %v", weight, a, b)
	}
	node_a, err := self.AddNode(a)
	if err != nil {
		return err
	}
	node_b, err := self.AddNode(b)
	if err != nil {
		return err
	}
	if node_a == node_b {
		return nil
	}
	key := EdgeKey(node_a, node_b)
	if id, ok := self.edge_ids[key]; ok {
		edge := self.edges[id]
		edge.Weight = weight
		self.edges[id] = edge
		return nil
	}
	self.edge_ids[key] = int32(self.edges.Length())
	self.edges.Add(Edge{NodeA: node_a, NodeB: node_b, Weight: weight})
	return nil
}

func (self *GraphBuilder) NodeCount() int {
	return self.nodes.Length()
}

// Builds an immutable graph from a snapshot of the current nodes and edges.
func (self *GraphBuilder) Build() *Graph {
	nodes := NewArray[Node](self.nodes.Length())
	copy(nodes, self.nodes)
	edges := NewArray[Edge](self.edges.Length())
	copy(edges, self.edges)
	return NewGraph(nodes, edges)
}

// Identity of the undirected edge between a and b.
func EdgeKey(a, b int32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

//*******************************************
// modify graph
//*******************************************

// Returns a new graph containing only the largest connected component of g.
//
// Node and edge order of the kept part is preserved.
func PruneToLargestComponent(g IGraph) *Graph {
	ug := simple.NewUndirectedGraph()
	for i := 0; i < g.NodeCount(); i++ {
		ug.AddNode(simple.Node(i))
	}
	for i := 0; i < g.EdgeCount(); i++ {
		edge := g.GetEdge(int32(i))
		ug.SetEdge(simple.Edge{F: simple.Node(edge.NodeA), T: simple.Node(edge.NodeB)})
	}
	components := topo.ConnectedComponents(ug)
	largest := _LargestComponent(components)
	slog.Info(fmt.Sprintf("graph has %v connected components, keeping %v of %v nodes", len(components), len(largest), g.NodeCount()))

	keep := NewArray[bool](g.NodeCount())
	for _, n := range largest {
		keep[n.ID()] = true
	}
	builder := NewGraphBuilder()
	for i := 0; i < g.NodeCount(); i++ {
		if keep[i] {
			builder.AddNode(g.GetNodeGeom(int32(i)))
		}
	}
	for i := 0; i < g.EdgeCount(); i++ {
		edge := g.GetEdge(int32(i))
		if !keep[edge.NodeA] || !keep[edge.NodeB] {
			continue
		}
		builder.AddEdge(g.GetNodeGeom(edge.NodeA), g.GetNodeGeom(edge.NodeB), edge.Weight)
	}
	return builder.Build()
}

func _LargestComponent(components [][]gonum.Node) []gonum.Node {
	var largest []gonum.Node
	largest_min := int64(math.MaxInt64)
	for _, comp := range components {
		comp_min := int64(math.MaxInt64)
		for _, n := range comp {
			if n.ID() < comp_min {
				comp_min = n.ID()
			}
		}
		// component order is not stable, ties go to the component holding the lowest node id
		if len(comp) > len(largest) || (len(comp) == len(largest) && comp_min < largest_min) {
			largest = comp
			largest_min = comp_min
		}
	}
	return largest
}

package graph

import (
	"math"

	"github.com/ttpr0/go-seareach/geo"
	. "github.com/ttpr0/go-seareach/util"
)

//*******************************************
// graph structs
//*******************************************

type Node struct {
	Loc geo.Coord
}

// Undirected edge between two nodes.
//
// Weight is the navigable length in km, NaN if the source did not provide one.
type Edge struct {
	NodeA  int32
	NodeB  int32
	Weight float64
}

func (self Edge) HasWeight() bool {
	return !math.IsNaN(self.Weight)
}

type EdgeRef struct {
	EdgeID  int32
	OtherID int32
}

//*******************************************
// graph interfaces
//******************************************

// Read-only navigation graph, safe for concurrent use once built.
type IGraph interface {
	GetGraphExplorer() IGraphExplorer
	NodeCount() int
	EdgeCount() int
	IsNode(node int32) bool
	GetNode(node int32) Node
	GetEdge(edge int32) Edge
	GetNodeGeom(node int32) geo.Coord
	GetClosestNode(point geo.Coord) (int32, bool)
}

type IGraphExplorer interface {
	// Iterates through the adjacency of a node calling the callback for every edge.
	//
	// Edges are undirected, every edge is seen from both of its endpoints.
	ForAdjacentEdges(node int32, callback func(EdgeRef))
	// Returns the stored edge weight, or the great-circle distance between the endpoints if it is unset.
	GetEdgeWeight(edge EdgeRef) float64
	GetOtherNode(edge EdgeRef, node int32) int32
}

//*******************************************
// base-graph
//******************************************

var _ IGraph = &Graph{}

type Graph struct {
	nodes    Array[Node]
	edges    Array[Edge]
	topology _AdjacencyArray
	index    *GraphIndex
}

func NewGraph(nodes Array[Node], edges Array[Edge]) *Graph {
	return &Graph{
		nodes:    nodes,
		edges:    edges,
		topology: _BuildTopology(len(nodes), edges),
		index:    NewGraphIndex(nodes),
	}
}

func (self *Graph) GetGraphExplorer() IGraphExplorer {
	return &GraphExplorer{
		graph: self,
	}
}
func (self *Graph) NodeCount() int {
	return len(self.nodes)
}
func (self *Graph) EdgeCount() int {
	return len(self.edges)
}
func (self *Graph) IsNode(node int32) bool {
	return node >= 0 && node < int32(len(self.nodes))
}
func (self *Graph) GetNode(node int32) Node {
	return self.nodes[node]
}
func (self *Graph) GetEdge(edge int32) Edge {
	return self.edges[edge]
}
func (self *Graph) GetNodeGeom(node int32) geo.Coord {
	return self.nodes[node].Loc
}
func (self *Graph) GetClosestNode(point geo.Coord) (int32, bool) {
	return self.index.GetClosestNode(point)
}

//*******************************************
// base-graph explorer
//******************************************

type GraphExplorer struct {
	graph *Graph
}

func (self *GraphExplorer) ForAdjacentEdges(node int32, callback func(EdgeRef)) {
	topology := &self.graph.topology
	start := topology.offsets[node]
	end := topology.offsets[node+1]
	for i := start; i < end; i++ {
		callback(topology.refs[i])
	}
}
func (self *GraphExplorer) GetEdgeWeight(edge EdgeRef) float64 {
	return EdgeWeightOrDistance(self.graph, edge.EdgeID)
}
func (self *GraphExplorer) GetOtherNode(edge EdgeRef, node int32) int32 {
	e := self.graph.GetEdge(edge.EdgeID)
	if node == e.NodeA {
		return e.NodeB
	}
	if node == e.NodeB {
		return e.NodeA
	}
	return -1
}

// Stored weight of the edge, falling back to the great-circle distance (km) when unset.
//
// A missing weight is never treated as zero.
func EdgeWeightOrDistance(g IGraph, edge int32) float64 {
	e := g.GetEdge(edge)
	if e.HasWeight() {
		return e.Weight
	}
	return geo.DistanceKM(g.GetNodeGeom(e.NodeA), g.GetNodeGeom(e.NodeB))
}

//*******************************************
// topology
//******************************************

// Compressed adjacency: refs of node i are refs[offsets[i]:offsets[i+1]], in edge id order.
type _AdjacencyArray struct {
	offsets Array[int32]
	refs    Array[EdgeRef]
}

func _BuildTopology(node_count int, edges Array[Edge]) _AdjacencyArray {
	offsets := NewArray[int32](node_count + 1)
	for _, edge := range edges {
		offsets[edge.NodeA+1] += 1
		offsets[edge.NodeB+1] += 1
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}
	refs := NewArray[EdgeRef](int(offsets[node_count]))
	fill := NewArray[int32](node_count)
	for id, edge := range edges {
		a := edge.NodeA
		b := edge.NodeB
		refs[offsets[a]+fill[a]] = EdgeRef{EdgeID: int32(id), OtherID: b}
		fill[a] += 1
		refs[offsets[b]+fill[b]] = EdgeRef{EdgeID: int32(id), OtherID: a}
		fill[b] += 1
	}
	return _AdjacencyArray{
		offsets: offsets,
		refs:    refs,
	}
}

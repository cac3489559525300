package algorithm

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

func _RandomGraph(seed int64, node_count, edge_count int) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	coords := make([]geo.Coord, node_count)
	for i := range coords {
		coords[i] = geo.Coord{-10 + rng.Float64()*20, 30 + rng.Float64()*20}
	}
	builder := graph.NewGraphBuilder()
	for _, c := range coords {
		builder.AddNode(c)
	}
	for i := 0; i < edge_count; i++ {
		a := coords[rng.Intn(node_count)]
		b := coords[rng.Intn(node_count)]
		weight := math.NaN()
		if rng.Intn(3) > 0 {
			weight = rng.Float64() * 500
		}
		builder.AddEdge(a, b, weight)
	}
	return builder.Build()
}

func TestLabelsMatchGonumDijkstra(t *testing.T) {
	g := _RandomGraph(7, 200, 320)

	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < g.NodeCount(); i++ {
		wg.AddNode(simple.Node(i))
	}
	for i := 0; i < g.EdgeCount(); i++ {
		edge := g.GetEdge(int32(i))
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(edge.NodeA),
			T: simple.Node(edge.NodeB),
			W: graph.EdgeWeightOrDistance(g, int32(i)),
		})
	}

	for _, start := range []int32{0, 17, 199} {
		labels, err := CalcDistanceLabels(g, start)
		if err != nil {
			t.Fatalf("CalcDistanceLabels: %v", err)
		}
		shortest := path.DijkstraFrom(simple.Node(start), wg)
		reached := 0
		for i := 0; i < g.NodeCount(); i++ {
			want := shortest.WeightTo(int64(i))
			got, ok := labels.Get(int32(i))
			if math.IsInf(want, 1) {
				if ok {
					t.Errorf("node %v should be unreachable from %v, got %v", i, start, got)
				}
				continue
			}
			reached += 1
			if !ok {
				t.Errorf("node %v should be reachable from %v", i, start)
				continue
			}
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("label of %v from %v = %v; want %v", i, start, got, want)
			}
		}
		if labels.Count() != reached {
			t.Errorf("Count() = %v; want %v", labels.Count(), reached)
		}
	}
}

func TestRangeLabelsOmitFarNodes(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 100)
	builder.AddEdge(geo.Coord{1, 0}, geo.Coord{2, 0}, 100)
	builder.AddEdge(geo.Coord{2, 0}, geo.Coord{3, 0}, 100)
	g := builder.Build()

	labels, err := CalcRangeDistanceLabels(g, 0, 250)
	if err != nil {
		t.Fatalf("CalcRangeDistanceLabels: %v", err)
	}
	if d, ok := labels.Get(2); !ok || d != 200 {
		t.Errorf("Get(2) = %v, %v; want 200, true", d, ok)
	}
	if _, ok := labels.Get(3); ok {
		t.Errorf("node 3 is beyond range and must be absent")
	}

	order := []int32{}
	labels.ForReached(func(node int32, dist float64) {
		order = append(order, node)
	})
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("ForReached order = %v; want [0 1 2]", order)
	}
}

func TestLabelsErrors(t *testing.T) {
	empty := graph.NewGraphBuilder().Build()
	if _, err := CalcDistanceLabels(empty, 0); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("error = %v; want ErrEmptyGraph", err)
	}

	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 1)
	g := builder.Build()
	if _, err := CalcDistanceLabels(g, 5); !errors.Is(err, ErrInvalidStart) {
		t.Errorf("error = %v; want ErrInvalidStart", err)
	}
	if _, err := CalcDistanceLabels(g, -1); !errors.Is(err, ErrInvalidStart) {
		t.Errorf("error = %v; want ErrInvalidStart", err)
	}
}

func TestLabelsIgnoreDisconnectedPart(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 5)
	builder.AddEdge(geo.Coord{50, 50}, geo.Coord{51, 50}, 5)
	g := builder.Build()

	labels, _ := CalcDistanceLabels(g, 0)
	if labels.Count() != 2 {
		t.Errorf("Count() = %v; want 2", labels.Count())
	}
	if _, ok := labels.Get(2); ok {
		t.Errorf("disconnected node must be absent")
	}
}

package isochrone

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ttpr0/go-seareach/algorithm"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
)

func _LineGraph() *graph.Graph {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 100)
	builder.AddEdge(geo.Coord{1, 0}, geo.Coord{2, 0}, 100)
	builder.AddEdge(geo.Coord{2, 0}, geo.Coord{3, 0}, 100)
	return builder.Build()
}

func _AlmostEqual(a, b geo.Coord) bool {
	return math.Abs(a[0]-b[0]) < 1e-9 && math.Abs(a[1]-b[1]) < 1e-9
}

func TestLineScenarioSingleInterpolatedSegment(t *testing.T) {
	g := _LineGraph()
	features, err := ComputeIsochrones(g, geo.Coord{0.01, 0.01}, 5, 1)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if features.Length() != 1 {
		t.Fatalf("got %v features; want 1", features.Length())
	}
	day1 := features[0]
	if day1.Day != 1 || day1.DistanceNM != 120 {
		t.Errorf("feature = day %v, %v nm; want day 1, 120 nm", day1.Day, day1.DistanceNM)
	}
	if day1.Segments.Length() != 3 {
		t.Fatalf("got %v segments; want 3", day1.Segments.Length())
	}
	if day1.Segments[0] != (Segment{geo.Coord{0, 0}, geo.Coord{1, 0}}) {
		t.Errorf("segment 0 = %v; want full edge 0-1", day1.Segments[0])
	}
	if day1.Segments[1] != (Segment{geo.Coord{1, 0}, geo.Coord{2, 0}}) {
		t.Errorf("segment 1 = %v; want full edge 1-2", day1.Segments[1])
	}
	fraction := (DayThreshold(5, 1) - 200) / 100
	want := Segment{geo.Coord{2, 0}, geo.Coord{2 + fraction, 0}}
	got := day1.Segments[2]
	if !_AlmostEqual(got.A, want.A) || !_AlmostEqual(got.B, want.B) {
		t.Errorf("segment 2 = %v; want interpolated %v", got, want)
	}
}

func TestLineScenarioDescendingDays(t *testing.T) {
	g := _LineGraph()
	features, err := ComputeIsochrones(g, geo.Coord{0, 0}, 5, 3)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if features.Length() != 3 {
		t.Fatalf("got %v features; want 3", features.Length())
	}
	for i, want_day := range []int{3, 2, 1} {
		if features[i].Day != want_day {
			t.Errorf("features[%v].Day = %v; want %v", i, features[i].Day, want_day)
		}
	}
	for i := 0; i < features.Length()-1; i++ {
		if !(features[i].DistanceNM > features[i+1].DistanceNM) {
			t.Errorf("distance of day %v must exceed day %v", features[i].Day, features[i+1].Day)
		}
	}
	// whole line reachable on day 2
	if features[1].Segments.Length() != 3 {
		t.Errorf("day 2 has %v segments; want 3", features[1].Segments.Length())
	}
	if features[1].DistanceNM != 240 {
		t.Errorf("day 2 distance = %v; want 240", features[1].DistanceNM)
	}
}

func TestSharedEdgesEmittedOnce(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 10)
	builder.AddEdge(geo.Coord{1, 0}, geo.Coord{0.5, 1}, 10)
	builder.AddEdge(geo.Coord{0.5, 1}, geo.Coord{0, 0}, 10)
	g := builder.Build()

	labels, _ := algorithm.CalcDistanceLabels(g, 0)
	segments := ExtractFrontier(g, labels, 1000)
	if segments.Length() != 3 {
		t.Errorf("got %v segments; want 3", segments.Length())
	}
}

func TestZeroWeightEdgeSkipped(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{0, 0}, geo.Coord{1, 0}, 10)
	a := builder.Build()
	labels, _ := algorithm.CalcDistanceLabels(a, 0)

	// same nodes plus an edge to a node the labels know nothing about
	builder.AddEdge(geo.Coord{1, 0}, geo.Coord{2, 0}, 0)
	b := builder.Build()
	if segments := ExtractFrontier(b, labels, 100); segments.Length() != 1 {
		t.Errorf("got %v segments; want 1", segments.Length())
	}

	builder.AddEdge(geo.Coord{1, 0}, geo.Coord{2, 0}, 5)
	c := builder.Build()
	if segments := ExtractFrontier(c, labels, 100); segments.Length() != 2 {
		t.Errorf("got %v segments; want 2", segments.Length())
	}
}

func TestInterpolationAcrossAntimeridian(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddEdge(geo.Coord{179, 0}, geo.Coord{-179, 0}, 100)
	g := builder.Build()

	labels, _ := algorithm.CalcDistanceLabels(g, 0)
	segments := ExtractFrontier(g, labels, 75)
	if segments.Length() != 2 {
		t.Fatalf("got %v segments; want 2", segments.Length())
	}
	if segments[0] != (Segment{geo.Coord{179, 0}, geo.Coord{180, 0}}) {
		t.Errorf("segment 0 = %v", segments[0])
	}
	if segments[1] != (Segment{geo.Coord{-180, 0}, geo.Coord{-179.5, 0}}) {
		t.Errorf("segment 1 = %v", segments[1])
	}
}

func TestAntimeridianSplit(t *testing.T) {
	ctx := NewFrontierContext()
	ctx.AddSegment(geo.Coord{170, 0}, geo.Coord{-170, 10})
	segments := ctx.Segments()
	if segments.Length() != 2 {
		t.Fatalf("got %v segments; want 2", segments.Length())
	}
	if segments[0] != (Segment{geo.Coord{170, 0}, geo.Coord{180, 5}}) {
		t.Errorf("segment 0 = %v", segments[0])
	}
	if segments[1] != (Segment{geo.Coord{-180, 5}, geo.Coord{-170, 10}}) {
		t.Errorf("segment 1 = %v", segments[1])
	}

	ctx = NewFrontierContext()
	ctx.AddSegment(geo.Coord{-170, 0}, geo.Coord{170, 10})
	segments = ctx.Segments()
	if segments.Length() != 2 || segments[0].B != (geo.Coord{-180, 5}) || segments[1].A != (geo.Coord{180, 5}) {
		t.Errorf("westward split = %v", segments)
	}
}

func TestAntimeridianSplitFallback(t *testing.T) {
	// crossing fraction above 1
	ctx := NewFrontierContext()
	ctx.AddSegment(geo.Coord{10, 0}, geo.Coord{-200, 0})
	if segs := ctx.Segments(); segs.Length() != 1 || segs[0] != (Segment{geo.Coord{10, 0}, geo.Coord{-200, 0}}) {
		t.Errorf("expected raw segment, got %v", segs)
	}

	// degenerate rectified delta
	ctx = NewFrontierContext()
	ctx.AddSegment(geo.Coord{10, 0}, geo.Coord{-350, 0})
	if segs := ctx.Segments(); segs.Length() != 1 {
		t.Errorf("expected raw segment, got %v", segs)
	}

	// short segments are never split
	ctx = NewFrontierContext()
	ctx.AddSegment(geo.Coord{-90, 0}, geo.Coord{90, 0})
	if segs := ctx.Segments(); segs.Length() != 1 {
		t.Errorf("expected unsplit segment, got %v", segs)
	}
}

func TestAntimeridianSplitSpans(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a := geo.Coord{rng.Float64()*360 - 180, rng.Float64()*180 - 90}
		b := geo.Coord{rng.Float64()*360 - 180, rng.Float64()*180 - 90}
		ctx := NewFrontierContext()
		ctx.AddSegment(a, b)
		for _, seg := range ctx.Segments() {
			if math.Abs(seg.A[0]-seg.B[0]) > 180 {
				t.Fatalf("segment %v from %v-%v spans more than 180 degrees", seg, a, b)
			}
		}
	}
}

func TestComputeIsochronesDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	builder := graph.NewGraphBuilder()
	coords := make([]geo.Coord, 150)
	for i := range coords {
		coords[i] = geo.Coord{rng.Float64()*40 - 20, rng.Float64()*20 + 30}
	}
	for i := 0; i < 400; i++ {
		builder.AddEdge(coords[rng.Intn(len(coords))], coords[rng.Intn(len(coords))], math.NaN())
	}
	g := builder.Build()

	var first []byte
	for i := 0; i < 3; i++ {
		features, err := ComputeIsochrones(g, geo.Coord{0, 40}, 12, 4)
		if err != nil {
			t.Fatalf("ComputeIsochrones: %v", err)
		}
		data, err := json.Marshal(NewFeatureCollection(features))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if first == nil {
			first = data
		} else if string(first) != string(data) {
			t.Fatalf("output differs between runs")
		}
	}
}

func TestEmptyDaysOmitted(t *testing.T) {
	builder := graph.NewGraphBuilder()
	builder.AddNode(geo.Coord{0, 0})
	builder.AddEdge(geo.Coord{10, 10}, geo.Coord{11, 10}, 5)
	g := builder.Build()

	features, err := ComputeIsochrones(g, geo.Coord{0.1, 0.1}, 10, 3)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if features.Length() != 0 {
		t.Errorf("got %v features; want none", features.Length())
	}
}

func TestComputeIsochronesErrors(t *testing.T) {
	g := _LineGraph()
	if _, err := ComputeIsochrones(g, geo.Coord{0, 0}, 0, 3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("speed 0: error = %v; want ErrInvalidParameter", err)
	}
	if _, err := ComputeIsochrones(g, geo.Coord{0, 0}, 10, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("days 0: error = %v; want ErrInvalidParameter", err)
	}
	empty := graph.NewGraphBuilder().Build()
	if _, err := ComputeIsochrones(empty, geo.Coord{0, 0}, 10, 3); !errors.Is(err, algorithm.ErrEmptyGraph) {
		t.Errorf("empty graph: error = %v; want ErrEmptyGraph", err)
	}
}

func TestFeatureCollectionProperties(t *testing.T) {
	features, _ := ComputeIsochrones(_LineGraph(), geo.Coord{0, 0}, 5, 2)
	fc := NewFeatureCollection(features)
	if len(fc.Features) != 2 {
		t.Fatalf("got %v features; want 2", len(fc.Features))
	}
	f := fc.Features[0]
	if f.Properties["day"] != 2 || f.Properties["distance_nm"] != 240.0 {
		t.Errorf("properties = %v", f.Properties)
	}
	if f.Geometry.GeoJSONType() != "MultiLineString" {
		t.Errorf("geometry type = %v; want MultiLineString", f.Geometry.GeoJSONType())
	}
}

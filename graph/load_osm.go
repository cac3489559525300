package graph

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/ttpr0/go-seareach/geo"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// osm ways
//*******************************************

// Selects the ways that belong to the navigation network.
//
// A way matches if it carries every tag, "*" matches any value. An empty filter matches all ways.
type WayFilter map[string]string

func (self WayFilter) Match(tags osm.Tags) bool {
	for key, value := range self {
		found := tags.Find(key)
		if found == "" {
			return false
		}
		if value != "*" && found != value {
			return false
		}
	}
	return true
}

// Builds a graph from the ways of an osm object stream, consecutive way nodes become edges.
func LoadOSM(scanner osm.Scanner, filter WayFilter) (*Graph, error) {
	nodes := NewDict[osm.NodeID, geo.Coord](10000)
	ways := NewList[*osm.Way](1000)
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			nodes[obj.ID] = geo.Coord{obj.Lon, obj.Lat}
		case *osm.Way:
			if filter.Match(obj.Tags) {
				ways.Add(obj)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan osm data: %w", err)
	}

	builder := NewGraphBuilder()
	missing := 0
	for _, way := range ways {
		for i := 0; i < len(way.Nodes)-1; i++ {
			a, ok_a := nodes[way.Nodes[i].ID]
			b, ok_b := nodes[way.Nodes[i+1].ID]
			if !ok_a || !ok_b {
				missing += 1
				continue
			}
			if err := builder.AddEdge(a, b, math.NaN()); err != nil {
				return nil, err
			}
		}
	}
	if missing > 0 {
		slog.Warn(fmt.Sprintf("skipped %v way segments referencing unknown nodes", missing))
	}
	slog.Info(fmt.Sprintf("osm: %v ways, %v graph nodes", ways.Length(), builder.NodeCount()))
	return builder.Build(), nil
}

// Loads an osm file, pbf if pbf is true and xml otherwise.
func LoadOSMFile(ctx context.Context, file string, pbf bool, filter WayFilter) (*Graph, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var scanner osm.Scanner
	if pbf {
		scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	} else {
		scanner = osmxml.New(ctx, f)
	}
	defer scanner.Close()
	return LoadOSM(scanner, filter)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ttpr0/go-seareach/batch"
	"github.com/ttpr0/go-seareach/graph"
	"github.com/ttpr0/go-seareach/metrics"
	"github.com/ttpr0/go-seareach/routing"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
)

// Loads the navigation graph described by options and prunes it if requested.
func LoadGraph(ctx context.Context, options GraphOptions) (*graph.Graph, error) {
	slog.Info(fmt.Sprintf("loading %v graph from %v", options.Format, options.Source))
	t := time.Now()
	var g *graph.Graph
	var err error
	switch options.Format {
	case GEOJSON:
		g, err = graph.LoadGeoJSONFile(options.Source)
	case OSM_PBF:
		g, err = graph.LoadOSMFile(ctx, options.Source, true, graph.WayFilter(options.WayFilter))
	case OSM_XML:
		g, err = graph.LoadOSMFile(ctx, options.Source, false, graph.WayFilter(options.WayFilter))
	default:
		return nil, fmt.Errorf("unknown graph format %v", options.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	if options.PruneComponents {
		g = graph.PruneToLargestComponent(g)
	}
	slog.Info(fmt.Sprintf("graph loaded in %v: %v nodes, %v edges", time.Since(t), g.NodeCount(), g.EdgeCount()))
	return g, nil
}

func NewGraphManager(ctx context.Context, config Config) (*GraphManager, error) {
	g, err := LoadGraph(ctx, config.Graph)
	if err != nil {
		return nil, err
	}
	return NewGraphManagerFromGraph(g, config), nil
}

func NewGraphManagerFromGraph(g graph.IGraph, config Config) *GraphManager {
	cache := None[*routing.RouteCache]()
	if config.Routing.Cache {
		cache = Some(routing.NewRouteCache())
	}
	metrics.GraphNodes.Set(float64(g.NodeCount()))
	catalog, err := batch.LoadOrigins(config.Precalc.Locations)
	if err != nil {
		slog.Warn(fmt.Sprintf("location catalog not available: %v", err))
		catalog = NewList[batch.Origin](0)
	}
	return &GraphManager{
		config:  config,
		graph:   g,
		cache:   cache,
		catalog: catalog,
	}
}

// Owns the loaded graph and the route cache shared by all requests.
type GraphManager struct {
	config  Config
	graph   graph.IGraph
	cache   Optional[*routing.RouteCache]
	catalog List[batch.Origin]
}

func (self *GraphManager) GetGraph() graph.IGraph {
	return self.graph
}

func (self *GraphManager) GetRouteCache() Optional[*routing.RouteCache] {
	return self.cache
}

func (self *GraphManager) GetConfig() Config {
	return self.config
}

func (self *GraphManager) GetCatalog() List[batch.Origin] {
	return self.catalog
}

package main

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/metrics"
	"github.com/ttpr0/go-seareach/routing"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// route handler
//**********************************************************

func HandleRouteRequest(ctx context.Context, manager *GraphManager, req RouteRequest) Result {
	origin, err := _ParseCoord(req.Origin)
	if err != nil {
		return Error(err)
	}
	destination, err := _ParseCoord(req.Destination)
	if err != nil {
		return Error(err)
	}
	midpoint := None[geo.Coord]()
	if req.Midpoint != nil {
		m, err := _ParseCoord(req.Midpoint)
		if err != nil {
			return Error(err)
		}
		midpoint = Some(m)
	}

	g := manager.GetGraph()
	compute := func() (*geojson.Feature, error) {
		var route routing.Route
		var err error
		if midpoint.HasValue() {
			route, err = routing.FindRouteVia(g, origin, midpoint.Value, destination)
		} else {
			route, err = routing.FindRoute(g, origin, destination)
		}
		if err != nil {
			return nil, err
		}
		return route.Feature()
	}

	cache_ := manager.GetRouteCache()
	if !cache_.HasValue() {
		return RunWithTimeout(ctx, manager.GetConfig().Routing.Timeout, compute)
	}
	cache := cache_.Value
	key := routing.RouteKey(origin, midpoint, destination)
	return RunWithTimeout(ctx, manager.GetConfig().Routing.Timeout, func() (*geojson.Feature, error) {
		feature, hit, err := cache.GetOrCompute(key, compute)
		if err != nil {
			return nil, err
		}
		if hit {
			slog.Debug(fmt.Sprintf("cache hit for route %v", key))
			metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
		} else {
			metrics.RouteCacheLookups.WithLabelValues("miss").Inc()
		}
		return feature, nil
	})
}

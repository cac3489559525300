package main

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-seareach/isochrone"
	"github.com/ttpr0/go-seareach/metrics"
)

//**********************************************************
// reachability handler
//**********************************************************

func HandleReachabilityRequest(ctx context.Context, manager *GraphManager, req ReachabilityRequest) Result {
	config := manager.GetConfig().Isochrone
	origin, err := req.Origin()
	if err != nil {
		return Error(err)
	}
	if req.Days > config.MaxDays {
		return Error(fmt.Errorf("%w: at most %v days allowed, got %v", isochrone.ErrInvalidParameter, config.MaxDays, req.Days))
	}
	return RunWithTimeout(ctx, config.Timeout, func() (*geojson.FeatureCollection, error) {
		t := time.Now()
		features, err := isochrone.ComputeIsochrones(manager.GetGraph(), origin, req.Speed, req.Days)
		if err != nil {
			return nil, err
		}
		metrics.IsochroneDuration.WithLabelValues("request").Observe(time.Since(t).Seconds())
		return isochrone.NewFeatureCollection(features), nil
	})
}

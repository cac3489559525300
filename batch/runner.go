package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ttpr0/go-seareach/algorithm"
	"github.com/ttpr0/go-seareach/geo"
	"github.com/ttpr0/go-seareach/graph"
	"github.com/ttpr0/go-seareach/isochrone"
	"github.com/ttpr0/go-seareach/metrics"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

const INDEX_FILE = "index.json"

var (
	ErrDuplicateOrigin = errors.New("duplicate origin name")
	ErrDuplicateSpeed  = errors.New("duplicate speed")
)

// Entry of the precomputation index.
type IndexEntry struct {
	Name   string    `json:"name"`
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
	Speeds []float64 `json:"speeds"`
}

type Summary struct {
	Origins   int
	Artifacts int
}

//**********************************************************
// runner
//**********************************************************

// Precomputes isochrones for every origin at every speed.
//
// Origins are processed in parallel, each labels the graph once and reuses the labels for all speeds.
type Runner struct {
	Graph   graph.IGraph
	Speeds  []float64
	MaxDays int
	OutDir  string
	Workers int
}

func (self *Runner) Run(ctx context.Context, origins List[Origin]) (Summary, error) {
	if len(self.Speeds) == 0 {
		return Summary{}, fmt.Errorf("%w: no speeds configured", isochrone.ErrInvalidParameter)
	}
	if err := _CheckUniqueNames(origins); err != nil {
		return Summary{}, err
	}
	if err := _CheckUniqueSpeeds(self.Speeds); err != nil {
		return Summary{}, err
	}
	max_speed := self.Speeds[0]
	for _, speed := range self.Speeds {
		if speed > max_speed {
			max_speed = speed
		}
	}
	max_range := isochrone.DayThreshold(max_speed, self.MaxDays)

	workers := self.Workers
	if workers < 1 {
		workers = 1
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var written int64
	for i, origin := range origins {
		i, origin := i, origin
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Info(fmt.Sprintf("[%v/%v] computing isochrones for %v", i+1, origins.Length(), origin.Name))
			count, err := self._RunOrigin(ctx, origin, max_range)
			atomic.AddInt64(&written, int64(count))
			if err != nil {
				return fmt.Errorf("origin %v: %w", origin.Name, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Summary{Origins: origins.Length(), Artifacts: int(written)}, err
	}

	index := NewList[IndexEntry](origins.Length())
	for _, origin := range origins {
		index.Add(IndexEntry{
			Name:   origin.Name,
			Lat:    origin.Lat,
			Lng:    origin.Lng,
			Speeds: self.Speeds,
		})
	}
	if err := WriteJSONToFile(index, filepath.Join(self.OutDir, INDEX_FILE)); err != nil {
		return Summary{Origins: origins.Length(), Artifacts: int(written)}, err
	}
	slog.Info(fmt.Sprintf("precomputation finished: %v origins, %v files", origins.Length(), written))
	return Summary{Origins: origins.Length(), Artifacts: int(written)}, nil
}

func (self *Runner) _RunOrigin(ctx context.Context, origin Origin, max_range float64) (int, error) {
	start, ok := self.Graph.GetClosestNode(geo.Coord{origin.Lng, origin.Lat})
	if !ok {
		if self.Graph.NodeCount() == 0 {
			return 0, algorithm.ErrEmptyGraph
		}
		return 0, isochrone.ErrNoNearestNode
	}
	t := time.Now()
	labels, err := algorithm.CalcRangeDistanceLabels(self.Graph, start, max_range)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, speed := range self.Speeds {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		features, err := isochrone.ComputeIsochronesFromLabels(self.Graph, labels, speed, self.MaxDays)
		if err != nil {
			return count, err
		}
		file := filepath.Join(self.OutDir, ArtifactName(origin.Name, speed))
		if err := WriteJSONToFile(isochrone.NewFeatureCollection(features), file); err != nil {
			return count, err
		}
		count += 1
		metrics.BatchArtifactsWritten.Inc()
	}
	metrics.IsochroneDuration.WithLabelValues("batch").Observe(time.Since(t).Seconds())
	return count, nil
}

func _CheckUniqueNames(origins List[Origin]) error {
	seen := NewDict[string, bool](origins.Length())
	for _, origin := range origins {
		name := _SanitizeName(origin.Name)
		if seen[name] {
			return fmt.Errorf("%w: %v", ErrDuplicateOrigin, origin.Name)
		}
		seen[name] = true
	}
	return nil
}

// Speeds are written with one decimal, two speeds rounding to the same value would share a file.
func _CheckUniqueSpeeds(speeds []float64) error {
	seen := NewDict[string, bool](len(speeds))
	for _, speed := range speeds {
		name := ArtifactName("", speed)
		if seen[name] {
			return fmt.Errorf("%w: %v knots", ErrDuplicateSpeed, speed)
		}
		seen[name] = true
	}
	return nil
}

package routing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-seareach/geo"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/sync/singleflight"
)

//**********************************************************
// route cache
//**********************************************************

// Caches route features by endpoint key.
//
// Concurrent lookups of a missing key share one computation, the first stored value wins.
type RouteCache struct {
	mu      sync.RWMutex
	entries Dict[string, *geojson.Feature]
	group   singleflight.Group
}

func NewRouteCache() *RouteCache {
	return &RouteCache{
		entries: NewDict[string, *geojson.Feature](100),
	}
}

func (self *RouteCache) Get(key string) (*geojson.Feature, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	f, ok := self.entries[key]
	return f, ok
}

func (self *RouteCache) Length() int {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.entries.Length()
}

// Returns the cached feature for key or computes and stores it, hit reports a cache hit.
//
// Errors are not cached.
func (self *RouteCache) GetOrCompute(key string, compute func() (*geojson.Feature, error)) (feature *geojson.Feature, hit bool, err error) {
	if f, ok := self.Get(key); ok {
		return f, true, nil
	}
	value, err, _ := self.group.Do(key, func() (any, error) {
		if f, ok := self.Get(key); ok {
			return f, nil
		}
		f, err := compute()
		if err != nil {
			return nil, err
		}
		self.mu.Lock()
		defer self.mu.Unlock()
		if existing, ok := self.entries[key]; ok {
			return existing, nil
		}
		self.entries[key] = f
		return f, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.(*geojson.Feature), false, nil
}

// Cache key of a route request, "o_lng,o_lat_[m_lng,m_lat_]d_lng,d_lat".
func RouteKey(origin geo.Coord, midpoint Optional[geo.Coord], destination geo.Coord) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%v,%v_", origin[0], origin[1]))
	if midpoint.HasValue() {
		builder.WriteString(fmt.Sprintf("%v,%v_", midpoint.Value[0], midpoint.Value[1]))
	}
	builder.WriteString(fmt.Sprintf("%v,%v", destination[0], destination[1]))
	return builder.String()
}

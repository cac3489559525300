package main

import (
	"github.com/ttpr0/go-seareach/geo"
)

type ReachabilityRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	// knots
	Speed float64 `json:"speed"`
	Days  int     `json:"days"`
}

func (self ReachabilityRequest) Origin() (geo.Coord, error) {
	return _ParseCoord([]float64{self.Lng, self.Lat})
}

type RouteRequest struct {
	// [lon, lat]
	Origin      []float64 `json:"origin"`
	Destination []float64 `json:"destination"`
	Midpoint    []float64 `json:"midpoint"`
}

type PrecalcFileRequest struct {
	Filename string `json:"filename"`
}

type SearchRequest struct {
	Q          string `json:"q"`
	FilterType string `json:"filter_type"`
}

type AllPortsRequest struct{}

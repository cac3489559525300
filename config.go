package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ttpr0/go-seareach/batch"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

// Reads the yaml config from file, fields missing in the file keep their defaults.
func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file " + file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func DefaultConfig() Config {
	return Config{
		Graph: GraphOptions{
			Format:          GEOJSON,
			WayFilter:       NewDict[string, string](0),
			PruneComponents: true,
		},
		Server: ServerOptions{
			Address:     ":8000",
			CorsOrigins: []string{"*"},
		},
		Isochrone: IsochroneOptions{
			MaxDays: 30,
			Timeout: 60 * time.Second,
		},
		Routing: RoutingOptions{
			Cache:   true,
			Timeout: 60 * time.Second,
		},
		Precalc: PrecalcOptions{
			Locations: "locations.json",
			Speeds: SpeedOptions{
				Min:   8.0,
				Step:  0.5,
				Count: 19,
			},
			MaxDays: 5,
			OutDir:  "precalc",
			Workers: 4,
		},
		Logging: LoggingOptions{
			Level: "info",
		},
	}
}

type Config struct {
	Graph     GraphOptions     `yaml:"graph"`
	Server    ServerOptions    `yaml:"server"`
	Isochrone IsochroneOptions `yaml:"isochrone"`
	Routing   RoutingOptions   `yaml:"routing"`
	Precalc   PrecalcOptions   `yaml:"precalc"`
	Logging   LoggingOptions   `yaml:"logging"`
}

func (self Config) Validate() error {
	if self.Graph.Source == "" {
		return errors.New("graph.source must be set")
	}
	if self.Isochrone.MaxDays < 1 {
		return errors.New("isochrone.max-days must be at least 1")
	}
	if self.Precalc.MaxDays < 1 {
		return errors.New("precalc.max-days must be at least 1")
	}
	speeds := self.Precalc.Speeds
	if speeds.Count < 1 || !(speeds.Min > 0) || !(speeds.Step > 0) {
		return errors.New("precalc.speeds needs a positive min and step and a count of at least 1")
	}
	return nil
}

type GraphOptions struct {
	Source          string               `yaml:"source"`
	Format          GraphFormat          `yaml:"format"`
	WayFilter       Dict[string, string] `yaml:"way-filter"`
	PruneComponents bool                 `yaml:"prune-components"`
}

type ServerOptions struct {
	Address     string   `yaml:"address"`
	CorsOrigins []string `yaml:"cors-origins"`
}

type IsochroneOptions struct {
	// upper bound for the days of a single request
	MaxDays int           `yaml:"max-days"`
	Timeout time.Duration `yaml:"timeout"`
}

type RoutingOptions struct {
	Cache   bool          `yaml:"cache"`
	Timeout time.Duration `yaml:"timeout"`
}

type PrecalcOptions struct {
	Locations string       `yaml:"locations"`
	Country   string       `yaml:"country"`
	Exclude   []string     `yaml:"exclude"`
	Speeds    SpeedOptions `yaml:"speeds"`
	MaxDays   int          `yaml:"max-days"`
	OutDir    string       `yaml:"out-dir"`
	Workers   int          `yaml:"workers"`
	// optional zip archive of precomputed files served when out-dir lacks a file
	Archive string `yaml:"archive"`
}

type SpeedOptions struct {
	Min   float64 `yaml:"min"`
	Step  float64 `yaml:"step"`
	Count int     `yaml:"count"`
}

func (self SpeedOptions) Values() []float64 {
	return batch.Speeds(self.Min, self.Step, self.Count)
}

type LoggingOptions struct {
	Level string `yaml:"level"`
}

//**********************************************************
// enums
//**********************************************************

type GraphFormat byte

const (
	GEOJSON GraphFormat = 0
	OSM_PBF GraphFormat = 1
	OSM_XML GraphFormat = 2
)

func (self GraphFormat) String() string {
	switch self {
	case GEOJSON:
		return "geojson"
	case OSM_PBF:
		return "osm-pbf"
	case OSM_XML:
		return "osm-xml"
	default:
		panic("unknown graph format")
	}
}
func (self GraphFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self GraphFormat) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *GraphFormat) UnmarshalYAML(value *yaml.Node) error {
	typ, err := GraphFormatFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func GraphFormatFromString(s string) (GraphFormat, error) {
	switch s {
	case "geojson":
		return GEOJSON, nil
	case "osm-pbf":
		return OSM_PBF, nil
	case "osm-xml":
		return OSM_XML, nil
	default:
		return GEOJSON, errors.New("unknown graph format " + s)
	}
}

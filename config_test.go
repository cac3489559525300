package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadConfig(t *testing.T) {
	config, err := ReadConfig("testdata/config.yaml")
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if config.Graph.Source != "testdata/network.geojson" || config.Graph.Format != GEOJSON {
		t.Errorf("graph options = %+v", config.Graph)
	}
	if config.Server.Address != ":8123" || len(config.Server.CorsOrigins) != 1 {
		t.Errorf("server options = %+v", config.Server)
	}
	if config.Isochrone.MaxDays != 10 || config.Isochrone.Timeout != 5*time.Second {
		t.Errorf("isochrone options = %+v", config.Isochrone)
	}
	speeds := config.Precalc.Speeds.Values()
	if len(speeds) != 2 || speeds[0] != 5 || speeds[1] != 6 {
		t.Errorf("speeds = %v", speeds)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("log level = %v", config.Logging.Level)
	}
}

func TestReadConfigKeepsDefaults(t *testing.T) {
	config, err := ReadConfig("testdata/config.yaml")
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	// not present in the file
	if !config.Routing.Cache {
		t.Errorf("route cache should default to enabled")
	}
	if config.Routing.Timeout != 60*time.Second {
		t.Errorf("route timeout = %v; want default 60s", config.Routing.Timeout)
	}
	if config.Precalc.OutDir != "precalc" {
		t.Errorf("out dir = %v; want default precalc", config.Precalc.OutDir)
	}
}

func TestDefaultSpeeds(t *testing.T) {
	speeds := DefaultConfig().Precalc.Speeds.Values()
	if len(speeds) != 19 || speeds[0] != 8.0 || speeds[18] != 17.0 {
		t.Errorf("default speeds = %v", speeds)
	}
	if DefaultConfig().Precalc.MaxDays != 5 {
		t.Errorf("default precalc days = %v; want 5", DefaultConfig().Precalc.MaxDays)
	}
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}

	bad_format := filepath.Join(dir, "format.yaml")
	os.WriteFile(bad_format, []byte("graph:\n  source: x.geojson\n  format: shapefile\n"), 0o644)
	if _, err := ReadConfig(bad_format); err == nil {
		t.Errorf("expected error for unknown graph format")
	}

	zero_step := filepath.Join(dir, "step.yaml")
	os.WriteFile(zero_step, []byte("graph:\n  source: x.geojson\nprecalc:\n  speeds:\n    min: 8\n    step: 0\n    count: 3\n"), 0o644)
	if _, err := ReadConfig(zero_step); err == nil {
		t.Errorf("expected error for zero speed step")
	}

	no_source := filepath.Join(dir, "source.yaml")
	os.WriteFile(no_source, []byte("logging:\n  level: info\n"), 0o644)
	if _, err := ReadConfig(no_source); err == nil {
		t.Errorf("expected error for missing graph source")
	}
}

func TestReadRoutingTimeout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routing.yaml")
	os.WriteFile(file, []byte("graph:\n  source: x.geojson\nrouting:\n  timeout: 2s\n"), 0o644)
	config, err := ReadConfig(file)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if config.Routing.Timeout != 2*time.Second || config.Isochrone.Timeout != 60*time.Second {
		t.Errorf("timeouts = %v, %v; want 2s route and default isochrone", config.Routing.Timeout, config.Isochrone.Timeout)
	}
	if !config.Routing.Cache {
		t.Errorf("route cache should stay enabled")
	}
}

func TestGraphFormatFromString(t *testing.T) {
	for _, format := range []GraphFormat{GEOJSON, OSM_PBF, OSM_XML} {
		parsed, err := GraphFormatFromString(format.String())
		if err != nil || parsed != format {
			t.Errorf("GraphFormatFromString(%v) = %v, %v", format.String(), parsed, err)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	if err := SetupLogging(os.Stdout, "verbose"); err == nil {
		t.Errorf("expected error for unknown level")
	}
	if err := SetupLogging(os.Stdout, "warn"); err != nil {
		t.Errorf("SetupLogging: %v", err)
	}
}

package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ttpr0/go-seareach/batch"
	"github.com/ttpr0/go-seareach/graph"
	"golang.org/x/exp/slog"
)

var ErrFileNotFound = errors.New("file not found")

//**********************************************************
// precalculation
//**********************************************************

// Precomputes isochrones for the configured origins and writes them to the output directory.
func RunPrecalc(ctx context.Context, g graph.IGraph, options PrecalcOptions) (batch.Summary, error) {
	origins, err := batch.LoadOrigins(options.Locations)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("failed to load origins: %w", err)
	}
	origins = batch.FilterOrigins(origins, options.Country, options.Exclude)
	speeds := options.Speeds.Values()
	slog.Info(fmt.Sprintf("precalculating %v origins at %v speeds for %v days into %v", origins.Length(), len(speeds), options.MaxDays, options.OutDir))

	runner := batch.Runner{
		Graph:   g,
		Speeds:  speeds,
		MaxDays: options.MaxDays,
		OutDir:  options.OutDir,
		Workers: options.Workers,
	}
	return runner.Run(ctx, origins)
}

//**********************************************************
// precalc file handler
//**********************************************************

func HandlePrecalcFileRequest(ctx context.Context, manager *GraphManager, req PrecalcFileRequest) Result {
	options := manager.GetConfig().Precalc
	name := filepath.Base(req.Filename)
	if name == "." || name == "/" || !strings.HasSuffix(name, ".json") {
		return BadRequest("invalid file name " + req.Filename)
	}
	data, err := ReadPrecalcFile(options, name)
	if errors.Is(err, ErrFileNotFound) {
		return NotFound(err.Error())
	}
	if err != nil {
		return Error(err)
	}
	return OK(json.RawMessage(data))
}

// Reads a precomputed file from the output directory, falling back to the archive if configured.
func ReadPrecalcFile(options PrecalcOptions, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(options.OutDir, name))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if options.Archive == "" {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, name)
	}
	return _ReadFromArchive(options.Archive, []string{path.Join(filepath.Base(options.OutDir), name), name})
}

func _ReadFromArchive(archive string, candidates []string) ([]byte, error) {
	zf, err := zip.OpenReader(archive)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: archive %v", ErrFileNotFound, archive)
	}
	if err != nil {
		return nil, err
	}
	defer zf.Close()
	for _, candidate := range candidates {
		f, err := zf.Open(candidate)
		if err != nil {
			continue
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return nil, fmt.Errorf("%w: %v in archive", ErrFileNotFound, candidates[len(candidates)-1])
}

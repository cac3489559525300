package batch

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	. "github.com/ttpr0/go-seareach/util"
)

//**********************************************************
// origins
//**********************************************************

// A precomputation origin, usually a port from the location catalog.
type Origin struct {
	Name    string  `json:"name" csv:"name"`
	Type    string  `json:"type" csv:"type"`
	Country string  `json:"country" csv:"country"`
	Code    string  `json:"code,omitempty" csv:"code"`
	Lat     float64 `json:"lat" csv:"lat"`
	Lng     float64 `json:"lng" csv:"lng"`
}

// Loads origins from a json array or a ';'-separated csv file with a header row.
func LoadOrigins(file string) (List[Origin], error) {
	if strings.EqualFold(filepath.Ext(file), ".csv") {
		origins := NewList[Origin](100)
		for origin, err := range ReadCSVFromFile[Origin](file, ';') {
			if err != nil {
				return nil, fmt.Errorf("failed to read origins: %w", err)
			}
			origins.Add(origin)
		}
		if origins.Length() == 0 {
			return nil, fmt.Errorf("no origins read from %v", file)
		}
		return origins, nil
	}
	return ReadJSONFromFile[List[Origin]](file)
}

// Keeps origins of the given country (all if empty) whose name is not excluded.
func FilterOrigins(origins List[Origin], country string, exclude []string) List[Origin] {
	excluded := NewDict[string, bool](len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	filtered := NewList[Origin](origins.Length())
	for _, origin := range origins {
		if country != "" && origin.Country != country {
			continue
		}
		if excluded[origin.Name] {
			continue
		}
		filtered.Add(origin)
	}
	return filtered
}

// Returns up to limit origins whose name or code contains query, ignoring case.
//
// A non-empty typ keeps only origins of that type.
func SearchOrigins(origins List[Origin], query string, typ string, limit int) List[Origin] {
	query = strings.ToLower(query)
	found := NewList[Origin](limit)
	for _, origin := range origins {
		if found.Length() >= limit {
			break
		}
		if typ != "" && origin.Type != typ {
			continue
		}
		if strings.Contains(strings.ToLower(origin.Name), query) || strings.Contains(strings.ToLower(origin.Code), query) {
			found.Add(origin)
		}
	}
	return found
}

// Generates count speeds starting at min in increments of step, rounded to 0.1 knots.
func Speeds(min, step float64, count int) []float64 {
	speeds := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		speeds = append(speeds, math.Round((min+float64(i)*step)*10)/10)
	}
	return speeds
}

// File name of the precomputed isochrones of origin name at speed.
func ArtifactName(name string, speed float64) string {
	return fmt.Sprintf("%v_%.1f.json", _SanitizeName(name), speed)
}

func _SanitizeName(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(name)
}

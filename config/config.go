package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrBadCoordinates is returned for a latitude/longitude pair outside the
// valid bounds.
var ErrBadCoordinates = errors.New("invalid zone coordinates")

// Site describes one generation site on the grid model. Sites are read from
// the case configuration and never modified during synthesis.
type Site struct {
	Name string  `json:"name"`
	Type string  `json:"type"` // "wind" or "solar"
	Zone string  `json:"zone"`
	Pmax float64 `json:"pmax"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// DataPlatformConfig configures the optional upload of scenario run records.
type DataPlatformConfig struct {
	Url string `json:"url"`
	// key is specified via env var
	Schema             string `json:"schema"`
	Table              string `json:"table"`
	BufferFilename     string `json:"bufferFilename"`
	UploadIntervalSecs int    `json:"uploadIntervalSecs"`
}

// Config is the top-level case configuration.
type Config struct {
	OutputDir      string `json:"outputDir"`
	Scenarios      int    `json:"scenarios"`
	ScenarioPrefix string `json:"scenarioPrefix"`
	Seed           int64  `json:"seed"`

	Sites []Site `json:"sites"`

	// SolarCoords maps zone name to [latitude, longitude]; only required in
	// zonal mode. Absence of this block disables zonal mode rather than
	// being an error.
	SolarCoords map[string][2]float64 `json:"solarCoords,omitempty"`

	// SolarProfileFile points at the legacy annual solar profile (a JSON
	// array of hourly values in [0,1]); only used when zonal mode is off.
	SolarProfileFile string `json:"solarProfileFile,omitempty"`

	DataPlatform *DataPlatformConfig `json:"dataPlatform,omitempty"`

	// RawParams holds the model parameter map as found in the file; it is
	// decoded into Params by Read.
	RawParams map[string]interface{} `json:"params"`

	Params Params `json:"-"`
}

// Read loads and validates a case configuration file.
func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(content, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	config.Params, err = DecodeParams(config.RawParams)
	if err != nil {
		return Config{}, fmt.Errorf("decode params: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.Scenarios < 1 {
		return fmt.Errorf("scenarios must be at least 1, got %d", c.Scenarios)
	}
	for _, site := range c.Sites {
		if site.Type != "wind" && site.Type != "solar" {
			return fmt.Errorf("site %q has unknown type %q", site.Name, site.Type)
		}
	}
	for zone, latlon := range c.SolarCoords {
		lat, lon := latlon[0], latlon[1]
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fmt.Errorf("%w: zone %q: (%v, %v)", ErrBadCoordinates, zone, lat, lon)
		}
	}
	if c.Params.UseZonalSolarPattern {
		for _, site := range c.Sites {
			if site.Type != "solar" {
				continue
			}
			if _, ok := c.SolarCoords[site.Zone]; !ok {
				return fmt.Errorf("zonal mode: no coordinates configured for zone %q (site %q)", site.Zone, site.Name)
			}
		}
	}
	return nil
}

// SolarZones returns the distinct zones that have at least one solar site,
// with their coordinates.
func (c Config) SolarZones() map[string][2]float64 {
	zones := map[string][2]float64{}
	for _, site := range c.Sites {
		if site.Type != "solar" {
			continue
		}
		if latlon, ok := c.SolarCoords[site.Zone]; ok {
			zones[site.Zone] = latlon
		}
	}
	return zones
}

// LoadSolarProfile reads the legacy annual solar profile: a JSON array of
// hourly values in [0,1].
func LoadSolarProfile(path string) ([]float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read solar profile: %w", err)
	}
	var profile []float64
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal solar profile: %w", err)
	}
	return profile, nil
}

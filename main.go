package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cepro/chronicsgen/config"
	"github.com/cepro/chronicsgen/dataplatform"
	"github.com/cepro/chronicsgen/pvgis"
	"github.com/cepro/chronicsgen/renewable"
	"github.com/cepro/chronicsgen/repository"
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.json", "path to the case configuration file")
	plotSites := flag.Bool("plot", false, "save a diagnostic plot per site")
	flag.Parse()

	slog.Info("Starting chronic generation...", "config", *configPath)

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		return
	}

	grid, err := cfg.Params.Grid()
	if err != nil {
		slog.Error("Failed to build time grid", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var platform *dataplatform.DataPlatform
	if cfg.DataPlatform != nil {
		supabaseKey := os.Getenv("SUPABASE_KEY")
		if supabaseKey == "" {
			slog.Error("Data platform configured but SUPABASE_KEY is not set")
			return
		}
		platform, err = dataplatform.New(
			cfg.DataPlatform.Url,
			supabaseKey,
			cfg.DataPlatform.Schema,
			cfg.DataPlatform.Table,
			cfg.DataPlatform.BufferFilename,
			time.Duration(cfg.DataPlatform.UploadIntervalSecs)*time.Second,
		)
		if err != nil {
			slog.Error("Failed to create data platform", "error", err)
			return
		}
		go platform.Run(ctx)
	}

	legacyProfile, zonalSeries, err := solarPatterns(cfg, grid.Start.Year())
	if err != nil {
		slog.Error("Failed to load solar patterns", "error", err)
		return
	}

	prefix := cfg.ScenarioPrefix
	if prefix == "" {
		prefix = "Scenario"
	}

	seeds := renewable.Seeds(cfg.Seed, cfg.Scenarios)
	for i, seed := range seeds {
		name := fmt.Sprintf("%s_%d", prefix, i)
		outDir := filepath.Join(cfg.OutputDir, name)

		backend := renewable.New(outDir, seed, cfg.Params, cfg.Sites)
		backend.LegacyProfile = legacyProfile
		backend.ZonalSeries = zonalSeries
		backend.WriteResults = true
		backend.PlotSites = *plotSites

		slog.Info("Generating scenario", "scenario", name, "seed", seed)
		if err := backend.Run(ctx); err != nil {
			slog.Error("Failed to generate scenario", "scenario", name, "error", err)
			return
		}

		if platform != nil {
			platform.Runs <- repository.ScenarioRun{
				ID:          uuid.New(),
				Name:        name,
				Seed:        seed,
				StartDate:   grid.Start,
				EndDate:     grid.End,
				DtMinutes:   grid.Dt,
				SiteCount:   len(cfg.Sites),
				OutputPath:  outDir,
				CompletedAt: time.Now().UTC(),
			}
		}
	}

	cancel()
	if platform != nil {
		// Run flushes the buffered run records before returning
		<-platform.Done()
	}

	slog.Info("Done", "scenarios", cfg.Scenarios)
}

// solarPatterns loads the reference solar data for the configured mode: the
// shared annual profile file, or one raw irradiance series per zone fetched
// from PVGIS.
func solarPatterns(cfg config.Config, startYear int) ([]float64, map[string][]float64, error) {
	if cfg.Params.UseZonalSolarPattern {
		client := pvgis.New(http.Client{Timeout: 60 * time.Second}, "")
		opts := pvgis.FetchOptions{}
		if cfg.Params.PvLoss != nil {
			opts.Loss = *cfg.Params.PvLoss
		}
		zonal, err := client.FetchZones(cfg.SolarZones(), startYear, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch zonal irradiance: %w", err)
		}
		return nil, zonal, nil
	}

	if cfg.SolarProfileFile == "" {
		return nil, nil, fmt.Errorf("no solarProfileFile configured and zonal mode is off")
	}
	profile, err := config.LoadSolarProfile(cfg.SolarProfileFile)
	if err != nil {
		return nil, nil, err
	}
	return profile, nil, nil
}

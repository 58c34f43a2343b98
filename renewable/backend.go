package renewable

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/cepro/chronicsgen/chronics"
	"github.com/cepro/chronicsgen/config"
	"github.com/cepro/chronicsgen/noise"
	"github.com/cepro/chronicsgen/pattern"
	"github.com/cepro/chronicsgen/synthesis"
)

// Backend synthesizes the wind and solar chronics for one scenario.
type Backend struct {
	OutDir string
	Seed   int64
	Params config.Params
	Sites  []config.Site

	// LegacyProfile is the shared annual solar profile; used when zonal mode
	// is off.
	LegacyProfile []float64

	// ZonalSeries maps zone name to raw hourly irradiance; used in zonal mode.
	ZonalSeries map[string][]float64

	// WriteResults serializes the chronic tables under OutDir.
	WriteResults bool

	// PlotSites saves a diagnostic plot per site alongside the chronics.
	PlotSites bool

	logger *slog.Logger
}

func New(outDir string, seed int64, params config.Params, sites []config.Site) *Backend {
	return &Backend{
		OutDir: outDir,
		Seed:   seed,
		Params: params,
		Sites:  sites,
		logger: slog.Default().With("scenario_dir", outDir),
	}
}

// Run synthesizes every site on the scenario's time grid. The draw order is
// fixed (the four noise fields, then each site in configuration order, then
// the forecast noise) so a scenario is fully reproducible from its seed.
func (b *Backend) Run(ctx context.Context) error {
	if b.logger == nil {
		b.logger = slog.Default().With("scenario_dir", b.OutDir)
	}

	grid, err := b.Params.Grid()
	if err != nil {
		return fmt.Errorf("build time grid: %w", err)
	}

	rng := rand.New(rand.NewSource(b.Seed))

	spatial := noise.Spatial{
		Lx:     b.Params.Lx,
		Ly:     b.Params.Ly,
		DxCorr: b.Params.DxCorr,
		DyCorr: b.Params.DyCorr,
	}
	solarNoise := noise.NewField(rng, grid, spatial, b.Params.SolarCorr)
	longNoise := noise.NewField(rng, grid, spatial, b.Params.LongWindCorr)
	mediumNoise := noise.NewField(rng, grid, spatial, b.Params.MediumWindCorr)
	shortNoise := noise.NewField(rng, grid, spatial, b.Params.ShortWindCorr)

	times := grid.Times()
	solarTable := chronics.NewTable(times)
	windTable := chronics.NewTable(times)

	for _, site := range b.Sites {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch site.Type {
		case "wind":
			series, ref := synthesis.ComputeWind(rng, synthesis.WindConfig{
				Grid:       grid,
				Location:   synthesis.Location{X: site.X, Y: site.Y},
				Pmax:       site.Pmax,
				Long:       longNoise,
				Medium:     mediumNoise,
				Short:      shortNoise,
				StdLong:    b.Params.StdLongWindNoise,
				StdMedium:  b.Params.StdMediumWindNoise,
				StdShort:   b.Params.StdShortWindNoise,
				SmoothDist: b.Params.SmoothDist,
			})
			if err := windTable.Add(site.Name, series); err != nil {
				return err
			}
			if err := b.maybePlot(site, series, ref, grid.Dt); err != nil {
				return err
			}

		case "solar":
			src, err := b.patternSource(site)
			if err != nil {
				return err
			}
			series, ref, err := synthesis.ComputeSolar(rng, synthesis.SolarConfig{
				Grid:       grid,
				Location:   synthesis.Location{X: site.X, Y: site.Y},
				Pmax:       site.Pmax,
				Noise:      solarNoise,
				StdSolar:   b.Params.StdSolarNoise,
				MeanLevel:  b.Params.MeanSolarPattern,
				CoordScale: b.Params.ScaleSolarCoordForCorrelation,
				Pattern:    src,
				// the night mask is only applied when solar_night_hour is
				// configured; an absent key leaves the pattern untouched
				PatternOptions: pattern.Options{
					NightHours:      b.Params.SolarNightHour,
					ForceZeroMargin: b.Params.ForceSolarZero,
				},
				SmoothDist: b.Params.SmoothDist,
			})
			if err != nil {
				return fmt.Errorf("site %q: %w", site.Name, err)
			}
			if err := solarTable.Add(site.Name, series); err != nil {
				return err
			}
			if err := b.maybePlot(site, series, ref, grid.Dt); err != nil {
				return err
			}

		default:
			return fmt.Errorf("site %q has unknown type %q", site.Name, site.Type)
		}
		b.logger.Debug("Synthesized site", "site", site.Name, "type", site.Type)
	}

	if !b.WriteResults {
		return nil
	}

	if err := os.MkdirAll(b.OutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := chronics.WriteOptions{}
	if err := solarTable.WriteFile(filepath.Join(b.OutDir, "solar_p.csv"), opts); err != nil {
		return err
	}
	solarForecast := solarTable.Forecast(rng, b.Params.PlannedStd)
	if err := solarForecast.WriteFile(filepath.Join(b.OutDir, "solar_p_forecasted.csv"), chronics.WriteOptions{Shift: true}); err != nil {
		return err
	}
	if err := windTable.WriteFile(filepath.Join(b.OutDir, "wind_p.csv"), opts); err != nil {
		return err
	}
	windForecast := windTable.Forecast(rng, b.Params.PlannedStd)
	if err := windForecast.WriteFile(filepath.Join(b.OutDir, "wind_p_forecasted.csv"), chronics.WriteOptions{Shift: true}); err != nil {
		return err
	}

	b.logger.Info("Wrote chronics", "steps", grid.Steps(), "sites", len(b.Sites))

	return nil
}

// patternSource picks the reference pattern for one solar site: the zone's
// raw irradiance in zonal mode, the shared annual profile otherwise.
func (b *Backend) patternSource(site config.Site) (pattern.Source, error) {
	if b.Params.UseZonalSolarPattern {
		raw, ok := b.ZonalSeries[site.Zone]
		if !ok {
			return nil, fmt.Errorf("site %q: no irradiance series for zone %q", site.Name, site.Zone)
		}
		return pattern.Zonal(raw), nil
	}
	if len(b.LegacyProfile) == 0 {
		return nil, fmt.Errorf("site %q: no solar profile configured", site.Name)
	}
	return pattern.Legacy(b.LegacyProfile), nil
}

func (b *Backend) maybePlot(site config.Site, series, ref []float64, dtMinutes int) error {
	if !b.PlotSites {
		return nil
	}
	if err := os.MkdirAll(b.OutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	scaled := make([]float64, len(ref))
	for i, v := range ref {
		scaled[i] = v * site.Pmax
	}
	path := filepath.Join(b.OutDir, site.Name+".png")
	if err := savePlot(path, site.Name, series, scaled, dtMinutes); err != nil {
		return fmt.Errorf("plot site %q: %w", site.Name, err)
	}
	return nil
}

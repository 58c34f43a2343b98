package synthesis

import (
	"math/rand"

	"github.com/cepro/chronicsgen/pattern"
	"github.com/cepro/chronicsgen/timegrid"
)

// legacyMeanLevel is the mean level of the solar signal when none is
// configured.
const legacyMeanLevel = 0.75

// SolarConfig carries everything needed to synthesize one solar site.
type SolarConfig struct {
	Grid     timegrid.Grid
	Location Location
	Pmax     float64

	Noise    Sampler
	StdSolar float64

	// MeanLevel is the mean multiplier applied to the reference pattern;
	// defaults to 0.75 when nil.
	MeanLevel *float64

	// CoordScale optionally rescales the site coordinates before sampling
	// noise, decoupling correlation-length tuning from physical distance.
	CoordScale *float64

	// Pattern is the raw reference pattern source; it is resampled onto the
	// grid as part of the synthesis.
	Pattern        pattern.Source
	PatternOptions pattern.Options

	SmoothDist float64

	// Tol zeroes values below it, in both the resampled pattern and the
	// combined signal. It is the pipeline's single tolerance: any Tol set on
	// PatternOptions is superseded.
	Tol float64
}

// ComputeSolar synthesizes the power series for one solar site: the reference
// pattern modulated by correlated noise, smoothed and capped at 95% of
// nameplate capacity. The returned reference curve is the pattern scaled by
// the mean level, with the stochastic terms removed.
//
// The output is deterministic given the generator state and the sampler.
func ComputeSolar(rng *rand.Rand, cfg SolarConfig) (series, refCurve []float64, err error) {
	loc := cfg.Location
	if cfg.CoordScale != nil {
		loc = Location{X: *cfg.CoordScale * loc.X, Y: *cfg.CoordScale * loc.Y}
	}
	noise := cfg.Noise.At(loc.X, loc.Y)

	opts := cfg.PatternOptions
	opts.Tol = cfg.Tol // the single tolerance governs the pattern too
	pat, err := pattern.Compute(cfg.Pattern, cfg.Grid, opts)
	if err != nil {
		return nil, nil, err
	}

	meanLevel := legacyMeanLevel
	if cfg.MeanLevel != nil {
		meanLevel = *cfg.MeanLevel
	}

	signal := make([]float64, len(pat))
	refCurve = make([]float64, len(pat))
	for i := range pat {
		signal[i] = pat[i] * (meanLevel + cfg.StdSolar*noise[i])
		refCurve[i] = pat[i] * meanLevel
	}

	for i := range signal {
		signal[i] += rng.Float64() * cfg.SmoothDist
	}
	zeroBelow(signal, cfg.Tol)
	signal = Smooth(signal)

	scaleAndCap(signal, cfg.Pmax)
	return signal, refCurve, nil
}

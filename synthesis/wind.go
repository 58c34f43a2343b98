package synthesis

import (
	"math"
	"math/rand"
	"time"

	"github.com/cepro/chronicsgen/timegrid"
)

// seasonalAnchor is the fixed reference date the yearly wind pattern is
// anchored to. Changing it would shift every generated wind chronic.
var seasonalAnchor = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// Sampler produces one noise value per grid step for a location.
type Sampler interface {
	At(x, y float64) []float64
}

// Location is a site position: grid coordinates for wind sites, latitude and
// longitude for solar sites in zonal mode.
type Location struct {
	X float64
	Y float64
}

// WindConfig carries everything needed to synthesize one wind site.
type WindConfig struct {
	Grid     timegrid.Grid
	Location Location
	Pmax     float64

	// noise fields at three correlation time scales
	Long   Sampler
	Medium Sampler
	Short  Sampler

	StdLong   float64
	StdMedium float64
	StdShort  float64

	// SmoothDist bounds the uniform noise added before smoothing. Kept for
	// numerical parity with historical chronics; see the tol note below.
	SmoothDist float64

	// Tol zeroes combined-signal values below it. Zero keeps the historical
	// behaviour.
	Tol float64
}

// ComputeWind synthesizes the power series for one wind site. The three
// noise scales are sampled at the site's location, combined with a yearly
// seasonal cosine, exponentiated, smoothed and capped at 95% of nameplate
// capacity. The returned reference curve is the same pattern with all
// stochastic terms removed, for diagnostic comparison.
//
// The output is deterministic given the generator state and the samplers.
func ComputeWind(rng *rand.Rand, cfg WindConfig) (series, refCurve []float64) {
	long := cfg.Long.At(cfg.Location.X, cfg.Location.Y)
	medium := cfg.Medium.At(cfg.Location.X, cfg.Location.Y)
	short := cfg.Short.At(cfg.Location.X, cfg.Location.Y)

	const yearMinutes = 365 * 24 * 60
	const phaseOffset = 30 * 24 * 60

	startMin := cfg.Grid.MinutesSince(seasonalAnchor)
	steps := cfg.Grid.Steps()

	signal := make([]float64, steps)
	refCurve = make([]float64, steps)
	for i := 0; i < steps; i++ {
		t := float64(i * cfg.Grid.Dt)
		seasonal := math.Cos((2 * math.Pi / yearMinutes) * (t - phaseOffset + startMin))
		base := (0.7+0.3*seasonal)*(0.3+cfg.StdMedium*medium[i]+cfg.StdLong*long[i]) + cfg.StdShort*short[i]
		signal[i] = 1e-1 * math.Exp(4*base)
		refCurve[i] = 1e-1 * math.Exp(4*(0.7+0.3*seasonal)*0.3)
	}

	for i := range signal {
		signal[i] += rng.Float64() * cfg.SmoothDist
	}
	zeroBelow(signal, cfg.Tol)
	signal = Smooth(signal)

	scaleAndCap(signal, cfg.Pmax)
	return signal, refCurve
}

func zeroBelow(x []float64, tol float64) {
	for i, v := range x {
		if v < tol {
			x[i] = 0
		}
	}
}

// scaleAndCap multiplies the normalized signal by the nameplate capacity and
// caps the result at 95% of it.
func scaleAndCap(x []float64, pmax float64) {
	cap := 0.95 * pmax
	for i := range x {
		x[i] *= pmax
		if x[i] > cap {
			x[i] = cap
		}
	}
}

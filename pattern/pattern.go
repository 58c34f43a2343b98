package pattern

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/cepro/chronicsgen/timegrid"
)

const hoursPerYear = 8760

// zonalYears is the number of full years of raw irradiance averaged together
// in zonal mode. The PVGIS fetch requests a five year window, so a successful
// response always carries at least this much data.
const zonalYears = 4

// ErrInsufficientData is returned when an irradiance series is shorter than
// the required number of full years.
var ErrInsufficientData = errors.New("insufficient irradiance data")

// Source is a reference pattern source. The two variants are a single legacy
// annual profile shared by every site, and raw multi-year zonal irradiance.
// Both produce the same contract: a normalized hourly profile.
type Source interface {
	profile() ([]float64, error)
}

type legacySource struct {
	values []float64
}

type zonalSource struct {
	raw []float64
}

// Legacy wraps a single pre-normalized annual hourly profile (values in
// [0,1], at most one year of hourly samples).
func Legacy(profile []float64) Source {
	return legacySource{values: profile}
}

// Zonal wraps raw hourly irradiance covering at least four full years, as
// returned by the PVGIS service for one zone.
func Zonal(raw []float64) Source {
	return zonalSource{raw: raw}
}

func (s legacySource) profile() ([]float64, error) {
	if len(s.values) == 0 {
		return nil, fmt.Errorf("%w: empty legacy profile", ErrInsufficientData)
	}
	return s.values, nil
}

func (s zonalSource) profile() ([]float64, error) {
	required := zonalYears * hoursPerYear
	if len(s.raw) < required {
		return nil, fmt.Errorf("%w: have %d hourly values, need %d", ErrInsufficientData, len(s.raw), required)
	}

	// average the year rows, discarding anything beyond the required window
	avg := make([]float64, hoursPerYear)
	for year := 0; year < zonalYears; year++ {
		row := s.raw[year*hoursPerYear : (year+1)*hoursPerYear]
		for h, v := range row {
			avg[h] += v
		}
	}
	for h := range avg {
		avg[h] /= zonalYears
	}

	// min-max normalize to [0, 1]
	lo := floats.Min(avg)
	span := floats.Max(avg) - lo
	for h := range avg {
		avg[h] = (avg[h] - lo) / span
	}
	return avg, nil
}

// Options controls the boundary shaping heuristics applied after resampling.
type Options struct {
	// NightHours lists hour-of-day values during which output is forced to
	// zero, with a sigmoid ramp over the first daylight hour on each side of
	// the night block.
	NightHours []int

	// ForceZeroMargin, when set, zeroes every step whose hour of day lies
	// more than the given number of hours outside the interval where output
	// exceeds 5% of its maximum.
	ForceZeroMargin *int

	// Tol zeroes any resampled value below it.
	Tol float64
}

// Compute builds the normalized reference pattern for the given grid. The
// hourly source profile is tiled to cover the horizon, resampled onto the
// grid's timestamps with a cubic spline, clipped to non-negative values and
// optionally shaped at the day boundaries.
func Compute(src Source, grid timegrid.Grid, opts Options) ([]float64, error) {
	profile, err := src.profile()
	if err != nil {
		return nil, err
	}

	// tile the hourly profile so it covers the horizon, measured from the
	// start of the grid's first calendar year
	offsets := grid.YearOffsets()
	endMin := offsets[len(offsets)-1]
	ntHours := int(endMin)/60 + 1
	repeats := (ntHours-1)/len(profile) + 1

	tiled := make([]float64, 0, len(profile)*repeats)
	for r := 0; r < repeats; r++ {
		tiled = append(tiled, profile...)
	}
	axis := make([]float64, len(tiled))
	for k := range axis {
		axis[k] = 60 * float64(k)
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(axis, tiled); err != nil {
		return nil, fmt.Errorf("fit pattern spline: %w", err)
	}

	out := make([]float64, grid.Steps())
	for i, offset := range offsets {
		v := spline.Predict(offset)
		if v < 0 || v < opts.Tol {
			v = 0
		}
		out[i] = v
	}

	if len(opts.NightHours) > 0 {
		applyNightMask(out, grid, opts.NightHours)
	}
	if opts.ForceZeroMargin != nil {
		applyForceZero(out, grid.Hours(), *opts.ForceZeroMargin)
	}
	return out, nil
}

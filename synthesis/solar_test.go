package synthesis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cepro/chronicsgen/noise"
	"github.com/cepro/chronicsgen/pattern"
)

// sinusoidProfile is the fixed annual profile used by the example scenario: a
// clipped sinusoidal daylight bump between 06:00 and 18:00.
func sinusoidProfile() []float64 {
	profile := make([]float64, 8760)
	for h := range profile {
		v := math.Sin(math.Pi * (float64(h%24) - 6) / 12)
		if v < 0 {
			v = 0
		}
		profile[h] = v
	}
	return profile
}

func TestComputeSolarExampleScenario(t *testing.T) {
	// one week at 5 minute steps, legacy sinusoidal pattern, Pmax=100, zero
	// noise amplitudes, night hours 22:00-05:00
	grid := exampleGrid(t)
	steps := grid.Steps()
	nightHours := []int{22, 23, 0, 1, 2, 3, 4, 5}

	cfg := SolarConfig{
		Grid:     grid,
		Location: Location{X: 0.5, Y: 0.5},
		Pmax:     100,
		Noise:    flatSampler{steps: steps},
		Pattern:  pattern.Legacy(sinusoidProfile()),
		PatternOptions: pattern.Options{
			NightHours: nightHours,
		},
	}

	series, ref, err := ComputeSolar(rand.New(rand.NewSource(12)), cfg)
	assert.NoError(t, err)
	assert.Len(t, series, 2017)
	assert.Len(t, ref, 2017)

	for i, v := range series {
		assert.GreaterOrEqual(t, v, 0.0, "step %d", i)
		assert.LessOrEqual(t, v, 95.0, "step %d", i)
	}

	// exact night hours produce zero output
	night := map[int]bool{}
	for _, h := range nightHours {
		night[h] = true
	}
	for i, h := range grid.Hours() {
		if night[h] {
			assert.Equal(t, 0.0, series[i], "step %d (hour %d)", i, h)
		}
	}
}

func TestComputeSolarDeterminism(t *testing.T) {
	grid := exampleGrid(t)
	spatial := noise.Spatial{Lx: 1000, Ly: 1000, DxCorr: 250, DyCorr: 250}

	build := func(seed int64) ([]float64, []float64) {
		field := noise.NewField(rand.New(rand.NewSource(77)), grid, spatial, 1200)
		series, ref, err := ComputeSolar(rand.New(rand.NewSource(seed)), SolarConfig{
			Grid:       grid,
			Location:   Location{X: 300, Y: 800},
			Pmax:       60,
			Noise:      field,
			StdSolar:   0.3,
			Pattern:    pattern.Legacy(sinusoidProfile()),
			SmoothDist: 0.001,
		})
		assert.NoError(t, err)
		return series, ref
	}

	a, refA := build(5)
	b, refB := build(5)
	c, _ := build(6)

	assert.Equal(t, a, b, "identical seeds must give bit-identical series")
	assert.Equal(t, refA, refB)
	assert.NotEqual(t, a, c, "different seeds must change the series")
}

func TestComputeSolarMeanLevelDefault(t *testing.T) {
	grid := exampleGrid(t)
	steps := grid.Steps()

	cfg := SolarConfig{
		Grid:     grid,
		Location: Location{},
		Pmax:     100,
		Noise:    flatSampler{steps: steps},
		Pattern:  pattern.Legacy(sinusoidProfile()),
	}

	_, ref, err := ComputeSolar(rand.New(rand.NewSource(1)), cfg)
	assert.NoError(t, err)

	pat, err := pattern.Compute(cfg.Pattern, grid, pattern.Options{})
	assert.NoError(t, err)

	for i := range ref {
		assert.InDelta(t, 0.75*pat[i], ref[i], 1e-12, "step %d", i)
	}
}

func TestComputeSolarCoordScale(t *testing.T) {
	// the coordinate scaling factor must change which part of the noise
	// field the site samples
	grid := exampleGrid(t)
	spatial := noise.Spatial{Lx: 1000, Ly: 1000, DxCorr: 100, DyCorr: 100}
	scale := 0.5

	build := func(coordScale *float64) []float64 {
		field := noise.NewField(rand.New(rand.NewSource(77)), grid, spatial, 1200)
		series, _, err := ComputeSolar(rand.New(rand.NewSource(5)), SolarConfig{
			Grid:       grid,
			Location:   Location{X: 700, Y: 700},
			Pmax:       60,
			Noise:      field,
			StdSolar:   0.4,
			CoordScale: coordScale,
			Pattern:    pattern.Legacy(sinusoidProfile()),
		})
		assert.NoError(t, err)
		return series
	}

	assert.NotEqual(t, build(nil), build(&scale))
}

func TestComputeSolarTolSupersedesPatternTol(t *testing.T) {
	// SolarConfig.Tol is the single tolerance for the whole pipeline: a Tol
	// set on PatternOptions must not tighten the pattern threshold
	grid := exampleGrid(t)
	steps := grid.Steps()

	cfg := SolarConfig{
		Grid:           grid,
		Location:       Location{},
		Pmax:           100,
		Noise:          flatSampler{steps: steps},
		Pattern:        pattern.Legacy(sinusoidProfile()),
		PatternOptions: pattern.Options{Tol: 0.9},
		Tol:            0.5,
	}

	series, _, err := ComputeSolar(rand.New(rand.NewSource(1)), cfg)
	assert.NoError(t, err)

	pat, err := pattern.Compute(cfg.Pattern, grid, pattern.Options{Tol: 0.5})
	assert.NoError(t, err)

	superseded := false
	for i := range series {
		v := pat[i] * 0.75
		if math.Abs(v-0.5) < 1e-9 {
			continue
		}
		if v > 0.5 {
			assert.Greater(t, series[i], 0.0, "step %d", i)
			// a surviving value below the PatternOptions threshold proves
			// that threshold was not applied
			if pat[i] < 0.9 {
				superseded = true
			}
		} else {
			assert.Equal(t, 0.0, series[i], "step %d", i)
		}
	}
	assert.True(t, superseded)
}

func TestComputeSolarInsufficientZonalData(t *testing.T) {
	grid := exampleGrid(t)
	steps := grid.Steps()

	_, _, err := ComputeSolar(rand.New(rand.NewSource(1)), SolarConfig{
		Grid:     grid,
		Location: Location{},
		Pmax:     100,
		Noise:    flatSampler{steps: steps},
		Pattern:  pattern.Zonal(make([]float64, 8760)),
	})
	assert.ErrorIs(t, err, pattern.ErrInsufficientData)
}

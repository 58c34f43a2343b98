package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rawParams() map[string]interface{} {
	return map[string]interface{}{
		"dt":                   5.0,
		"weeks":                1.0,
		"start_date":           "2020-01-06",
		"Lx":                   1000.0,
		"Ly":                   1000.0,
		"dx_corr":              250.0,
		"dy_corr":              250.0,
		"short_wind_corr":      30.0,
		"medium_wind_corr":     600.0,
		"long_wind_corr":       3000.0,
		"solar_corr":           1200.0,
		"std_short_wind_noise": 0.05,
		"std_medium_wind_noise": 0.2,
		"std_long_wind_noise":  0.1,
		"std_solar_noise":      0.3,
		"smoothdist":           0.001,
	}
}

func TestDecodeParams(t *testing.T) {
	raw := rawParams()
	raw["solar_night_hour"] = []interface{}{22.0, 23.0, 0.0, 1.0}
	raw["mean_solar_pattern"] = 0.8
	raw["force_solar_zero"] = 1.0

	params, err := DecodeParams(raw)
	assert.NoError(t, err)

	assert.Equal(t, 5, params.Dt)
	assert.Equal(t, 1, params.Weeks)
	assert.Equal(t, 0.05, params.StdShortWindNoise)
	assert.Equal(t, []int{22, 23, 0, 1}, params.SolarNightHour)
	assert.NotNil(t, params.MeanSolarPattern)
	assert.Equal(t, 0.8, *params.MeanSolarPattern)
	assert.NotNil(t, params.ForceSolarZero)
	assert.Equal(t, 1, *params.ForceSolarZero)
	assert.Nil(t, params.PvLoss)
	assert.False(t, params.UseZonalSolarPattern)
}

func TestDecodeParamsMissingKey(t *testing.T) {
	raw := rawParams()
	delete(raw, "smoothdist")

	_, err := DecodeParams(raw)
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Contains(t, err.Error(), "smoothdist")
}

func TestDecodeParamsNeedsHorizon(t *testing.T) {
	raw := rawParams()
	delete(raw, "weeks")

	_, err := DecodeParams(raw)
	assert.ErrorIs(t, err, ErrMissingParam)

	raw["end_date"] = "2020-01-13"
	_, err = DecodeParams(raw)
	assert.NoError(t, err)
}

func TestParamsGrid(t *testing.T) {
	params, err := DecodeParams(rawParams())
	assert.NoError(t, err)

	grid, err := params.Grid()
	assert.NoError(t, err)
	assert.Equal(t, 10080, grid.T)
	assert.Equal(t, 2017, grid.Steps())
}

func TestReadConfig(t *testing.T) {
	content := `{
		"outputDir": "out",
		"scenarios": 2,
		"scenarioPrefix": "Scenario",
		"seed": 42,
		"sites": [
			{"name": "gen_1_0", "type": "wind", "zone": "R1", "pmax": 50, "x": 100, "y": 200},
			{"name": "gen_2_0", "type": "solar", "zone": "R1", "pmax": 30, "x": 300, "y": 400}
		],
		"solarCoords": {"R1": [51.5, -2.6]},
		"params": {
			"dt": 5, "weeks": 1, "start_date": "2020-01-06",
			"Lx": 1000, "Ly": 1000, "dx_corr": 250, "dy_corr": 250,
			"short_wind_corr": 30, "medium_wind_corr": 600, "long_wind_corr": 3000,
			"solar_corr": 1200,
			"std_short_wind_noise": 0.05, "std_medium_wind_noise": 0.2,
			"std_long_wind_noise": 0.1, "std_solar_noise": 0.3,
			"smoothdist": 0.001,
			"use_zonal_solar_pattern": true
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := Read(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, config.Scenarios)
	assert.Len(t, config.Sites, 2)
	assert.True(t, config.Params.UseZonalSolarPattern)
	assert.Equal(t, map[string][2]float64{"R1": {51.5, -2.6}}, config.SolarZones())
}

func TestReadConfigBadCoordinates(t *testing.T) {
	content := `{
		"scenarios": 1,
		"sites": [],
		"solarCoords": {"R1": [95.0, 0.0]},
		"params": {
			"dt": 5, "weeks": 1, "start_date": "2020-01-06",
			"Lx": 1000, "Ly": 1000, "dx_corr": 250, "dy_corr": 250,
			"short_wind_corr": 30, "medium_wind_corr": 600, "long_wind_corr": 3000,
			"solar_corr": 1200,
			"std_short_wind_noise": 0.05, "std_medium_wind_noise": 0.2,
			"std_long_wind_noise": 0.1, "std_solar_noise": 0.3,
			"smoothdist": 0.001
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Read(path)
	assert.ErrorIs(t, err, ErrBadCoordinates)
}

func TestReadConfigZonalModeRequiresCoords(t *testing.T) {
	content := `{
		"scenarios": 1,
		"sites": [{"name": "gen_1_0", "type": "solar", "zone": "R9", "pmax": 30}],
		"params": {
			"dt": 5, "weeks": 1, "start_date": "2020-01-06",
			"Lx": 1000, "Ly": 1000, "dx_corr": 250, "dy_corr": 250,
			"short_wind_corr": 30, "medium_wind_corr": 600, "long_wind_corr": 3000,
			"solar_corr": 1200,
			"std_short_wind_noise": 0.05, "std_medium_wind_noise": 0.2,
			"std_long_wind_noise": 0.1, "std_solar_noise": 0.3,
			"smoothdist": 0.001,
			"use_zonal_solar_pattern": true
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Read(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "R9")
}

func TestLoadSolarProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solar_pattern.json")
	assert.NoError(t, os.WriteFile(path, []byte("[0.0, 0.5, 1.0]"), 0644))

	profile, err := LoadSolarProfile(path)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, profile)
}

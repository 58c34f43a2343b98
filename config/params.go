package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/cepro/chronicsgen/timegrid"
)

// ErrMissingParam is returned when a required model parameter is absent.
var ErrMissingParam = errors.New("missing required parameter")

// requiredParams are the keys that must be present in the params map. The
// horizon needs either "weeks" or "end_date" on top of these.
var requiredParams = []string{
	"dt",
	"start_date",
	"Lx",
	"Ly",
	"dx_corr",
	"dy_corr",
	"short_wind_corr",
	"medium_wind_corr",
	"long_wind_corr",
	"solar_corr",
	"std_short_wind_noise",
	"std_medium_wind_noise",
	"std_long_wind_noise",
	"std_solar_noise",
	"smoothdist",
}

// Params holds the renewable generation model parameters. The upstream
// configuration is a flat key/value map merged from several files, so the
// raw map is decoded into this struct rather than unmarshalled directly.
type Params struct {
	Dt        int    `mapstructure:"dt"`    // step length, minutes
	Weeks     int    `mapstructure:"weeks"` // horizon length; ignored when end_date is set
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// coarse noise geometry
	Lx     float64 `mapstructure:"Lx"`
	Ly     float64 `mapstructure:"Ly"`
	DxCorr float64 `mapstructure:"dx_corr"`
	DyCorr float64 `mapstructure:"dy_corr"`

	// correlation time scales, minutes
	ShortWindCorr  float64 `mapstructure:"short_wind_corr"`
	MediumWindCorr float64 `mapstructure:"medium_wind_corr"`
	LongWindCorr   float64 `mapstructure:"long_wind_corr"`
	SolarCorr      float64 `mapstructure:"solar_corr"`

	// noise amplitudes
	StdShortWindNoise  float64 `mapstructure:"std_short_wind_noise"`
	StdMediumWindNoise float64 `mapstructure:"std_medium_wind_noise"`
	StdLongWindNoise   float64 `mapstructure:"std_long_wind_noise"`
	StdSolarNoise      float64 `mapstructure:"std_solar_noise"`

	SmoothDist float64 `mapstructure:"smoothdist"`
	PlannedStd float64 `mapstructure:"planned_std"`

	UseZonalSolarPattern          bool     `mapstructure:"use_zonal_solar_pattern"`
	MeanSolarPattern              *float64 `mapstructure:"mean_solar_pattern"`
	PvLoss                        *float64 `mapstructure:"pv_loss"`
	SolarNightHour                []int    `mapstructure:"solar_night_hour"`
	ForceSolarZero                *int     `mapstructure:"force_solar_zero"`
	ScaleSolarCoordForCorrelation *float64 `mapstructure:"scale_solar_coord_for_correlation"`
}

// DecodeParams decodes the raw parameter map into a typed Params, checking
// every required key is present.
func DecodeParams(raw map[string]interface{}) (Params, error) {
	for _, key := range requiredParams {
		if _, ok := raw[key]; !ok {
			return Params{}, fmt.Errorf("%w: %q", ErrMissingParam, key)
		}
	}
	if _, hasWeeks := raw["weeks"]; !hasWeeks {
		if _, hasEnd := raw["end_date"]; !hasEnd {
			return Params{}, fmt.Errorf("%w: either %q or %q", ErrMissingParam, "weeks", "end_date")
		}
	}

	var params Params
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &params,
		WeaklyTypedInput: true, // JSON numbers arrive as float64
	})
	if err != nil {
		return Params{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Params{}, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}

// dateFormats are the accepted start_date/end_date layouts.
var dateFormats = []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Grid builds the simulation time grid described by the parameters. The end
// date is taken from end_date when present, otherwise derived from weeks.
func (p Params) Grid() (timegrid.Grid, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return timegrid.Grid{}, fmt.Errorf("start_date: %w", err)
	}

	var end time.Time
	if p.EndDate != "" {
		end, err = parseDate(p.EndDate)
		if err != nil {
			return timegrid.Grid{}, fmt.Errorf("end_date: %w", err)
		}
	} else {
		end = start.AddDate(0, 0, 7*p.Weeks)
	}

	return timegrid.New(start, end, p.Dt)
}

package pvgis

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cepro/chronicsgen/pattern"
)

const (
	defaultBaseURL = "https://re.jrc.ec.europa.eu/api"

	// seriescalc radiation database coverage; requested windows are clamped
	// so the end year stays within [minEndYear, maxEndYear]
	minEndYear = 2011
	maxEndYear = 2023

	// the requested window is five years ending at the scenario start year;
	// zonal averaging only consumes the first four
	windowYears = 5

	hoursPerYear = 8760
)

// ErrDataSource is returned when the irradiance service answers with a
// non-success response or an unparsable body.
var ErrDataSource = errors.New("irradiance data source error")

// ErrInvalidCoordinates is returned for a latitude/longitude pair outside
// the valid bounds. This is a configuration error and is never retried.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Client implements the API onto the PVGIS irradiance service.
type Client struct {
	httpClient http.Client
	baseURL    string
	logger     *slog.Logger
}

func New(httpClient http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     slog.Default().With("host", baseURL),
	}
}

// FetchOptions tunes the modelled installation the service simulates.
type FetchOptions struct {
	PeakPower float64 // kWp of the modelled installation; defaults to 1.0
	Loss      float64 // system loss percentage; defaults to 14.0
}

// FetchZoneSeries issues one seriescalc request for the given location and
// returns the raw hourly production values: a five year window ending at
// endYear (clamped to the database coverage), at least four full years of
// hourly data on success.
func (c *Client) FetchZoneSeries(lat, lon float64, endYear int, opts FetchOptions) ([]float64, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinates, lat, lon)
	}

	if endYear > maxEndYear {
		endYear = maxEndYear
	}
	if endYear < minEndYear {
		endYear = minEndYear
	}
	startYear := endYear - (windowYears - 1)

	peakPower := opts.PeakPower
	if peakPower == 0 {
		peakPower = 1.0
	}
	loss := opts.Loss
	if loss == 0 {
		loss = 14.0
	}

	url := fmt.Sprintf(
		"%s/seriescalc?lat=%v&lon=%v&startyear=%d&endyear=%d&pvcalculation=1&peakpower=%v&pvtechchoice=crystSi&loss=%v&trackingtype=0&optimalangles=1&outputformat=basic",
		c.baseURL, lat, lon, startYear, endYear, peakPower, loss,
	)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get series: %v", ErrDataSource, err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrDataSource, response.StatusCode)
	}

	values, err := parseBasicSeries(response)
	if err != nil {
		return nil, err
	}

	if len(values) < (windowYears-1)*hoursPerYear {
		return nil, fmt.Errorf("%w: have %d hourly values, need %d", pattern.ErrInsufficientData, len(values), (windowYears-1)*hoursPerYear)
	}

	c.logger.Debug("Fetched irradiance series", "lat", lat, "lon", lon, "start_year", startYear, "end_year", endYear, "values", len(values))

	return values, nil
}

// FetchZones fetches the raw hourly series for every zone in the given
// coordinate map. It fails on the first zone that cannot be fetched.
func (c *Client) FetchZones(coords map[string][2]float64, endYear int, opts FetchOptions) (map[string][]float64, error) {
	series := make(map[string][]float64, len(coords))
	for zone, latlon := range coords {
		values, err := c.FetchZoneSeries(latlon[0], latlon[1], endYear, opts)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", zone, err)
		}
		series[zone] = values
	}
	return series, nil
}

// parseBasicSeries parses the 'basic' output format: two header rows followed
// by comma-separated rows whose second column is the hourly value.
func parseBasicSeries(response *http.Response) ([]float64, error) {
	var values []float64

	scanner := bufio.NewScanner(response.Body)
	line := 0
	for scanner.Scan() {
		line++
		if line <= 2 {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: malformed row %d: %q", ErrDataSource, line, text)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parse row %d: %v", ErrDataSource, line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrDataSource, err)
	}
	return values, nil
}

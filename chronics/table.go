package chronics

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// timestampFormat is the format chronic timestamps are serialized with.
const timestampFormat = "2006-01-02 15:04"

// Table is one chronic table: a timestamp per row and one power series per
// site. It is the in-memory form of the delimited files handed to the grid
// simulator.
type Table struct {
	Times  []time.Time
	Series map[string][]float64
}

// NewTable builds an empty table over the given timestamps.
func NewTable(times []time.Time) Table {
	return Table{
		Times:  times,
		Series: map[string][]float64{},
	}
}

// Add attaches a site's power series to the table. The series must be the
// same length as the timestamp column.
func (t Table) Add(site string, values []float64) error {
	if len(values) != len(t.Times) {
		return fmt.Errorf("series for %q has %d values, table has %d rows", site, len(values), len(t.Times))
	}
	t.Series[site] = values
	return nil
}

// SiteNames returns the site column names in natural order.
func (t Table) SiteNames() []string {
	names := make([]string, 0, len(t.Series))
	for name := range t.Series {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})
	return names
}

// Forecast returns a copy of the table with multiplicative gaussian noise
// applied: each value becomes value * (1 + std * N(0,1)). The draws consume
// the given generator row by row, column by column, so forecast chronics are
// reproducible alongside the realized ones.
func (t Table) Forecast(rng *rand.Rand, std float64) Table {
	names := t.SiteNames()
	out := NewTable(t.Times)
	for _, name := range names {
		out.Series[name] = append([]float64(nil), t.Series[name]...)
	}
	for i := range t.Times {
		for _, name := range names {
			out.Series[name][i] *= 1 + std*rng.NormFloat64()
		}
	}
	return out
}

// dataframe assembles the table into a gota dataframe with the timestamp
// column first and the site columns in natural order.
func (t Table) dataframe() dataframe.DataFrame {
	stamps := make([]string, len(t.Times))
	for i, ts := range t.Times {
		stamps[i] = ts.Format(timestampFormat)
	}

	cols := make([]series.Series, 0, len(t.Series)+1)
	cols = append(cols, series.New(stamps, series.String, "datetime"))
	for _, name := range t.SiteNames() {
		cols = append(cols, series.New(t.Series[name], series.Float, name))
	}
	return dataframe.New(cols...)
}

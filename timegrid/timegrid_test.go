package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		dt        int
		wantErr   bool
		wantSteps int
	}{
		{
			name:      "one week at 5 minute steps",
			start:     "2020-01-06 00:00",
			end:       "2020-01-13 00:00",
			dt:        5,
			wantSteps: 2017,
		},
		{
			name:      "one day at hourly steps",
			start:     "2020-01-06 00:00",
			end:       "2020-01-07 00:00",
			dt:        60,
			wantSteps: 25,
		},
		{
			name:    "dt does not divide one hour",
			start:   "2020-01-06 00:00",
			end:     "2020-01-13 00:00",
			dt:      7,
			wantErr: true,
		},
		{
			name:    "zero dt",
			start:   "2020-01-06 00:00",
			end:     "2020-01-13 00:00",
			dt:      0,
			wantErr: true,
		},
		{
			name:    "end before start",
			start:   "2020-01-13 00:00",
			end:     "2020-01-06 00:00",
			dt:      5,
			wantErr: true,
		},
		{
			name:    "horizon not a whole number of steps",
			start:   "2020-01-06 00:00",
			end:     "2020-01-06 00:07",
			dt:      5,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := New(date(tt.start), date(tt.end), tt.dt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSteps, grid.Steps())
			assert.Equal(t, grid.T, tt.dt*(tt.wantSteps-1))
		})
	}
}

func TestTimesAndHours(t *testing.T) {
	grid, err := New(date("2020-01-06 00:00"), date("2020-01-07 00:00"), 30)
	assert.NoError(t, err)

	times := grid.Times()
	assert.Len(t, times, 49)
	assert.Equal(t, date("2020-01-06 00:00"), times[0])
	assert.Equal(t, date("2020-01-06 00:30"), times[1])
	assert.Equal(t, date("2020-01-07 00:00"), times[48])

	hours := grid.Hours()
	assert.Equal(t, 0, hours[0])
	assert.Equal(t, 0, hours[1])
	assert.Equal(t, 1, hours[2])
	assert.Equal(t, 23, hours[47])
	assert.Equal(t, 0, hours[48])
}

func TestYearOffsets(t *testing.T) {
	grid, err := New(date("2020-01-06 00:00"), date("2020-01-06 01:00"), 15)
	assert.NoError(t, err)

	offsets := grid.YearOffsets()
	// 2020-01-06 00:00 is five whole days into the year
	assert.Equal(t, []float64{7200, 7215, 7230, 7245, 7260}, offsets)
}

func TestDays(t *testing.T) {
	grid, err := New(date("2020-01-06 00:00"), date("2020-01-13 00:00"), 5)
	assert.NoError(t, err)
	assert.Equal(t, 7, grid.Days())
}

package timegrid

import (
	"fmt"
	"math"
	"time"
)

// Grid is the immutable simulation time grid for one scenario: the closed
// interval [Start, End] sampled every Dt minutes.
type Grid struct {
	Start time.Time
	End   time.Time
	Dt    int // step length, minutes
	T     int // horizon length, minutes
}

// New validates and builds a grid. The step length must divide one hour
// evenly: the day-boundary shaping heuristics index hour blocks in units of
// whole steps.
func New(start, end time.Time, dt int) (Grid, error) {
	if dt <= 0 {
		return Grid{}, fmt.Errorf("dt must be positive, got %d", dt)
	}
	if 60%dt != 0 {
		return Grid{}, fmt.Errorf("dt must divide 60 minutes, got %d", dt)
	}
	if !end.After(start) {
		return Grid{}, fmt.Errorf("end date %s is not after start date %s", end, start)
	}
	horizon := int(end.Sub(start).Minutes())
	if horizon%dt != 0 {
		return Grid{}, fmt.Errorf("horizon of %d minutes is not a whole number of %d minute steps", horizon, dt)
	}
	return Grid{Start: start, End: end, Dt: dt, T: horizon}, nil
}

// Steps returns the number of samples on the grid, both endpoints included.
func (g Grid) Steps() int {
	return g.T/g.Dt + 1
}

// Days returns the number of whole days spanned by the grid.
func (g Grid) Days() int {
	return g.T / (24 * 60)
}

// Times returns the timestamp of every step.
func (g Grid) Times() []time.Time {
	times := make([]time.Time, g.Steps())
	for i := range times {
		times[i] = g.Start.Add(time.Duration(i*g.Dt) * time.Minute)
	}
	return times
}

// Hours returns the hour-of-day of every step.
func (g Grid) Hours() []int {
	hours := make([]int, g.Steps())
	for i, t := range g.Times() {
		hours[i] = t.Hour()
	}
	return hours
}

// MinutesSince returns the whole number of minutes from ref to the grid start.
func (g Grid) MinutesSince(ref time.Time) float64 {
	return math.Floor(g.Start.Sub(ref).Minutes())
}

// YearOffsets returns, for every step, the offset in minutes from the start
// of the grid's first calendar year. Reference patterns are anchored to the
// start of the year, so these are the positions the pattern is evaluated at.
func (g Grid) YearOffsets() []float64 {
	yearStart := time.Date(g.Start.Year(), time.January, 1, 0, 0, 0, 0, g.Start.Location())
	startMin := math.Floor(g.Start.Sub(yearStart).Minutes())
	offsets := make([]float64, g.Steps())
	for i := range offsets {
		offsets[i] = startMin + float64(i*g.Dt)
	}
	return offsets
}

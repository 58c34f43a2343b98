package pattern

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cepro/chronicsgen/timegrid"
)

// applyNightMask multiplies the pattern by a mask that is zero during the
// configured night hours. The transition into and out of the night block is
// smoothed with sigmoid ramps spanning one hour of steps: the first daylight
// hour of each morning ramps up, the last daylight hour of each evening ramps
// down. Assumes dt divides one hour evenly, which timegrid.New guarantees.
func applyNightMask(out []float64, grid timegrid.Grid, nightHours []int) {
	hours := grid.Hours()
	stepsPerHour := 60 / grid.Dt

	night := make(map[int]bool, len(nightHours))
	for _, h := range nightHours {
		night[h] = true
	}
	mask := make([]float64, len(hours))
	for i, h := range hours {
		if !night[h] {
			mask[i] = 1
		}
	}

	// one-hour sigmoid ramps centred on the half hour
	left := make([]float64, stepsPerHour)
	right := make([]float64, stepsPerHour)
	for i := 0; i < stepsPerHour; i++ {
		pos := float64(1+i) - 30.0/float64(grid.Dt)
		left[i] = 1 / (1 + math.Exp(1-pos))
		right[i] = 1 / (1 + math.Exp(1+pos))
	}

	nbDays := grid.Days()

	// morning border: the first daylight hour after the night block
	firstDaylight := -1
	for _, h := range nightHours {
		if h <= 12 && h+1 > firstDaylight {
			firstDaylight = h + 1
		}
	}
	if firstDaylight >= 0 {
		allLeft := tile(left, nbDays)
		idx := indicesOfHour(hours, firstDaylight)
		for j, i := range idx {
			if j < len(allLeft) {
				mask[i] = allLeft[j]
			} else {
				mask[i] = 0
			}
		}
	}

	// evening border: the last daylight hour before the night block
	lastDaylight := -1
	for _, h := range nightHours {
		if h >= 12 && (lastDaylight < 0 || h-1 < lastDaylight) {
			lastDaylight = h - 1
		}
	}
	if lastDaylight >= 0 {
		allRight := tile(right, nbDays)
		idx := indicesOfHour(hours, lastDaylight)
		pad := len(idx) - len(allRight)
		if pad < 0 {
			allRight = allRight[-pad:]
			pad = 0
		}
		for j, i := range idx {
			if j < pad {
				mask[i] = 0
			} else {
				mask[i] = allRight[j-pad]
			}
		}
	}

	for i := range out {
		out[i] *= mask[i]
	}
}

// applyForceZero zeroes every step whose hour of day falls outside the
// observed daylight interval: the earliest and latest hours where output
// still exceeds 5% of its maximum, widened outward by the given margin.
func applyForceZero(out []float64, hours []int, margin int) {
	if len(out) == 0 {
		return
	}
	threshold := floats.Max(out) * 0.05

	minHour, maxHour := math.MaxInt, math.MinInt
	for i, v := range out {
		if v >= threshold {
			if hours[i] < minHour {
				minHour = hours[i]
			}
			if hours[i] > maxHour {
				maxHour = hours[i]
			}
		}
	}
	if minHour > maxHour {
		return
	}
	maxHour += margin
	minHour -= margin
	for i := range out {
		if hours[i] >= maxHour || hours[i] <= minHour {
			out[i] = 0
		}
	}
}

func tile(ramp []float64, n int) []float64 {
	out := make([]float64, 0, len(ramp)*n)
	for i := 0; i < n; i++ {
		out = append(out, ramp...)
	}
	return out
}

func indicesOfHour(hours []int, hour int) []int {
	var idx []int
	for i, h := range hours {
		if h == hour {
			idx = append(idx, i)
		}
	}
	return idx
}

package synthesis

import "math"

// Smooth applies the bounded smoothing transform 1 - exp(-x) elementwise,
// returning a new slice. It compresses large combined-signal values towards
// an asymptote at 1 while leaving values near zero essentially unchanged, so
// the exponential combination step cannot push a site past its capacity.
func Smooth(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 1 - math.Exp(-v)
	}
	return out
}

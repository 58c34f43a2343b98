package noise

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/interp"

	"github.com/cepro/chronicsgen/timegrid"
)

// Spatial describes the coarse geometry of a noise field: the extent of the
// modelled region and the correlation distances at which independent values
// are drawn.
type Spatial struct {
	Lx     float64 // horizontal extent of the region
	Ly     float64 // vertical extent of the region
	DxCorr float64 // correlation distance along x
	DyCorr float64 // correlation distance along y
}

// Field is a spatially and temporally correlated gaussian noise field.
// Independent N(0,1) draws are made on a coarse grid whose mesh matches the
// correlation lengths, and samples anywhere in the region are interpolated
// from those draws. All randomness comes from the generator passed to
// NewField: two fields built from identically-seeded generators are
// identical, which is what makes scenario generation reproducible.
type Field struct {
	spatial   Spatial
	timeScale float64
	grid      timegrid.Grid

	nx, ny, nt int
	draws      []float64 // knot values, x-major then y then t
}

// NewField draws the coarse noise values for the whole region and horizon.
// timeScale is the correlation time in minutes: independent values are drawn
// every timeScale minutes and interpolated in between. The draw order is
// fixed, so the number of values consumed from rng depends only on the
// geometry and the horizon.
func NewField(rng *rand.Rand, grid timegrid.Grid, spatial Spatial, timeScale float64) *Field {
	nx := int(spatial.Lx/spatial.DxCorr) + 2
	ny := int(spatial.Ly/spatial.DyCorr) + 2
	nt := int(float64(grid.T)/timeScale) + 2

	draws := make([]float64, nx*ny*nt)
	for i := range draws {
		draws[i] = rng.NormFloat64()
	}

	return &Field{
		spatial:   spatial,
		timeScale: timeScale,
		grid:      grid,
		nx:        nx,
		ny:        ny,
		nt:        nt,
		draws:     draws,
	}
}

func (f *Field) knotValue(ix, iy, it int) float64 {
	return f.draws[(ix*f.ny+iy)*f.nt+it]
}

// At samples the field at the given location, returning one value per grid
// step. The four coarse knots surrounding the location are each resampled in
// time with a cubic spline and the results combined bilinearly.
func (f *Field) At(x, y float64) []float64 {
	ix, wx := knot(x, f.spatial.DxCorr, f.nx)
	iy, wy := knot(y, f.spatial.DyCorr, f.ny)

	knotTimes := make([]float64, f.nt)
	for it := range knotTimes {
		knotTimes[it] = float64(it) * f.timeScale
	}

	steps := f.grid.Steps()
	corner := func(ix, iy int) []float64 {
		vals := make([]float64, f.nt)
		for it := 0; it < f.nt; it++ {
			vals[it] = f.knotValue(ix, iy, it)
		}
		var spline interp.NaturalCubic
		if err := spline.Fit(knotTimes, vals); err != nil {
			// knot times are strictly increasing by construction
			panic(err)
		}
		out := make([]float64, steps)
		for i := range out {
			out[i] = spline.Predict(float64(i * f.grid.Dt))
		}
		return out
	}

	s00 := corner(ix, iy)
	s10 := corner(ix+1, iy)
	s01 := corner(ix, iy+1)
	s11 := corner(ix+1, iy+1)

	out := make([]float64, steps)
	for i := range out {
		out[i] = (1-wx)*(1-wy)*s00[i] + wx*(1-wy)*s10[i] + (1-wx)*wy*s01[i] + wx*wy*s11[i]
	}
	return out
}

// knot returns the index of the coarse knot at or below v along one axis and
// the fractional distance towards the next knot, clamped to the grid edges.
func knot(v, corr float64, n int) (int, float64) {
	pos := v / corr
	i := int(math.Floor(pos))
	if i < 0 {
		return 0, 0
	}
	if i >= n-1 {
		return n - 2, 1
	}
	return i, pos - float64(i)
}

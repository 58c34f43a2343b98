package renewable

import "math/rand"

// Seeds derives one seed per scenario from the master seed. Scenario N always
// gets the same seed regardless of how many scenarios are generated, so a
// single scenario can be regenerated in isolation.
func Seeds(master int64, n int) []int64 {
	rng := rand.New(rand.NewSource(master))
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}

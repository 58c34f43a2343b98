package chronics

import (
	"strconv"
	"unicode"
)

// naturalLess compares two strings treating runs of digits as numbers, so
// "gen_2_1" sorts before "gen_10_1".
func naturalLess(a, b string) bool {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		achunk, anum, anext := chunk(a, ai)
		bchunk, bnum, bnext := chunk(b, bi)

		if anum >= 0 && bnum >= 0 {
			if anum != bnum {
				return anum < bnum
			}
		} else if achunk != bchunk {
			return achunk < bchunk
		}
		ai, bi = anext, bnext
	}
	return len(a)-ai < len(b)-bi
}

// chunk returns the next maximal run of digits or non-digits starting at i,
// the parsed number (-1 for a non-digit run), and the index after the run.
func chunk(s string, i int) (string, int, int) {
	j := i
	isDigit := unicode.IsDigit(rune(s[i]))
	for j < len(s) && unicode.IsDigit(rune(s[j])) == isDigit {
		j++
	}
	part := s[i:j]
	if !isDigit {
		return part, -1, j
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		// digit run too long for an int; fall back to string comparison
		return part, -1, j
	}
	return part, n, j
}

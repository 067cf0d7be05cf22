package cursor

import (
	"errors"
	"math"
)

const maxInt64 = math.MaxInt64
const minInt64Abs = uint64(math.MaxInt64) + 1 // abs(math.MinInt64)

// parseDecimal parses an unsigned ASCII-digit run (no sign byte) into a
// signed int64, applying neg afterwards. It fails on overflow rather than
// wrapping, per §4.6 of the spec.
func parseDecimal(digits []byte, neg bool) (int64, error) {
	var mag uint64
	for _, d := range digits {
		digit := uint64(d - '0')
		if mag > (math.MaxUint64-digit)/10 {
			return 0, errors.New("integer overflow")
		}
		mag = mag*10 + digit
	}
	if neg {
		if mag > minInt64Abs {
			return 0, errors.New("integer overflow")
		}
		if mag == minInt64Abs {
			return math.MinInt64, nil
		}
		return -int64(mag), nil
	}
	if mag > maxInt64 {
		return 0, errors.New("integer overflow")
	}
	return int64(mag), nil
}

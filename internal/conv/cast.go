package conv

import (
	"fmt"
	"math"
)

// IntToInt32 converts int to int32 safely.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// Int64ToInt converts int64 to int safely.
func Int64ToInt(v int64) (int, error) {
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int", v)
	}
	return int(v), nil
}

// MulInt multiplies non-negative ints, failing on overflow. It is used for
// record-size arithmetic (rows * width * element size).
func MulInt(factors ...int) (int, error) {
	product := 1
	for _, f := range factors {
		if f < 0 {
			return 0, fmt.Errorf("negative factor: %d", f)
		}
		if f != 0 && product > math.MaxInt/f {
			return 0, fmt.Errorf("integer overflow: product of %v exceeds int", factors)
		}
		product *= f
	}
	return product, nil
}

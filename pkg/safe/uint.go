// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Integer lists the integer kinds the conversions accept.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Uint32 converts signed or unsigned integers to uint32 with range validation.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, outOfRange(v, "uint32")
	}
	return uint32(v), nil
}

// Uint64 converts signed or unsigned integers to uint64 while guarding against negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, outOfRange(v, "uint64")
	}
	return uint64(v), nil
}

// Int converts to int, rejecting values the platform int cannot hold.
func Int[T Integer](v T) (int, error) {
	if v > 0 && uint64(v) > math.MaxInt {
		return 0, outOfRange(v, "int")
	}
	if v < 0 && int64(v) < math.MinInt {
		return 0, outOfRange(v, "int")
	}
	return int(v), nil
}

func outOfRange[T Integer](v T, target string) error {
	return fmt.Errorf("value %d out of %s range", v, target)
}

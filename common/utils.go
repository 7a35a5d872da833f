package common

import "math"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ScaleSize multiplies a logical size by a pixel ratio and rounds each side to the nearest
// whole pixel, never returning less than 1 for a valid input.
//
// Parameters:
//   - s: the logical size
//   - ratio: the pixel ratio, values <= 0 are treated as 1
//
// Returns:
//   - Size: the physical size
func ScaleSize(s Size, ratio float64) Size {
	if ratio <= 0 {
		ratio = 1
	}
	return Size{
		Width:  max(1, int(math.Round(float64(s.Width)*ratio))),
		Height: max(1, int(math.Round(float64(s.Height)*ratio))),
	}
}

package market

import "math"

// clamp restricts value to [lo, hi]; NaN/Inf default to the midpoint,
// the same numeric-safety rule services/math_utils.go applies.
func clamp(value, lo, hi float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return (lo + hi) / 2
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

//go:build linux

package util

import "math"

// DeltaU64 returns now-prev for a monotonic counter, or 0 when the counter
// went backwards (wrap, reset or a reused pid).
func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	// counter wrapped or prev unset
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// NonNegative maps negative values and NaN to 0.
func NonNegative(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

//go:build linux

package sampler

import "github.com/ja7ad/proctop/pkg/system/util"

// ProcessCPU computes a process's CPU percentage for one interval.
//
// curr is the process's cumulative utime+stime, prev the value seen on the
// previous cycle (0 for a process not seen before, which yields its lifetime
// average once). activeDelta and activeFraction come from CPUAccountant.
// The returned ticks are the basis for the next cycle.
func ProcessCPU(curr, prev uint64, activeDelta, activeFraction float64, mode Mode) (float64, uint64) {
	if activeDelta <= 0 {
		return 0, curr
	}

	pct := float64(util.DeltaU64(curr, prev)) / activeDelta * 100
	switch mode {
	case ModeOverallTotal:
		pct *= util.Clamp01(activeFraction)
	case ModeCurrentTotal:
	}
	return util.NonNegative(pct), curr
}

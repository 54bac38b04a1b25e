//go:build linux

package sampler

import (
	"github.com/ja7ad/proctop/pkg/system/proc"
	"github.com/ja7ad/proctop/pkg/system/util"
)

// activeSentinel replaces an active delta of exactly zero so that a fully
// idle interval stays distinguishable from "no data yet" (which is 0).
const activeSentinel = 1

// CPUAccountant turns the cumulative /proc/stat counters into the active
// tick delta and active fraction of the interval since the previous call.
// The zero value is ready to use. Not safe for concurrent use.
type CPUAccountant struct {
	prevIdle    float64
	prevNonIdle float64
	primed      bool
}

// Update consumes the current counters and returns:
//   - activeDelta: non-idle ticks elapsed since the previous call, or the
//     sentinel 1 when none elapsed;
//   - activeFraction: activeDelta over all ticks elapsed, in [0,1], or 0 when
//     the tick counter did not advance.
//
// The first call has no basis and returns (0, 0). So does a call whose
// counters are lower than the previous ones; that call becomes the new basis.
func (a *CPUAccountant) Update(t proc.CPUTimes) (activeDelta, activeFraction float64) {
	idle, nonIdle := t.IdleTicks(), t.NonIdleTicks()

	prevIdle := a.prevIdle
	prevTotal := a.prevIdle + a.prevNonIdle
	primed := a.primed
	a.prevIdle, a.prevNonIdle, a.primed = idle, nonIdle, true

	if !primed {
		return 0, 0
	}

	totalDelta := idle + nonIdle - prevTotal
	if totalDelta < 0 {
		return 0, 0
	}
	idleDelta := idle - prevIdle

	activeDelta = totalDelta - idleDelta
	if activeDelta == 0 {
		activeDelta = activeSentinel
	}
	if totalDelta == 0 {
		return activeDelta, 0
	}
	return activeDelta, util.Clamp01(activeDelta / totalDelta)
}

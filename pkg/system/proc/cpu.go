//go:build linux

package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CPUTimes is the aggregate "cpu" line of /proc/stat, in jiffies since boot.
// The counters are monotonic; take deltas between samples.
type CPUTimes struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// IdleTicks returns idle + iowait.
func (t CPUTimes) IdleTicks() float64 {
	return float64(t.Idle) + float64(t.IOWait)
}

// NonIdleTicks returns user + nice + system + irq + softirq + steal.
func (t CPUTimes) NonIdleTicks() float64 {
	return float64(t.User) + float64(t.Nice) + float64(t.System) +
		float64(t.IRQ) + float64(t.SoftIRQ) + float64(t.Steal)
}

// CPUTimes reads the aggregate CPU line of /proc/stat.
//
// An open or read failure is returned as is. A file whose first line is
// not the aggregate "cpu" line yields ErrMalformedCPU.
func (fs FS) CPUTimes() (CPUTimes, error) {
	f, err := os.Open(fs.path("stat"))
	if err != nil {
		return CPUTimes{}, err
	}
	defer f.Close()

	return ParseCPUTimes(f)
}

// ParseCPUTimes parses the first line of a /proc/stat stream:
//
//	cpu  user nice system idle iowait irq softirq steal [guest guest_nice]
//
// Kernels older than 2.6.11 omit the trailing columns; missing ones read as 0.
func ParseCPUTimes(r io.Reader) (CPUTimes, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return CPUTimes{}, err
		}
		return CPUTimes{}, fmt.Errorf("%w: empty", ErrMalformedCPU)
	}

	fs := strings.Fields(sc.Text())
	if len(fs) == 0 || fs[0] != "cpu" {
		return CPUTimes{}, fmt.Errorf("%w: %q", ErrMalformedCPU, sc.Text())
	}
	if len(fs) < 5 {
		return CPUTimes{}, fmt.Errorf("%w: %d columns", ErrMalformedCPU, len(fs)-1)
	}

	var vals [8]uint64
	for i := 0; i < len(vals) && i+1 < len(fs); i++ {
		v, err := strconv.ParseUint(fs[i+1], 10, 64)
		if err != nil {
			return CPUTimes{}, fmt.Errorf("%w: %v", ErrMalformedCPU, err)
		}
		vals[i] = v
	}

	return CPUTimes{
		User:    vals[0],
		Nice:    vals[1],
		System:  vals[2],
		Idle:    vals[3],
		IOWait:  vals[4],
		IRQ:     vals[5],
		SoftIRQ: vals[6],
		Steal:   vals[7],
	}, nil
}

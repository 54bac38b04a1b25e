//go:build linux

// Package host reads host-wide values the sampler consumes opaquely:
// total memory, summed network byte counters and a one-line host summary.
package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v3/common"
	"github.com/shirou/gopsutil/v3/cpu"
	gopshost "github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"

	"github.com/ja7ad/proctop/pkg/types"
)

// ErrNoMemory is returned when meminfo is missing or reports no MemTotal.
var ErrNoMemory = errors.New("host: total memory unknown")

// Stats implements the sampler's host collaborator on top of gopsutil.
type Stats struct {
	ctx context.Context
}

// New returns a gopsutil-backed Stats reading procfs under procRoot.
// An empty procRoot keeps gopsutil's default (HOST_PROC or /proc).
func New(procRoot string) *Stats {
	ctx := context.Background()
	if procRoot != "" {
		ctx = context.WithValue(ctx, common.EnvKey, common.EnvMap{common.HostProcEnvKey: procRoot})
	}
	return &Stats{ctx: ctx}
}

// TotalMemory returns physical memory in bytes.
func (s *Stats) TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(s.ctx)
	if err != nil {
		return 0, fmt.Errorf("host: virtual memory: %w", err)
	}
	// gopsutil reads a missing meminfo as all zeroes
	if vm.Total == 0 {
		return 0, ErrNoMemory
	}
	return vm.Total, nil
}

// NetIO returns bytes received and sent, summed over every interface.
func (s *Stats) NetIO() (rx, tx uint64, err error) {
	counters, err := gopsnet.IOCountersWithContext(s.ctx, false)
	if err != nil {
		return 0, 0, fmt.Errorf("host: net counters: %w", err)
	}
	// pernic=false yields a single "all" entry; sum anyway in case a
	// platform returns one row per interface.
	for _, c := range counters {
		rx += c.BytesRecv
		tx += c.BytesSent
	}
	return rx, tx, nil
}

// Summary returns hostname, kernel, logical CPU count and total memory,
// formatted for a header line. Unknown values read as "?".
func (s *Stats) Summary() (hostname, kernel, cpus, memory string) {
	hostname, kernel, cpus, memory = "?", "?", "?", "?"

	if info, err := gopshost.InfoWithContext(s.ctx); err == nil {
		hostname = info.Hostname
		kernel = info.KernelVersion
		if info.Platform != "" {
			kernel = info.Platform + " " + info.PlatformVersion + " / " + info.KernelVersion
		}
	}
	if n, err := cpu.CountsWithContext(s.ctx, true); err == nil {
		cpus = strconv.Itoa(n)
	}
	if total, err := s.TotalMemory(); err == nil {
		memory = fmt.Sprintf("%.1f GB", types.ToBytes(total).GB())
	}
	return hostname, kernel, cpus, memory
}

//go:build linux

package sampler

import (
	"github.com/ja7ad/proctop/pkg/system/cgroup"
	"github.com/ja7ad/proctop/pkg/system/proc"
	"github.com/ja7ad/proctop/pkg/system/util"
	"github.com/ja7ad/proctop/pkg/types"
)

// Ports joins a process's descriptors against the socket table and returns
// the local ports of its TCP and UDP sockets, in descriptor order and
// without deduplication. Each descriptor costs two map lookups.
func Ports(fds []proc.FD, tbl *SocketTable) (tcp, udp []int) {
	tcp, udp = []int{}, []int{}
	for _, fd := range fds {
		inode, err := fd.SocketInode()
		if err != nil {
			continue
		}
		if s, ok := tbl.TCP[inode]; ok {
			tcp = append(tcp, s.LocalPort)
		}
		if s, ok := tbl.UDP[inode]; ok {
			udp = append(udp, s.LocalPort)
		}
	}
	return tcp, udp
}

// MemPercent returns rss as a percentage of total memory, or 0 when the
// total is unknown.
func MemPercent(rss, total uint64) float64 {
	return util.SafeDiv(float64(rss), float64(total)) * 100
}

// Enricher turns raw processes into samples for one cycle. Every process
// of the cycle is enriched against the same socket table and CPU figures.
type Enricher struct {
	Sockets        *SocketTable
	Mode           Mode
	ActiveDelta    float64
	ActiveFraction float64
	TotalMemory    uint64
	PageSize       uint64
	NetReceived    uint64
	NetSent        uint64
}

// Enrich builds the sample for raw given the ticks recorded for it on the
// previous cycle, and returns the ticks to record for the next one.
func (e *Enricher) Enrich(raw RawProcess, prevTicks uint64) (ProcessSample, uint64) {
	cpu, ticks := ProcessCPU(raw.Stat.Ticks(), prevTicks, e.ActiveDelta, e.ActiveFraction, e.Mode)
	rss := raw.Stat.RSSPages * e.PageSize
	tcp, udp := Ports(raw.FDs, e.Sockets)

	s := ProcessSample{
		PID:         raw.Stat.PID,
		PPID:        raw.Stat.PPID,
		CPUPercent:  cpu,
		MemPercent:  MemPercent(rss, e.TotalMemory),
		RSS:         types.ToBytes(rss),
		NetReceived: types.ToBytes(e.NetReceived),
		NetSent:     types.ToBytes(e.NetSent),
		Name:        raw.Name,
		Command:     raw.Command,
		State:       StateOf(raw.Stat.State),
		UID:         raw.UID,
		Priority:    raw.Stat.Priority,
		Nice:        raw.Stat.Nice,
		TCPPorts:    tcp,
		UDPPorts:    udp,
		Cgroup:      raw.Cgroup,
		Container:   cgroup.Runtime(raw.Cgroup),
	}
	if raw.IO != nil {
		s.DiskIO = &DiskIO{
			Read:  types.ToBytes(raw.IO.ReadBytes),
			Write: types.ToBytes(raw.IO.WriteBytes),
		}
	}
	return s, ticks
}

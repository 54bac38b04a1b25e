//go:build linux

package sampler

import (
	"encoding/json"
	"time"

	"github.com/ja7ad/proctop/pkg/types"
)

// Mode selects how per-process CPU percentages are scaled.
type Mode int

const (
	// ModeOverallTotal scales a process's share of the active CPU time by how
	// busy the CPU was overall, so numbers shrink on a mostly idle host.
	ModeOverallTotal Mode = iota
	// ModeCurrentTotal reports a process's share of the active CPU time of
	// the interval.
	ModeCurrentTotal
)

// ModeFor maps the "use current cpu total" flag onto a Mode.
func ModeFor(currentTotal bool) Mode {
	if currentTotal {
		return ModeCurrentTotal
	}
	return ModeOverallTotal
}

func (m Mode) String() string {
	switch m {
	case ModeCurrentTotal:
		return "current-total"
	case ModeOverallTotal:
		return "overall-total"
	default:
		return "unknown"
	}
}

// State is a process state: the raw code from stat and a human label.
type State struct {
	Code  byte
	Label string
}

var stateLabels = map[byte]string{
	'R': "Running",
	'S': "Sleeping",
	'D': "Disk Sleep",
	'Z': "Zombie",
	'T': "Stopped",
	't': "Tracing Stop",
	'X': "Dead",
	'x': "Dead",
	'K': "Wakekill",
	'W': "Waking",
	'P': "Parked",
	'I': "Idle",
}

// StateOf labels a raw state code.
func StateOf(code byte) State {
	label, ok := stateLabels[code]
	if !ok {
		label = "Unknown"
	}
	return State{Code: code, Label: label}
}

func (s State) String() string { return string(s.Code) }

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code  string `json:"code"`
		Label string `json:"label"`
	}{string(s.Code), s.Label})
}

// DiskIO holds cumulative storage bytes of a process.
type DiskIO struct {
	Read  types.Bytes `json:"read"`
	Write types.Bytes `json:"write"`
}

// ProcessSample is one process as seen by one sampling cycle. It is never
// mutated after construction.
type ProcessSample struct {
	PID        int         `json:"pid"`
	PPID       int         `json:"ppid"`
	CPUPercent float64     `json:"cpu_percent"`
	MemPercent float64     `json:"mem_percent"`
	RSS        types.Bytes `json:"rss"`
	// DiskIO is nil when the counters could not be read (permission
	// denied, kernel thread), which is not the same as zero bytes.
	DiskIO *DiskIO `json:"disk_io,omitempty"`
	// System-wide totals, copied onto each sample for display.
	NetReceived types.Bytes `json:"net_received"`
	NetSent     types.Bytes `json:"net_sent"`
	Name        string      `json:"name"`
	Command     string      `json:"command"`
	State       State       `json:"state"`
	UID         *uint32     `json:"uid,omitempty"`
	Priority    int64       `json:"priority"`
	Nice        int64       `json:"nice"`
	// Local ports of the process's sockets, in descriptor order. A process
	// holding two descriptors for one socket lists its port twice.
	TCPPorts []int `json:"tcp_ports"`
	UDPPorts []int `json:"udp_ports"`
	// Cgroup path, and the container runtime it belongs to if any.
	Cgroup    string `json:"cgroup,omitempty"`
	Container string `json:"container,omitempty"`
}

// Snapshot is one complete sampling cycle, sorted by CPUPercent descending.
// It is immutable once produced.
type Snapshot struct {
	TakenAt     time.Time       `json:"taken_at"`
	Processes   []ProcessSample `json:"processes"`
	NetReceived types.Bytes     `json:"net_received"`
	NetSent     types.Bytes     `json:"net_sent"`
}

//go:build linux

package sampler

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

// commMaxLen is the longest comm the kernel reports (TASK_COMM_LEN - 1).
const commMaxLen = 15

// ProcessSource is the per-process side of procfs.
type ProcessSource interface {
	PIDs() ([]int, error)
	Stat(pid int) (proc.Stat, error)
	Cmdline(pid int) ([]string, error)
	IO(pid int) (proc.IO, error)
	FDs(pid int) ([]proc.FD, error)
	Owner(pid int) (uint32, error)
	Cgroup(pid int) (string, error)
}

// RawProcess is what one cycle read about one process, before any
// accounting. Optional reads that failed are nil.
type RawProcess struct {
	Stat    proc.Stat
	Name    string
	Command string
	UID     *uint32
	IO      *proc.IO
	FDs     []proc.FD
	Cgroup  string
}

// ProcessSampler enumerates processes and reads their details.
type ProcessSampler struct {
	src ProcessSource
	log *slog.Logger
}

// NewProcessSampler returns a sampler reading from src.
func NewProcessSampler(src ProcessSource, log *slog.Logger) *ProcessSampler {
	if log == nil {
		log = slog.Default()
	}
	return &ProcessSampler{src: src, log: log}
}

// Enumerate reads every process visible to the caller. A process whose stat
// cannot be read (it exited after being listed, or is hidden) is left out.
// Only a failure to list processes at all is returned.
func (s *ProcessSampler) Enumerate() ([]RawProcess, error) {
	pids, err := s.src.PIDs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumerate, err)
	}

	out := make([]RawProcess, 0, len(pids))
	for _, pid := range pids {
		raw, ok := s.read(pid)
		if !ok {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *ProcessSampler) read(pid int) (RawProcess, bool) {
	st, err := s.src.Stat(pid)
	if err != nil {
		s.log.Debug("skip process", "pid", pid, "err", err)
		return RawProcess{}, false
	}
	st.PID = pid

	args, _ := s.src.Cmdline(pid)
	raw := RawProcess{Stat: st}
	raw.Name, raw.Command = ResolveName(st.Comm, args)

	if uid, err := s.src.Owner(pid); err == nil {
		raw.UID = &uid
	}
	if pio, err := s.src.IO(pid); err == nil {
		raw.IO = &pio
	}
	if fds, err := s.src.FDs(pid); err == nil {
		raw.FDs = fds
	}
	if cg, err := s.src.Cgroup(pid); err == nil {
		raw.Cgroup = cg
	}
	return raw, true
}

// ResolveName derives the display name and full command of a process from
// its kernel short name and argument vector.
//
// An empty argument vector (kernel thread, zombie) gives the command
// "[comm]". Otherwise the command is the joined arguments, and the name is
// comm unless the kernel truncated it, in which case the last path segment
// of the first argument is used.
func ResolveName(comm string, args []string) (name, command string) {
	if len(args) == 0 {
		return comm, "[" + comm + "]"
	}

	name = comm
	if len(comm) >= commMaxLen {
		if base := filepath.Base(args[0]); base != "." && base != "/" {
			name = base
		}
	}
	return name, strings.Join(args, " ")
}

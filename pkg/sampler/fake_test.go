//go:build linux

package sampler

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

// fakeProc is one process of a fakeSource. Nil optional fields make the
// matching read fail.
type fakeProc struct {
	stat proc.Stat
	args []string
	io   *proc.IO
	fds  []proc.FD
	uid  *uint32
	cg   string
}

// fakeSource is an in-memory procfs. Tables missing from tables fail to
// open like a disabled protocol family.
type fakeSource struct {
	cpu     proc.CPUTimes
	cpuErr  error
	pidsErr error
	procs   map[int]fakeProc
	tables  map[string][]proc.NetSocket
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		procs:  make(map[int]fakeProc),
		tables: make(map[string][]proc.NetSocket),
	}
}

func (f *fakeSource) CPUTimes() (proc.CPUTimes, error) { return f.cpu, f.cpuErr }

func (f *fakeSource) PIDs() ([]int, error) {
	if f.pidsErr != nil {
		return nil, f.pidsErr
	}
	pids := make([]int, 0, len(f.procs))
	for pid := range f.procs {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

func (f *fakeSource) Stat(pid int) (proc.Stat, error) {
	p, ok := f.procs[pid]
	if !ok {
		return proc.Stat{}, os.ErrNotExist
	}
	if p.stat.Comm == "" {
		return proc.Stat{}, proc.ErrNoStat
	}
	return p.stat, nil
}

func (f *fakeSource) Cmdline(pid int) ([]string, error) {
	p, ok := f.procs[pid]
	if !ok {
		return nil, os.ErrNotExist
	}
	return p.args, nil
}

func (f *fakeSource) IO(pid int) (proc.IO, error) {
	p, ok := f.procs[pid]
	if !ok || p.io == nil {
		return proc.IO{}, os.ErrPermission
	}
	return *p.io, nil
}

func (f *fakeSource) FDs(pid int) ([]proc.FD, error) {
	p, ok := f.procs[pid]
	if !ok || p.fds == nil {
		return nil, os.ErrPermission
	}
	return p.fds, nil
}

func (f *fakeSource) Owner(pid int) (uint32, error) {
	p, ok := f.procs[pid]
	if !ok || p.uid == nil {
		return 0, os.ErrNotExist
	}
	return *p.uid, nil
}

func (f *fakeSource) Cgroup(pid int) (string, error) {
	p, ok := f.procs[pid]
	if !ok || p.cg == "" {
		return "", os.ErrNotExist
	}
	return p.cg, nil
}

func (f *fakeSource) NetSockets(table string) ([]proc.NetSocket, error) {
	rows, ok := f.tables[table]
	if !ok {
		return nil, os.ErrNotExist
	}
	return rows, nil
}

// put adds or replaces a process with the given comm and cumulative ticks.
func (f *fakeSource) put(pid int, comm string, ticks uint64) {
	p := f.procs[pid]
	p.stat.PID = pid
	p.stat.Comm = comm
	p.stat.State = 'S'
	p.stat.UTime = ticks
	p.stat.STime = 0
	f.procs[pid] = p
}

type fakeHost struct {
	total    uint64
	totalErr error
	rx, tx   uint64
	netErr   error
}

func (h *fakeHost) TotalMemory() (uint64, error) { return h.total, h.totalErr }

func (h *fakeHost) NetIO() (uint64, uint64, error) { return h.rx, h.tx, h.netErr }

var errBoom = errors.New("boom")

func socketFDs(inodes ...uint64) []proc.FD {
	fds := make([]proc.FD, 0, len(inodes))
	for i, inode := range inodes {
		fds = append(fds, proc.FD{Num: i + 3, Target: "socket:[" + strconv.FormatUint(inode, 10) + "]"})
	}
	return fds
}

// bufLogger returns a debug-level logger writing into the returned buffer.
func bufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FD is one entry of /proc/<pid>/fd: the descriptor number and its link target.
type FD struct {
	Num    int
	Target string
}

// SocketInode returns the socket inode the descriptor refers to.
func (f FD) SocketInode() (uint64, error) {
	return ParseSocketLink(f.Target)
}

// FDs lists the open descriptors of a process in ascending descriptor order.
// Descriptors closed while the directory is being walked are skipped.
func (fs FS) FDs(pid int) ([]FD, error) {
	dir := fs.pidPath(pid, "fd")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	fds := make([]FD, 0, len(entries))
	for _, e := range entries {
		num, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		fds = append(fds, FD{Num: num, Target: target})
	}
	sort.Slice(fds, func(i, j int) bool { return fds[i].Num < fds[j].Num })
	return fds, nil
}

// ParseSocketLink extracts N from a "socket:[N]" descriptor link.
func ParseSocketLink(target string) (uint64, error) {
	if !strings.HasPrefix(target, "socket:[") || !strings.HasSuffix(target, "]") {
		return 0, ErrNotSocket
	}
	inode := strings.TrimSuffix(strings.TrimPrefix(target, "socket:["), "]")
	return strconv.ParseUint(inode, 10, 64)
}

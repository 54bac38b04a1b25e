//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
)

// DefaultRoot is the procfs mount point.
const DefaultRoot = "/proc"

// FS reads procfs rooted at a directory. The zero value is not usable;
// construct one with NewFS. Tests point it at a fixture tree.
type FS struct {
	root string
}

// NewFS returns an FS rooted at root, or at DefaultRoot when root is empty.
func NewFS(root string) FS {
	if root == "" {
		root = DefaultRoot
	}
	return FS{root: root}
}

// Root returns the directory the FS reads from.
func (fs FS) Root() string { return fs.root }

func (fs FS) path(elem ...string) string {
	return filepath.Join(append([]string{fs.root}, elem...)...)
}

func (fs FS) pidPath(pid int, elem ...string) string {
	return fs.path(append([]string{strconv.Itoa(pid)}, elem...)...)
}

// PageSize returns the system memory page size in bytes.
// It first checks an env override (PAGE_SIZE) to ease testing,
// then falls back to os.Getpagesize().
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return os.Getpagesize()
}

// PIDs lists the numeric entries of the proc root in ascending order.
// A failure to read the root itself is returned; anything that is not a
// pid directory is ignored.
func (fs FS) PIDs() ([]int, error) {
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		return nil, err
	}

	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// Owner returns the uid owning /proc/<pid>, which is the process's real uid.
func (fs FS) Owner(pid int) (uint32, error) {
	info, err := os.Stat(fs.pidPath(pid))
	if err != nil {
		return 0, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, os.ErrInvalid
	}
	return st.Uid, nil
}

//go:build linux

package proc

import (
	"os"

	"github.com/ja7ad/proctop/pkg/system/cgroup"
)

// Cgroup returns the cgroup path of a process.
func (fs FS) Cgroup(pid int) (string, error) {
	f, err := os.Open(fs.pidPath(pid, "cgroup"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	return cgroup.ParseProcCgroup(f)
}

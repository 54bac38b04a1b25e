//go:build linux

package proc

import (
	"os"
	"strings"
)

// Cmdline returns the argument vector of a process. Kernel threads and
// zombies have an empty command line and yield an empty slice.
func (fs FS) Cmdline(pid int) ([]string, error) {
	b, err := os.ReadFile(fs.pidPath(pid, "cmdline"))
	if err != nil {
		return nil, err
	}
	return ParseCmdline(b), nil
}

// ParseCmdline splits a NUL-separated cmdline buffer, dropping empty arguments.
func ParseCmdline(b []byte) []string {
	parts := strings.Split(string(b), "\x00")
	args := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			args = append(args, p)
		}
	}
	return args
}

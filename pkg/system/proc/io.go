//go:build linux

package proc

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// IO holds the storage counters of /proc/<pid>/io, in bytes since start.
type IO struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// IO reads /proc/<pid>/io.
//
// Note: the file is only readable by the process owner (or with
// CAP_SYS_PTRACE), so expect permission errors for other users' processes.
func (fs FS) IO(pid int) (IO, error) {
	f, err := os.Open(fs.pidPath(pid, "io"))
	if err != nil {
		return IO{}, err
	}
	defer f.Close()

	return ParseIO(f)
}

// ParseIO extracts read_bytes and write_bytes from an io stream.
func ParseIO(r io.Reader) (IO, error) {
	var (
		out   IO
		found bool
		sc    = bufio.NewScanner(r)
	)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "read_bytes:") {
			v := strings.TrimSpace(strings.TrimPrefix(line, "read_bytes:"))
			out.ReadBytes, _ = strconv.ParseUint(v, 10, 64)
			found = true
		} else if strings.HasPrefix(line, "write_bytes:") {
			v := strings.TrimSpace(strings.TrimPrefix(line, "write_bytes:"))
			out.WriteBytes, _ = strconv.ParseUint(v, 10, 64)
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return IO{}, err
	}
	if !found {
		return IO{}, ErrNoIO
	}
	return out, nil
}

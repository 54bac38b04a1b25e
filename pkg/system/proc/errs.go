package proc

import "errors"

var (
	// ErrNoStat indicates that /proc/<pid>/stat was empty or malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrMalformedCPU indicates that /proc/stat did not start with the
	// aggregate "cpu" line or that line could not be parsed. The kernel no
	// longer exposes the expected format, so callers treat it as fatal.
	ErrMalformedCPU = errors.New("proc: malformed cpu line")

	// ErrNoIO indicates that /proc/<pid>/io carried neither read_bytes nor write_bytes.
	ErrNoIO = errors.New("proc: no io counters")

	// ErrNotSocket indicates that a descriptor does not point at a socket inode.
	ErrNotSocket = errors.New("proc: not a socket")
)

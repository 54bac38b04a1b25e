//go:build linux

package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Stat is the subset of /proc/<pid>/stat the sampler consumes.
type Stat struct {
	PID       int
	Comm      string // kernel-truncated short name
	State     byte   // raw single-character state code
	PPID      int
	UTime     uint64 // user jiffies since start
	STime     uint64 // system jiffies since start
	Priority  int64
	Nice      int64
	StartTime uint64 // jiffies after boot
	RSSPages  uint64
}

// Ticks returns utime+stime.
func (s Stat) Ticks() uint64 { return s.UTime + s.STime }

// Stat reads and parses /proc/<pid>/stat.
func (fs FS) Stat(pid int) (Stat, error) {
	b, err := os.ReadFile(fs.pidPath(pid, "stat"))
	if err != nil {
		return Stat{}, err
	}
	return ParseStat(b)
}

// ParseStat parses the content of a /proc/<pid>/stat file.
//
// comm (2nd field) is in parens and may itself contain spaces and parens,
// so the numeric fields are everything after the last ") ".
// Indexes below are relative to that tail:
//
//	state(3)=0 ppid(4)=1 utime(14)=11 stime(15)=12
//	priority(18)=15 nice(19)=16 starttime(22)=19 rss(24)=21
func ParseStat(b []byte) (Stat, error) {
	line := strings.TrimSpace(string(b))
	open := strings.Index(line, "(")
	i := strings.LastIndex(line, ") ")
	if open < 0 || i < open {
		return Stat{}, ErrNoStat
	}

	pid, err := strconv.Atoi(strings.TrimSpace(line[:open]))
	if err != nil {
		return Stat{}, fmt.Errorf("%w: pid: %v", ErrNoStat, err)
	}

	fields := strings.Fields(line[i+2:])
	if len(fields) < 22 {
		return Stat{}, ErrShortStat
	}
	if len(fields[0]) == 0 {
		return Stat{}, ErrNoStat
	}

	var perr error
	u := func(idx int) uint64 {
		v, err := strconv.ParseUint(fields[idx], 10, 64)
		if err != nil && perr == nil {
			perr = err
		}
		return v
	}
	s := func(idx int) int64 {
		v, err := strconv.ParseInt(fields[idx], 10, 64)
		if err != nil && perr == nil {
			perr = err
		}
		return v
	}

	st := Stat{
		PID:       pid,
		Comm:      line[open+1 : i],
		State:     fields[0][0],
		PPID:      int(s(1)),
		UTime:     u(11),
		STime:     u(12),
		Priority:  s(15),
		Nice:      s(16),
		StartTime: u(19),
	}
	// rss is signed in the kernel's format string; a negative value never
	// shows up in practice but must not wrap around.
	if rss := s(21); rss > 0 {
		st.RSSPages = uint64(rss)
	}
	if perr != nil {
		return Stat{}, fmt.Errorf("%w: %v", ErrNoStat, perr)
	}
	return st, nil
}

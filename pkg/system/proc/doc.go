// Package proc reads the Linux procfs files a process sampler needs, and
// nothing else. Every reader is rooted at an FS so tests can point it at a
// fixture tree instead of /proc.
//
// Overview
//
//   - System-level:
//     FS.CPUTimes     : aggregate "cpu" line of /proc/stat (jiffies)
//     FS.PIDs         : numeric entries of the proc root
//     FS.NetSockets   : /proc/net/{tcp,tcp6,udp,udp6} rows (inode, addresses, state)
//
//   - Per-PID:
//     FS.Stat         : /proc/<pid>/stat (comm, state, ppid, utime, stime, priority, nice, starttime, rss)
//     FS.Cmdline      : /proc/<pid>/cmdline split on NUL
//     FS.IO           : /proc/<pid>/io read_bytes / write_bytes
//     FS.FDs          : /proc/<pid>/fd link targets; sockets read "socket:[inode]"
//     FS.Owner        : uid owning /proc/<pid>
//     FS.Cgroup       : /proc/<pid>/cgroup path (unified hierarchy preferred)
//
// Each file has a matching Parse function (ParseStat, ParseCPUTimes, ParseIO,
// ParseCmdline, ParseNetSockets, ParseSocketLink) that works on raw bytes or a
// reader, so callers can test parsing without a proc tree.
//
// # Counters
//
// CPU and I/O counters are cumulative since boot or process start. They only
// become meaningful as deltas between two samples taken by the same caller;
// this package keeps no state and computes no deltas.
//
// # Races and permissions
//
// A process can exit between FS.PIDs and any per-PID read, and some files
// (io, fd) are restricted to the owner. Per-PID readers return the raw error
// and leave the skip-or-absent decision to the caller. Only FS.CPUTimes has a
// format error callers must treat as fatal: ErrMalformedCPU.
//
// # Socket inodes
//
// A socket inode is unique among open sockets at one instant and is reused
// after close. Correlating FS.FDs with FS.NetSockets is only valid when both
// are read within the same sampling instant.
//
// Package import path: github.com/ja7ad/proctop/pkg/system/proc
package proc

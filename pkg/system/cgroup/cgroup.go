//go:build linux

// Package cgroup detects the host's cgroup layout and resolves which
// cgroup, and which container runtime if any, a process belongs to.
package cgroup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCgroup indicates a /proc/<pid>/cgroup stream without any entry.
var ErrNoCgroup = errors.New("cgroup: no membership entry")

type Version int

const (
	Unsupported Version = iota // no cgroup mounts
	V1                         // legacy multi-hierarchy cgroup v1
	V2                         // unified cgroup v2
	Hybrid                     // both v1 and v2 present
)

func (v Version) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	case Hybrid:
		return "cgroup hybrid"
	default:
		return "unsupported"
	}
}

// Detect returns the cgroup version of the host whose procfs is mounted at
// procRoot, with a human-readable detail string.
func Detect(procRoot string) (Version, string, error) {
	f, err := os.Open(filepath.Join(procRoot, "self", "mountinfo"))
	if err != nil {
		return Unsupported, "", fmt.Errorf("open mountinfo: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ParseMountinfo(f)
}

// ParseMountinfo scans a mountinfo stream for cgroup filesystems.
// The line format has a " - fstype " separator; we only care about fstype
// and the mount point.
func ParseMountinfo(r io.Reader) (Version, string, error) {
	var (
		hasV1 bool
		hasV2 bool
		v1Pts []string
		v2Pts []string
		sc    = bufio.NewScanner(r)
	)
	for sc.Scan() {
		line := sc.Text()
		// mountinfo has: <fields> - <fstype> <source> <superopts>
		sep := " - "
		i := strings.LastIndex(line, sep)
		if i < 0 {
			continue
		}
		fields := strings.Fields(line[i+len(sep):])
		if len(fields) < 1 {
			continue
		}
		fstype := fields[0]

		// mount point is field 5 of the pre-separator part, man 5 proc
		pre := strings.Fields(line[:i])
		if len(pre) < 5 {
			continue
		}
		mountPoint := pre[4]

		switch fstype {
		case "cgroup2":
			hasV2 = true
			v2Pts = append(v2Pts, mountPoint)
		case "cgroup":
			hasV1 = true
			v1Pts = append(v1Pts, mountPoint)
		}
	}
	if err := sc.Err(); err != nil {
		return Unsupported, "", fmt.Errorf("scan mountinfo: %w", err)
	}

	switch {
	case hasV1 && hasV2:
		return Hybrid, fmt.Sprintf("cgroup2 on %v; cgroup v1 on %v",
			strings.Join(v2Pts, ","), strings.Join(v1Pts, ",")), nil
	case hasV2:
		return V2, fmt.Sprintf("cgroup2 on %v", strings.Join(v2Pts, ",")), nil
	case hasV1:
		return V1, fmt.Sprintf("cgroup v1 on %v", strings.Join(v1Pts, ",")), nil
	default:
		return Unsupported, "no cgroup mounts found", nil
	}
}

// ParseProcCgroup returns the cgroup path of a process from its
// /proc/<pid>/cgroup stream ("hierarchy-ID:controllers:path" lines).
//
// The unified hierarchy ("0::") wins; on a pure v1 host the systemd named
// hierarchy is used, else the first entry.
func ParseProcCgroup(r io.Reader) (string, error) {
	var systemd, first string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), ":", 3)
		if len(parts) != 3 {
			continue
		}
		id, controllers, path := parts[0], parts[1], parts[2]

		if id == "0" && controllers == "" {
			return path, nil
		}
		if controllers == "name=systemd" && systemd == "" {
			systemd = path
		}
		if first == "" {
			first = path
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	switch {
	case systemd != "":
		return systemd, nil
	case first != "":
		return first, nil
	default:
		return "", ErrNoCgroup
	}
}

// runtimes matches the cgroup path segments container runtimes create,
// checked in order: kubernetes first as its pods run on docker or
// containerd. Host daemons such as docker.service or lxcfs.service live
// in plain service units and match nothing.
var runtimes = []struct {
	name  string
	match func(seg, next string) bool
}{
	{"kubernetes", func(seg, _ string) bool {
		return strings.HasPrefix(seg, "kubepods")
	}},
	{"docker", func(seg, next string) bool {
		return isScope(seg, "docker-") || (seg == "docker" && next != "")
	}},
	{"podman", func(seg, _ string) bool {
		return isScope(seg, "libpod-") || strings.HasPrefix(seg, "libpod_parent")
	}},
	{"containerd", func(seg, _ string) bool {
		return isScope(seg, "cri-containerd-")
	}},
	{"lxc", func(seg, next string) bool {
		return strings.HasPrefix(seg, "lxc.payload") || (seg == "lxc" && next != "")
	}},
}

func isScope(seg, prefix string) bool {
	return strings.HasPrefix(seg, prefix) && strings.HasSuffix(seg, ".scope")
}

// Runtime names the container runtime a cgroup path belongs to, or ""
// for a process that is not containerized.
func Runtime(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, r := range runtimes {
		for i, seg := range segs {
			var next string
			if i+1 < len(segs) {
				next = segs[i+1]
			}
			if r.match(seg, next) {
				return r.name
			}
		}
	}
	return ""
}

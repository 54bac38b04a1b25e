//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates root/rel with content, making parent directories.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestPageSize(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	assert.Greater(t, PageSize(), 0, "PageSize must be > 0")

	t.Setenv("PAGE_SIZE", "16384")
	assert.Equal(t, 16384, PageSize())
}

func TestNewFS_DefaultRoot(t *testing.T) {
	assert.Equal(t, DefaultRoot, NewFS("").Root())
	assert.Equal(t, "/tmp/x", NewFS("/tmp/x").Root())
}

func TestPIDs_Fixture(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"42", "7", "self", "net", "1000"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	writeFile(t, root, "99", "not a directory")

	pids, err := NewFS(root).PIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{7, 42, 1000}, pids)
}

func TestPIDs_MissingRoot(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "nope")).PIDs()
	require.Error(t, err)
}

func TestFDs_Fixture(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "12", "fd")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	links := map[string]string{
		"0":  "/dev/null",
		"10": "socket:[9]",
		"3":  "socket:[5]",
		"4":  "pipe:[77]",
	}
	for name, target := range links {
		require.NoError(t, os.Symlink(target, filepath.Join(dir, name)))
	}

	fds, err := NewFS(root).FDs(12)
	require.NoError(t, err)
	require.Len(t, fds, 4)

	nums := []int{fds[0].Num, fds[1].Num, fds[2].Num, fds[3].Num}
	assert.Equal(t, []int{0, 3, 4, 10}, nums, "descriptors come back in numeric order")

	inode, err := fds[1].SocketInode()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), inode)

	_, err = fds[2].SocketInode()
	assert.ErrorIs(t, err, ErrNotSocket)
}

func TestFDs_NoSuchPid(t *testing.T) {
	_, err := NewFS(t.TempDir()).FDs(1)
	require.Error(t, err)
}

func TestOwner_Fixture(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "5"), 0o755))

	uid, err := NewFS(root).Owner(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(os.Getuid()), uid)

	_, err = NewFS(root).Owner(6)
	require.Error(t, err)
}

func TestFS_FixtureFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "stat", "cpu  10 0 5 100 3 0 1 0 0 0\ncpu0 10 0 5 100 3 0 1 0 0 0\n")
	writeFile(t, root, "8/stat",
		"8 (bash) S 1 8 8 0 -1 4194560 1 0 0 0 40 12 0 0 20 0 1 0 500 1000 250 18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0 17 0 0 0 0 0 0\n")
	writeFile(t, root, "8/cmdline", "/bin/bash\x00-l\x00")
	writeFile(t, root, "8/io", "rchar: 1\nwchar: 2\nread_bytes: 4096\nwrite_bytes: 8192\ncancelled_write_bytes: 0\n")
	writeFile(t, root, "net/tcp",
		"  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode\n"+
			"   0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 5 1 0000000000000000 100 0 0 10 0\n")

	fs := NewFS(root)

	ct, err := fs.CPUTimes()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), ct.User)
	assert.Equal(t, uint64(100), ct.Idle)

	st, err := fs.Stat(8)
	require.NoError(t, err)
	assert.Equal(t, "bash", st.Comm)
	assert.Equal(t, uint64(52), st.Ticks())

	args, err := fs.Cmdline(8)
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/bash", "-l"}, args)

	pio, err := fs.IO(8)
	require.NoError(t, err)
	assert.Equal(t, IO{ReadBytes: 4096, WriteBytes: 8192}, pio)

	socks, err := fs.NetSockets("tcp")
	require.NoError(t, err)
	require.Len(t, socks, 1)
	assert.Equal(t, 8080, socks[0].LocalPort)

	_, err = fs.NetSockets("tcp6")
	require.Error(t, err, "missing table reports the open error")
}

func TestCPUTimes_Self(t *testing.T) {
	fs := NewFS("")
	t0, err := fs.CPUTimes()
	require.NoError(t, err)
	assert.Greater(t, t0.IdleTicks()+t0.NonIdleTicks(), 0.0)

	time.Sleep(10 * time.Millisecond)
	t1, err := fs.CPUTimes()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, t1.IdleTicks(), t0.IdleTicks())
	assert.GreaterOrEqual(t, t1.NonIdleTicks(), t0.NonIdleTicks())
}

func TestStat_Self(t *testing.T) {
	me := os.Getpid()
	st, err := NewFS("").Stat(me)
	require.NoError(t, err)
	assert.Equal(t, me, st.PID)
	assert.Equal(t, os.Getppid(), st.PPID)
	assert.NotEmpty(t, st.Comm)
	assert.Greater(t, st.RSSPages, uint64(0))
}

func TestStat_NoSuchPid(t *testing.T) {
	_, err := NewFS("").Stat(99999999)
	require.Error(t, err)
}

func TestIO_Self(t *testing.T) {
	me := os.Getpid()
	_, err := NewFS("").IO(me)
	// Some environments may not expose /proc/<pid>/io (rare), so allow skip
	if err != nil {
		t.Skipf("skipping: /proc/%d/io not available: %v", me, err)
	}
}

func TestPIDs_SelfListed(t *testing.T) {
	pids, err := NewFS("").PIDs()
	require.NoError(t, err)
	assert.Contains(t, pids, os.Getpid())
}

func TestFDs_SelfSeesOpenFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "fd")
	require.NoError(t, err)
	defer f.Close()

	fds, err := NewFS("").FDs(os.Getpid())
	if err != nil {
		t.Skipf("skipping: fd table not readable: %v", err)
	}
	var found bool
	for _, fd := range fds {
		if fd.Num == int(f.Fd()) {
			found = true
			assert.Contains(t, fd.Target, filepath.Base(f.Name()), "fd %s", strconv.Itoa(fd.Num))
		}
	}
	assert.True(t, found, "temp file descriptor should be listed")
}

func TestCgroup_Fixture(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "8/cgroup", "0::/system.slice/docker-4f1c.scope\n")

	got, err := NewFS(root).Cgroup(8)
	require.NoError(t, err)
	assert.Equal(t, "/system.slice/docker-4f1c.scope", got)

	_, err = NewFS(root).Cgroup(9)
	require.Error(t, err)
}

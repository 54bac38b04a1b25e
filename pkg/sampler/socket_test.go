//go:build linux

package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

func TestBuildSocketTable(t *testing.T) {
	log, _ := bufLogger()

	t.Run("all_families", func(t *testing.T) {
		src := newFakeSource()
		src.tables["tcp"] = []proc.NetSocket{{LocalAddr: "127.0.0.1", LocalPort: 8080, State: "LISTEN", Inode: 5}}
		src.tables["tcp6"] = []proc.NetSocket{{LocalAddr: "::", LocalPort: 22, State: "LISTEN", Inode: 6}}
		src.tables["udp"] = []proc.NetSocket{{LocalAddr: "127.0.0.53", LocalPort: 53, State: "CLOSE", Inode: 9}}
		src.tables["udp6"] = []proc.NetSocket{}

		tbl := BuildSocketTable(src, log)
		assert.Equal(t, 3, tbl.Len())
		require.Contains(t, tbl.TCP, uint64(5))
		require.Contains(t, tbl.TCP, uint64(6))
		assert.Equal(t, Socket{
			Kind: TCP, Inode: 5, LocalAddr: "127.0.0.1", LocalPort: 8080, State: "LISTEN",
		}, tbl.TCP[5])
		assert.True(t, tbl.TCP[6].IPv6)
		assert.Equal(t, UDP, tbl.UDP[9].Kind)
	})

	t.Run("ipv6_disabled", func(t *testing.T) {
		src := newFakeSource()
		src.tables["tcp"] = []proc.NetSocket{{LocalPort: 80, Inode: 1}}
		src.tables["udp"] = []proc.NetSocket{{LocalPort: 123, Inode: 2}}

		tbl := BuildSocketTable(src, log)
		assert.Len(t, tbl.TCP, 1)
		assert.Len(t, tbl.UDP, 1)
	})

	t.Run("only_v6", func(t *testing.T) {
		src := newFakeSource()
		src.tables["tcp6"] = []proc.NetSocket{{LocalPort: 443, Inode: 11}}

		tbl := BuildSocketTable(src, log)
		assert.Len(t, tbl.TCP, 1)
		assert.Empty(t, tbl.UDP)
	})

	t.Run("nothing_readable", func(t *testing.T) {
		logger, buf := bufLogger()
		tbl := BuildSocketTable(newFakeSource(), logger)
		require.NotNil(t, tbl)
		assert.Zero(t, tbl.Len())
		assert.Contains(t, buf.String(), "socket table unavailable")
	})
}

func TestSocketTable_AddIgnoresUnknownKind(t *testing.T) {
	tbl := NewSocketTable()
	tbl.Add(Socket{Inode: 3})
	assert.Zero(t, tbl.Len())
	assert.Equal(t, "unknown", SocketKind(0).String())
	assert.Equal(t, "tcp", TCP.String())
	assert.Equal(t, "udp", UDP.String())
}

func TestPorts(t *testing.T) {
	tbl := NewSocketTable()
	tbl.Add(Socket{Kind: TCP, Inode: 5, LocalPort: 8080})
	tbl.Add(Socket{Kind: UDP, Inode: 9, LocalPort: 53})

	t.Run("tcp_and_udp", func(t *testing.T) {
		tcp, udp := Ports(socketFDs(5, 9), tbl)
		assert.Equal(t, []int{8080}, tcp)
		assert.Equal(t, []int{53}, udp)
	})

	t.Run("unknown_inode_contributes_nothing", func(t *testing.T) {
		tcp, udp := Ports(socketFDs(5, 77), tbl)
		assert.Equal(t, []int{8080}, tcp)
		assert.Equal(t, []int{}, udp)
	})

	t.Run("duplicates_kept_in_descriptor_order", func(t *testing.T) {
		tbl := NewSocketTable()
		tbl.Add(Socket{Kind: TCP, Inode: 1, LocalPort: 443})
		tbl.Add(Socket{Kind: TCP, Inode: 2, LocalPort: 80})

		tcp, _ := Ports(socketFDs(2, 1, 2), tbl)
		assert.Equal(t, []int{80, 443, 80}, tcp)
	})

	t.Run("non_socket_descriptors", func(t *testing.T) {
		fds := []proc.FD{
			{Num: 0, Target: "/dev/null"},
			{Num: 1, Target: "pipe:[5]"},
			{Num: 2, Target: "anon_inode:[eventfd]"},
		}
		tcp, udp := Ports(fds, tbl)
		assert.Empty(t, tcp)
		assert.Empty(t, udp)
	})

	t.Run("no_descriptors", func(t *testing.T) {
		tcp, udp := Ports(nil, tbl)
		assert.NotNil(t, tcp)
		assert.NotNil(t, udp)
		assert.Empty(t, tcp)
		assert.Empty(t, udp)
	})
}

func TestMemPercent(t *testing.T) {
	assert.InDelta(t, 25.0, MemPercent(1024, 4096), 1e-12)
	assert.Equal(t, 0.0, MemPercent(1024, 0), "unknown total")
	assert.Equal(t, 0.0, MemPercent(0, 4096))
}

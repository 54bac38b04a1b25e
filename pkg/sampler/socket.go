//go:build linux

package sampler

import (
	"log/slog"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

// SocketKind tags a Socket as TCP or UDP.
type SocketKind int

const (
	TCP SocketKind = iota + 1
	UDP
)

func (k SocketKind) String() string {
	switch k {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return "unknown"
	}
}

// Socket is one open socket at the instant its table was read.
type Socket struct {
	Kind       SocketKind
	Inode      uint64
	LocalAddr  string
	LocalPort  int
	RemoteAddr string
	RemotePort int
	State      string
	IPv6       bool
}

// SocketSource reads a /proc/net socket table by name.
type SocketSource interface {
	NetSockets(table string) ([]proc.NetSocket, error)
}

// SocketTable indexes every open socket of one instant by inode, v4 and v6
// merged per protocol. Inodes are reused after close, so a table is only
// valid for the cycle that built it.
type SocketTable struct {
	TCP map[uint64]Socket
	UDP map[uint64]Socket
}

// NewSocketTable returns an empty table.
func NewSocketTable() *SocketTable {
	return &SocketTable{
		TCP: make(map[uint64]Socket),
		UDP: make(map[uint64]Socket),
	}
}

// Add indexes s under its protocol.
func (t *SocketTable) Add(s Socket) {
	switch s.Kind {
	case TCP:
		t.TCP[s.Inode] = s
	case UDP:
		t.UDP[s.Inode] = s
	}
}

// Len returns the number of indexed sockets.
func (t *SocketTable) Len() int { return len(t.TCP) + len(t.UDP) }

var socketFamilies = []struct {
	kind   SocketKind
	v4, v6 string
}{
	{TCP, "tcp", "tcp6"},
	{UDP, "udp", "udp6"},
}

// BuildSocketTable reads the TCP and UDP tables of both address families.
// Each table is read independently: a missing v6 table (IPv6 disabled)
// leaves the v4 rows, and a protocol with neither table stays empty.
// It never fails.
func BuildSocketTable(src SocketSource, log *slog.Logger) *SocketTable {
	tbl := NewSocketTable()
	for _, fam := range socketFamilies {
		for _, table := range []string{fam.v4, fam.v6} {
			rows, err := src.NetSockets(table)
			if err != nil {
				log.Debug("socket table unavailable", "table", table, "err", err)
			}
			// A read error mid-file still leaves the rows parsed so far.
			ipv6 := table == fam.v6
			for _, row := range rows {
				tbl.Add(Socket{
					Kind:       fam.kind,
					Inode:      row.Inode,
					LocalAddr:  row.LocalAddr,
					LocalPort:  row.LocalPort,
					RemoteAddr: row.RemoteAddr,
					RemotePort: row.RemotePort,
					State:      row.State,
					IPv6:       ipv6,
				})
			}
		}
	}
	return tbl
}

//go:build linux

package proc

import (
	"bufio"
	"encoding/hex"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetSocket is one row of /proc/net/{tcp,tcp6,udp,udp6}.
type NetSocket struct {
	LocalAddr  string
	LocalPort  int
	RemoteAddr string
	RemotePort int
	State      string
	Inode      uint64
}

// Kernel socket states, include/net/tcp_states.h. UDP reuses the same
// numbering: unconnected sockets report CLOSE, connected ones ESTABLISHED.
var socketStates = map[int64]string{
	1:  "ESTABLISHED",
	2:  "SYN_SENT",
	3:  "SYN_RECV",
	4:  "FIN_WAIT1",
	5:  "FIN_WAIT2",
	6:  "TIME_WAIT",
	7:  "CLOSE",
	8:  "CLOSE_WAIT",
	9:  "LAST_ACK",
	10: "LISTEN",
	11: "CLOSING",
	12: "NEW_SYN_RECV",
}

// NetSockets reads one socket table, named as under /proc/net:
// "tcp", "tcp6", "udp" or "udp6". Tables of a disabled protocol family do
// not exist and yield the open error.
func (fs FS) NetSockets(table string) ([]NetSocket, error) {
	f, err := os.Open(fs.path("net", table))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseNetSockets(f, strings.HasSuffix(table, "6"))
}

// ParseNetSockets parses a socket table stream. The header line is skipped,
// as are rows with too few columns.
func ParseNetSockets(r io.Reader, ipv6 bool) ([]NetSocket, error) {
	sc := bufio.NewScanner(r)
	sc.Scan() // skip header

	var out []NetSocket
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 10 {
			continue
		}

		inode, err := strconv.ParseUint(fields[9], 10, 64)
		if err != nil {
			continue
		}

		state := "UNKNOWN"
		if v, err := strconv.ParseInt(fields[3], 16, 64); err == nil {
			if s, ok := socketStates[v]; ok {
				state = s
			}
		}

		laddr, lport := parseAddr(fields[1], ipv6)
		raddr, rport := parseAddr(fields[2], ipv6)
		out = append(out, NetSocket{
			LocalAddr:  laddr,
			LocalPort:  lport,
			RemoteAddr: raddr,
			RemotePort: rport,
			State:      state,
			Inode:      inode,
		})
	}
	return out, sc.Err()
}

// parseAddr decodes "0100007F:1388" style addresses. The kernel prints the
// address as host-order 32-bit words, so each 4-byte group is reversed.
func parseAddr(raw string, ipv6 bool) (string, int) {
	ipHex, portHex, ok := strings.Cut(raw, ":")
	if !ok {
		return "", 0
	}
	port, _ := strconv.ParseUint(portHex, 16, 16)

	b, err := hex.DecodeString(ipHex)
	if err != nil {
		return "", int(port)
	}

	want := net.IPv4len
	if ipv6 {
		want = net.IPv6len
	}
	if len(b) != want {
		return "", int(port)
	}

	ip := make(net.IP, len(b))
	for i := 0; i < len(b); i += 4 {
		ip[i+0] = b[i+3]
		ip[i+1] = b[i+2]
		ip[i+2] = b[i+1]
		ip[i+3] = b[i+0]
	}
	return ip.String(), int(port)
}

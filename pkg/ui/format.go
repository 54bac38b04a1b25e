//go:build linux

package ui

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultCommandWidth = 50
	minCommandWidth     = 10
	portsWidth          = 14
	// PID(8)+USER(10)+NAME(16)+CPU%(6)+MEM%(6)+READ(10)+WRITE(10)+S(2)+PRI(4)+TCP+UDP
	fixedColumnsWidth = 8 + 10 + 16 + 6 + 6 + 10 + 10 + 2 + 4 + 2*portsWidth
)

func columns(cmdWidth int) []table.Column {
	return []table.Column{
		{Title: "PID", Width: 8},
		{Title: "USER", Width: 10},
		{Title: "NAME", Width: 16},
		{Title: "CPU%", Width: 6},
		{Title: "MEM%", Width: 6},
		{Title: "READ", Width: 10},
		{Title: "WRITE", Width: 10},
		{Title: "S", Width: 2},
		{Title: "PRI", Width: 4},
		{Title: "TCP", Width: portsWidth},
		{Title: "UDP", Width: portsWidth},
		{Title: "COMMAND", Width: cmdWidth},
	}
}

func (m *Model) rows() []table.Row {
	cols := m.table.Columns()
	cmdWidth := defaultCommandWidth
	if len(cols) > 0 {
		cmdWidth = cols[len(cols)-1].Width
	}

	rows := make([]table.Row, 0, len(m.snap.Processes))
	for _, p := range m.snap.Processes {
		read, write := "-", "-"
		if p.DiskIO != nil {
			read = p.DiskIO.Read.Humanized()
			write = p.DiskIO.Write.Humanized()
		}
		rows = append(rows, table.Row{
			strconv.Itoa(p.PID),
			m.users.name(p.UID),
			truncate.StringWithTail(p.Name, 16, "…"),
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			read,
			write,
			p.State.String(),
			strconv.FormatInt(p.Priority, 10),
			formatPorts(p.TCPPorts, portsWidth),
			formatPorts(p.UDPPorts, portsWidth),
			truncate.StringWithTail(p.Command, uint(cmdWidth), "…"),
		})
	}
	return rows
}

// formatPorts joins ports with commas, cut to width.
func formatPorts(ports []int, width uint) string {
	if len(ports) == 0 {
		return ""
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return truncate.StringWithTail(strings.Join(parts, ","), width, "…")
}

// userCache resolves uids to login names once per uid.
type userCache struct {
	names  map[uint32]string
	lookup func(uid string) (*user.User, error)
}

func newUserCache() *userCache {
	return &userCache{names: make(map[uint32]string), lookup: user.LookupId}
}

func (c *userCache) name(uid *uint32) string {
	if uid == nil {
		return "?"
	}
	if n, ok := c.names[*uid]; ok {
		return n
	}
	id := strconv.FormatUint(uint64(*uid), 10)
	n := id
	if u, err := c.lookup(id); err == nil && u.Username != "" {
		n = u.Username
	}
	c.names[*uid] = n
	return n
}

//go:build linux

package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("proctop")
	summary := dimStyle.Render(m.opts.Summary)

	totals := "waiting for first sample..."
	if m.hasSnap {
		totals = fmt.Sprintf("%d processes   net rx %s   tx %s   %s",
			len(m.snap.Processes),
			m.snap.NetReceived.Humanized(),
			m.snap.NetSent.Humanized(),
			m.snap.TakenAt.Format("15:04:05"),
		)
	}

	status := dimStyle.Render(fmt.Sprintf("cpu mode: %s   q: quit   ↑/↓: scroll", m.opts.Mode))
	if m.err != nil {
		status = errorStyle.Render("error: " + m.err.Error())
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, " ", summary),
		totals,
		m.table.View(),
		status,
	)

	style := baseStyle.Padding(0, 1)
	if m.width > 2 && m.height > 2 {
		style = style.Width(m.width - 2).Height(m.height - 2)
	}
	return style.Render(body)
}

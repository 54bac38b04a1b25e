//go:build linux

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ja7ad/proctop/pkg/sampler"
)

type updateMsg sampler.Update

type closedMsg struct{}

// waitUpdate blocks on the next sampler update. Each received update
// re-arms it, so at most one wait is outstanding.
func waitUpdate(c <-chan sampler.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-c
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case updateMsg:
		if msg.Err != nil {
			// keep the last good snapshot on screen
			m.err = msg.Err
		} else {
			m.snap = msg.Snapshot
			m.hasSnap = true
			m.err = nil
			m.table.SetRows(m.rows())
		}
		return m, waitUpdate(m.updates)

	case closedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

const minTableRows = 5

func headerHeight() int {
	return lipgloss.Height(tableHeaderStyle.Render("PID"))
}

// resize gives the table everything below the header and above the
// status line, and the command column whatever width is left.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// SetHeight counts the header, the viewport gets the rest
	tableHeight := height - 8
	if floor := minTableRows + headerHeight(); tableHeight < floor {
		tableHeight = floor
	}
	m.table.SetHeight(tableHeight)

	cmdWidth := width - fixedColumnsWidth - 2*len(columns(0)) - 4
	if cmdWidth < minCommandWidth {
		cmdWidth = minCommandWidth
	}
	m.table.SetColumns(columns(cmdWidth))
	m.table.SetWidth(width - 4)
	if m.hasSnap {
		m.table.SetRows(m.rows())
	}
}

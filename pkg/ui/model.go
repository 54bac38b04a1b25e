//go:build linux

// Package ui is the interactive display: a live process table fed by the
// sampling loop.
package ui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ja7ad/proctop/pkg/sampler"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#7D56F4")). // Purple
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")).
				Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")) // Dimmed Gray

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f")). // Soft red
			Bold(true)
)

// Options carries what the display shows besides snapshots.
type Options struct {
	Summary string // host line under the title
	Mode    sampler.Mode
}

// Model is the bubbletea model. It keeps only the latest snapshot.
type Model struct {
	updates <-chan sampler.Update
	opts    Options
	table   table.Model
	users   *userCache

	snap    sampler.Snapshot
	hasSnap bool
	err     error

	width    int
	height   int
	quitting bool
}

// New returns a model that renders every update received from updates.
func New(updates <-chan sampler.Update, opts Options) Model {
	t := table.New(
		table.WithColumns(columns(defaultCommandWidth)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#5f00d7")). // Purple
		Bold(false)
	t.SetStyles(s)

	return Model{
		updates: updates,
		opts:    opts,
		table:   t,
		users:   newUserCache(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitUpdate(m.updates)
}

// Err returns the last sampling error shown, nil after a good snapshot.
func (m Model) Err() error { return m.err }

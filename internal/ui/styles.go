package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/wfgraph/internal/status"
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Status styles, mirroring the node colors of the diagram. Black nodes are
// shown dim gray so they stay readable on dark terminals.
var statusStyles = map[status.Status]lipgloss.Style{
	status.Cancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	status.Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	status.Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	status.Running:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	status.Submitted: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	status.ShouldRun: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	status.Unknown:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// StatusStyle returns the style used for a status.
func StatusStyle(s status.Status) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return StyleMuted
}

// barGlyph is the progress bar character for each status.
func barGlyph(s status.Status) string {
	switch s {
	case status.Completed:
		return "="
	case status.Failed:
		return "!"
	case status.Cancelled:
		return "x"
	case status.Running:
		return "-"
	case status.Submitted:
		return "+"
	}
	return "."
}

package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorAccent  = lipgloss.Color("#F59E0B") // Amber
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	caretStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

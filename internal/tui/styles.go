package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for one session. Two palettes exist so
// the picker stays readable on light terminal backgrounds.
type Styles struct {
	Query        lipgloss.Style
	QueryPrompt  lipgloss.Style
	Selected     lipgloss.Style
	Normal       lipgloss.Style
	Dim          lipgloss.Style
	Error        lipgloss.Style
	PaneBorder   lipgloss.Style
	FocusedPane  lipgloss.Style
	DetailHeader lipgloss.Style
}

// NewStyles builds the palette for a dark or light background.
func NewStyles(dark bool) Styles {
	normal := lipgloss.Color("252")
	dim := lipgloss.Color("241")
	accent := lipgloss.Color("214")
	if !dark {
		normal = lipgloss.Color("235")
		dim = lipgloss.Color("245")
		accent = lipgloss.Color("166")
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)

	return Styles{
		Query:        lipgloss.NewStyle().Foreground(normal),
		QueryPrompt:  lipgloss.NewStyle().Foreground(accent),
		Selected:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Normal:       lipgloss.NewStyle().Foreground(normal),
		Dim:          lipgloss.NewStyle().Foreground(dim),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		PaneBorder:   border,
		FocusedPane:  border.BorderForeground(accent),
		DetailHeader: lipgloss.NewStyle().Bold(true).Foreground(normal),
	}
}

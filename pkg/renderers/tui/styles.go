package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	panel    lipgloss.Style
	active   lipgloss.Style
	match    lipgloss.Style
	button   lipgloss.Style
	buttonOn lipgloss.Style
	status   lipgloss.Style
}

func newStyles(out io.Writer, noColor bool) styles {
	var r *lipgloss.Renderer
	if noColor {
		r = lipgloss.NewRenderer(out, termenv.WithProfile(termenv.Ascii))
		r.SetColorProfile(termenv.Ascii)
	} else {
		r = lipgloss.NewRenderer(out)
	}

	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	danger := lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}

	return styles{
		title:    r.NewStyle().Bold(true).Foreground(accent),
		label:    r.NewStyle().Bold(true),
		focused:  r.NewStyle().Bold(true).Foreground(accent),
		value:    r.NewStyle(),
		muted:    r.NewStyle().Foreground(subtle),
		err:      r.NewStyle().Foreground(danger),
		panel:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(subtle).Padding(0, 1),
		active:   r.NewStyle().Bold(true).Foreground(accent),
		match:    r.NewStyle().Underline(true),
		button:   r.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()).BorderForeground(subtle),
		buttonOn: r.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()).BorderForeground(accent).Foreground(accent),
		status:   r.NewStyle().Italic(true).Foreground(subtle),
	}
}

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme collects every style used by the views so the palette lives in one
// place.
type Theme struct {
	Accent  lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Warn    lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Title      lipgloss.Style
	Header     lipgloss.Style
	StatusOK   lipgloss.Style
	StatusWarn lipgloss.Style
	StatusErr  lipgloss.Style
	Faint      lipgloss.Style

	SenderUser   lipgloss.Style
	SenderSystem lipgloss.Style

	InputBox lipgloss.Style
	Pane     lipgloss.Style
	Footer   lipgloss.Style
}

func NewTheme() Theme {
	accent := lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	success := lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	warn := lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	errc := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

	return Theme{
		Accent:  accent,
		Muted:   muted,
		Success: success,
		Warn:    warn,
		Error:   errc,

		Title:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:     lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		StatusOK:   lipgloss.NewStyle().Foreground(success),
		StatusWarn: lipgloss.NewStyle().Foreground(warn),
		StatusErr:  lipgloss.NewStyle().Foreground(errc),
		Faint:      lipgloss.NewStyle().Foreground(muted),

		SenderUser:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		SenderSystem: lipgloss.NewStyle().Bold(true).Foreground(success),

		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
	}
}

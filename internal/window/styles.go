package window

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#7D7A85")
	border = lipgloss.Color("#5E6472")
	flame  = lipgloss.Color("#FF8C42")

	readyStyle  = lipgloss.NewStyle().Bold(true).Foreground(flame)
	modeStyle   = lipgloss.NewStyle().Foreground(accent)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	statusStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
	fieldFocusedStyle = fieldStyle.BorderForeground(accent)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2)
	buttonFocusedStyle = buttonStyle.
				BorderForeground(flame).
				Foreground(flame).
				Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// resolveDelay keeps zero as "use def" and turns typewriter.NoDelay into 0.
func resolveDelay(d, def time.Duration) time.Duration {
	switch {
	case d == 0:
		return def
	case d < 0:
		return 0
	}
	return d
}

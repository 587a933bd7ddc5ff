package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorMaroon   lipgloss.Color = "#eba0ac"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// Semantic aliases

const (
	colorAccent   = colorPink
	colorLike     = colorGreen
	colorPass     = colorRed
	colorMatch    = colorMauve
	colorVerified = colorSky
	colorError    = colorRed
	colorInfo     = colorTeal
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)
	matchStyle  = lipgloss.NewStyle().Foreground(colorMatch).Bold(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(colorVerified)
)

// likeRamps map gesture progress to border color intensity: the further
// the drag, the hotter the border.
var (
	likeRamp = []lipgloss.Color{colorSurface2, colorTeal, colorGreen}
	passRamp = []lipgloss.Color{colorSurface2, colorMaroon, colorRed}
)

func rampColor(ramp []lipgloss.Color, progress float64) lipgloss.Color {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	idx := int(progress * float64(len(ramp)))
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}

// fadeColor maps card opacity to a foreground color so the committed card
// visibly dissolves before it leaves the deck area.
func fadeColor(opacity float64) lipgloss.Color {
	switch {
	case opacity >= 0.85:
		return colorText
	case opacity >= 0.55:
		return colorSubtext0
	case opacity >= 0.3:
		return colorOverlay0
	default:
		return colorSurface1
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// paintAt draws layer onto base with its top-left corner at (x, y),
// overwriting the covered cells. Both canvases are ANSI-aware; the layer's
// full rectangle (including its padding) covers the base.
func paintAt(base, layer string, x, y, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	baseLines := splitToLines(base, height)
	layerLines := strings.Split(layer, "\n")
	layerWidth := 0
	for _, l := range layerLines {
		if w := ansi.StringWidth(l); w > layerWidth {
			layerWidth = w
		}
	}
	out := make([]string, height)
	for i := 0; i < height; i++ {
		baseLine := padRight(baseLines[i], width)
		li := i - y
		if li < 0 || li >= len(layerLines) || x >= width || x+layerWidth <= 0 {
			out[i] = baseLine
			continue
		}
		seg := padRight(layerLines[li], layerWidth)
		start, end := x, x+layerWidth
		if start < 0 {
			seg = dropColumns(seg, -start)
			start = 0
		}
		if end > width {
			seg = ansi.Truncate(seg, width-start, "")
			end = width
		}
		left := ansi.Truncate(baseLine, start, "")
		left = padRight(left, start)
		right := dropColumns(baseLine, end)
		out[i] = padRight(left+seg+right, width)
	}
	return strings.Join(out, "\n")
}

// renderPopup centers a bordered card over the base canvas.
func renderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(popup)
	cardLines := strings.Split(card, "\n")
	cardWidth := 0
	for _, l := range cardLines {
		if w := ansi.StringWidth(l); w > cardWidth {
			cardWidth = w
		}
	}
	x := (width - cardWidth) / 2
	y := (height - len(cardLines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return paintAt(base, card, x, y, width, height)
}

// blankCanvas returns an empty canvas of the given size.
func blankCanvas(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func padRight(line string, width int) string {
	w := ansi.StringWidth(line)
	if w >= width {
		return ansi.Truncate(line, width, "")
	}
	return line + strings.Repeat(" ", width-w)
}

// dropColumns removes the leftmost n columns of an ANSI string.
func dropColumns(line string, n int) string {
	if n <= 0 {
		return line
	}
	w := ansi.StringWidth(line)
	if n >= w {
		return ""
	}
	return ansi.Cut(line, n, w)
}

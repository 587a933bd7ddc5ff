package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/duet-dating/duet/internal/database/repository"
	"github.com/duet-dating/duet/internal/swipe"
)

// CardRenderer produces the visual for one card. The gesture descriptor is
// only non-nil for stack index 0 while a drag is in progress; renderers use
// it for feedback like border intensity and the LIKE/PASS stamp.
type CardRenderer func(p repository.Profile, stackIndex int, g *swipe.Gesture) string

const (
	cardWidth  = 36
	cardHeight = 11
	stampAt    = 0.35 // progress at which the decision stamp appears
)

// defaultCard renders a bordered profile card.
func defaultCard(p repository.Profile, stackIndex int, g *swipe.Gesture) string {
	border := colorSurface2
	text := colorText
	if stackIndex > 0 {
		border = colorSurface1
		text = colorOverlay1
	}

	stamp := ""
	if g != nil {
		switch g.Direction {
		case swipe.DirectionRight:
			border = rampColor(likeRamp, g.Progress)
			if g.Progress >= stampAt {
				stamp = lipgloss.NewStyle().Foreground(colorLike).Bold(true).Render("LIKE")
			}
		case swipe.DirectionLeft:
			border = rampColor(passRamp, g.Progress)
			if g.Progress >= stampAt {
				stamp = lipgloss.NewStyle().Foreground(colorPass).Bold(true).Render("PASS")
			}
		}
	}

	name := fmt.Sprintf("%s, %d", p.Name, p.Age)
	if p.Verified {
		name += " " + badgeStyle.Render("✓")
	}
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(text).Bold(true).Render(name))
	if stamp != "" {
		lines[0] += "  " + stamp
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(colorSubtext0).Render(p.City))
	lines = append(lines, "")
	for _, l := range wrap(p.Bio, cardWidth-4, 3) {
		lines = append(lines, lipgloss.NewStyle().Foreground(text).Render(l))
	}
	if len(p.Interests) > 0 {
		names := make([]string, 0, len(p.Interests))
		for _, i := range p.Interests {
			names = append(names, i.Name)
		}
		lines = append(lines, "")
		tagLine := strings.Join(names, " · ")
		for _, l := range wrap(tagLine, cardWidth-4, 2) {
			lines = append(lines, lipgloss.NewStyle().Foreground(colorInfo).Render(l))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth - 2).
		Height(cardHeight - 2).
		Render(strings.Join(lines, "\n"))
}

// renderDeck composes the visible stack window onto a canvas: the rear
// cards cascade behind the front card, which is painted last at its
// gesture offset with its rotation rendered as a horizontal shear.
func renderDeck(deck []repository.Profile, depth int, eng *swipe.Engine, render CardRenderer, width, height int) string {
	canvas := blankCanvas(width, height)
	if len(deck) == 0 || width <= 0 || height <= 0 {
		return canvas
	}
	if depth < 1 {
		depth = 1
	}
	if depth > len(deck) {
		depth = len(deck)
	}

	baseX := (width - cardWidth) / 2
	baseY := (height - cardHeight) / 2
	if baseY < 0 {
		baseY = 0
	}

	// rear cards, deepest first
	for i := depth - 1; i >= 1; i-- {
		card := render(deck[i], i, nil)
		canvas = paintAt(canvas, card, baseX+2*i, baseY+i, width, height)
	}

	dx, dy := eng.Offset()
	opacity := eng.Opacity()
	if opacity <= 0.05 {
		return canvas // fully faded, nothing left to paint
	}

	var g *swipe.Gesture
	if desc, ok := eng.Gesture(); ok {
		g = &desc
	}
	front := render(deck[0], 0, g)
	if opacity < 0.85 {
		front = lipgloss.NewStyle().Foreground(fadeColor(opacity)).Render(stripStyles(front))
	}
	front = shear(front, eng.Rotation())
	return paintAt(canvas, front, baseX+int(math.Round(dx)), baseY+int(math.Round(dy)), width, height)
}

// shear slants the card by shifting each line proportionally to its
// distance from the vertical center, approximating rotation in a cell
// grid. Positive rotation leans the top edge rightward.
func shear(card string, rotationDeg float64) string {
	if rotationDeg == 0 {
		return card
	}
	lines := strings.Split(card, "\n")
	mid := float64(len(lines)-1) / 2
	slope := math.Tan(rotationDeg*math.Pi/180) * 0.5
	maxShift := 0
	shifts := make([]int, len(lines))
	for i := range lines {
		s := int(math.Round(slope * (mid - float64(i))))
		shifts[i] = s
		if s < maxShift {
			maxShift = s
		}
	}
	// normalize so no line needs a negative indent
	for i := range lines {
		lines[i] = strings.Repeat(" ", shifts[i]-maxShift) + lines[i]
	}
	return strings.Join(lines, "\n")
}

// stripStyles drops ANSI sequences so a fade color can be applied
// uniformly to an already-styled card.
func stripStyles(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = ansi.Strip(lines[i])
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width, maxLines int) []string {
	if width <= 0 {
		return nil
	}
	words := strings.Fields(s)
	var lines []string
	cur := ""
	for _, w := range words {
		if cur == "" {
			cur = w
		} else if len(cur)+1+len(w) <= width {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if len(last) > 1 {
			lines[maxLines-1] = last[:len(last)-1] + "…"
		}
	}
	return lines
}

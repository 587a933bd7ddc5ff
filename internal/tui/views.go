package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duet-dating/duet/internal/service"
)

const (
	headerHeight = 2
	footerHeight = 2
)

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return "loading..."
	}
	bodyHeight := a.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch a.state {
	case viewDeck:
		body = a.viewDeckBody(bodyHeight)
	case viewMatches:
		body = a.viewMatchesBody(bodyHeight)
	case viewVerify:
		body = a.viewVerifyBody(bodyHeight)
	case viewSettings:
		body = a.viewSettingsBody(bodyHeight)
	}

	screen := a.viewHeader() + "\n" + body + "\n" + a.viewFooter()

	switch {
	case a.matchWith != "":
		popup := matchStyle.Render("It's a match!") + "\n\n" +
			fmt.Sprintf("You and %s liked each other.", a.matchWith) + "\n\n" +
			helpStyle.Render("press any key")
		return renderPopup(screen, popup, a.width, a.height)
	case a.modal == modalFilter:
		return renderPopup(screen, a.viewFilterModal(), a.width, a.height)
	case a.modal == modalReport:
		return renderPopup(screen, a.viewReportModal(), a.width, a.height)
	}
	return screen
}

func (a *App) viewHeader() string {
	tabs := []struct {
		label string
		state viewState
	}{
		{"deck", viewDeck},
		{"matches", viewMatches},
		{"verify", viewVerify},
		{"settings", viewSettings},
	}
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, titleStyle.Render("duet"))
	for _, t := range tabs {
		label := t.label
		if t.label == "matches" && len(a.matches) > 0 {
			label = fmt.Sprintf("%s (%d)", t.label, len(a.matches))
		}
		if a.state == t.state {
			parts = append(parts, lipgloss.NewStyle().Foreground(colorAccent).Underline(true).Render(label))
		} else {
			parts = append(parts, helpStyle.Render(label))
		}
	}
	line := strings.Join(parts, "  ")
	return padRight(line, a.width) + "\n" + helpStyle.Render(strings.Repeat("─", a.width))
}

func (a *App) viewFooter() string {
	var help string
	switch {
	case a.modal == modalFilter:
		help = "tab fields · ←/→ adjust · type interest · ctrl+y pick · p preset · 1-9 apply · enter save · esc close"
	case a.modal == modalReport:
		help = "↑/↓ reason · type detail · enter submit · esc cancel"
	case a.state == viewDeck:
		help = "drag or ←/→ swipe · f filter · m matches · v verify · s settings · b block · x report · r reload · q quit"
	case a.state == viewMatches:
		help = "esc back · q quit"
	case a.state == viewVerify:
		help = "tab fields · type · enter run · esc back"
	case a.state == viewSettings && a.editingURL:
		help = "type url · enter apply · esc cancel"
	case a.state == viewSettings:
		help = "+/- threshold · u edit verify url · w write config · esc back"
	}

	status := ""
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	} else if a.status != "" {
		status = statusStyle.Render(a.status)
	}
	return padRight(status, a.width) + "\n" + padRight(helpStyle.Render(help), a.width)
}

func (a *App) viewDeckBody(height int) string {
	if len(a.deck) == 0 {
		msg := "No more profiles nearby"
		if !a.deckExhausted {
			msg = "Loading profiles..."
		}
		empty := statusStyle.Render(msg) + "\n\n" + helpStyle.Render("f adjust filters · r reload")
		return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, empty)
	}
	return renderDeck(a.deck, a.cfg.Swipe.StackDepth, a.engine, a.renderCard, a.width, height)
}

func (a *App) viewMatchesBody(height int) string {
	if len(a.matches) == 0 {
		return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center,
			statusStyle.Render("No matches yet. Keep swiping!"))
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your matches") + "\n\n")
	for _, p := range a.matches {
		name := fmt.Sprintf("%s, %d", p.Name, p.Age)
		if p.Verified {
			name += " " + badgeStyle.Render("✓")
		}
		b.WriteString("  " + matchStyle.Render("♥") + " " + name)
		b.WriteString(helpStyle.Render("  "+p.City) + "\n")
	}
	return paintAt(blankCanvas(a.width, height), b.String(), 2, 1, a.width, height)
}

func (a *App) viewVerifyBody(height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Get verified") + "\n")
	b.WriteString(statusStyle.Render("Check a photo, enroll a template, then pass a liveness check.") + "\n\n")
	for i := 0; i < vfCount; i++ {
		cursor := "  "
		style := statusStyle
		if i == a.verify.field {
			cursor = lipgloss.NewStyle().Foreground(colorAccent).Render("> ")
			style = lipgloss.NewStyle().Foreground(colorText)
		}
		value := a.verify.values[i]
		if i == a.verify.field {
			value += "▏"
		}
		b.WriteString(cursor + style.Render(verifyLabels[i]+": "+value) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter on a bank field runs the penny-drop check"))
	return paintAt(blankCanvas(a.width, height), b.String(), 2, 1, a.width, height)
}

func (a *App) viewSettingsBody(height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n\n")
	verifyURL := a.cfg.Verify.BaseURL
	if a.editingURL {
		verifyURL = a.urlBuffer + "▏"
	}
	rows := []struct{ label, value string }{
		{"Profile", a.cfg.User.ID},
		{"Database", a.cfg.Database.Path},
		{"Swipe threshold", fmt.Sprintf("%.0f%% of screen width", a.cfg.Swipe.Threshold*100)},
		{"Commit animation", fmt.Sprintf("%dms", a.cfg.Swipe.CommitMs)},
		{"Snap-back", fmt.Sprintf("%dms", a.cfg.Swipe.SnapMs)},
		{"Stack depth", fmt.Sprintf("%d", a.cfg.Swipe.StackDepth)},
		{"Verify service", verifyURL},
		{"Bank service", a.cfg.Bank.BaseURL},
	}
	for _, r := range rows {
		b.WriteString("  " + statusStyle.Render(fmt.Sprintf("%-18s", r.label)) + r.value + "\n")
	}
	return paintAt(blankCanvas(a.width, height), b.String(), 2, 1, a.width, height)
}

func (a *App) viewFilterModal() string {
	f := a.filter
	var b strings.Builder
	b.WriteString(titleStyle.Render("Deck filters") + "\n\n")

	fields := []string{
		fmt.Sprintf("Min age       %d", f.minAge),
		fmt.Sprintf("Max age       %d", f.maxAge),
		fmt.Sprintf("Verified only %s", onOff(f.verifiedOnly)),
		fmt.Sprintf("Interest      %s▏", f.query),
	}
	for i, line := range fields {
		cursor := "  "
		if i == f.field {
			cursor = lipgloss.NewStyle().Foreground(colorAccent).Render("> ")
		}
		b.WriteString(cursor + line + "\n")
	}

	if f.field == 3 && len(f.suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range f.suggestions {
			b.WriteString(helpStyle.Render("    "+s.Interest.Name) + "\n")
		}
	}

	if len(f.presets) > 0 {
		b.WriteString("\n" + statusStyle.Render("Presets:") + "\n")
		for i, p := range f.presets {
			if i >= 9 {
				break
			}
			b.WriteString(helpStyle.Render(fmt.Sprintf("    %d. %s (%d-%d)", i+1, p.Name, p.MinAge, p.MaxAge)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) viewReportModal() string {
	var b strings.Builder
	name := ""
	if len(a.deck) > 0 {
		name = " " + a.deck[0].Name
	}
	b.WriteString(titleStyle.Render("Report"+name) + "\n\n")
	for i, reason := range service.ReportReasons {
		cursor := "  "
		style := statusStyle
		if i == a.report.reason {
			cursor = lipgloss.NewStyle().Foreground(colorAccent).Render("> ")
			style = lipgloss.NewStyle().Foreground(colorText)
		}
		b.WriteString(cursor + style.Render(reason) + "\n")
	}
	b.WriteString("\n" + statusStyle.Render("Detail: "+a.report.detail+"▏"))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Package tui is the terminal front end: a card deck driven by the swipe
// engine, plus matches, verification and settings views. One App model
// owns all state; bubbletea delivers every event on a single loop, so the
// engine's single-threaded contract holds by construction.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duet-dating/duet/internal/config"
	"github.com/duet-dating/duet/internal/database/repository"
	"github.com/duet-dating/duet/internal/prefs"
	"github.com/duet-dating/duet/internal/service"
	"github.com/duet-dating/duet/internal/swipe"
)

const frameInterval = 16 * time.Millisecond

type viewState int

const (
	viewDeck viewState = iota
	viewMatches
	viewVerify
	viewSettings
)

type modalState int

const (
	modalNone modalState = iota
	modalFilter
	modalReport
)

// Services bundles the application services the TUI drives.
type Services struct {
	Deck         *service.DeckService
	Moderation   *service.ModerationService
	Verification *service.VerificationService
	KYC          *service.KYCService
}

type pendingDecision struct {
	profile   repository.Profile
	direction string
}

type filterForm struct {
	field        int // 0 min age, 1 max age, 2 verified, 3 interest
	minAge       int
	maxAge       int
	verifiedOnly bool
	query        string
	suggestions  []service.InterestSuggestion
	picked       *repository.Interest
	presets      []prefs.Preset
}

type reportForm struct {
	reason int
	detail string
}

const (
	vfPhotoPath = iota
	vfEnrollURLs
	vfLivenessFrame
	vfIFSC
	vfAccount
	vfHolder
	vfCount
)

var verifyLabels = [vfCount]string{
	"Photo to check",
	"Enroll photo URLs (comma separated, min 4)",
	"Liveness frame",
	"IFSC code",
	"Account number",
	"Account holder name",
}

type verifyForm struct {
	field  int
	values [vfCount]string
}

// App is the bubbletea model for the whole program.
type App struct {
	ctx context.Context
	cfg config.Config
	svc Services

	engine     *swipe.Engine
	renderCard CardRenderer

	deck          []repository.Profile
	matches       []repository.Profile
	pending       *pendingDecision
	deckExhausted bool

	state viewState
	modal modalState

	filter filterForm
	report reportForm
	verify verifyForm

	animStart time.Time
	matchWith string

	editingURL bool
	urlBuffer  string

	status string
	err    error

	width, height int
}

// Option customizes the App at construction time.
type Option func(*App)

// WithCardRenderer swaps the card visual while keeping all gesture and
// deck behavior.
func WithCardRenderer(r CardRenderer) Option {
	return func(a *App) { a.renderCard = r }
}

func New(ctx context.Context, cfg config.Config, svc Services, opts ...Option) *App {
	a := &App{
		ctx: ctx,
		cfg: cfg,
		svc: svc,
		engine: swipe.New(swipe.Config{
			ThresholdFrac:  cfg.Swipe.Threshold,
			CommitDuration: time.Duration(cfg.Swipe.CommitMs) * time.Millisecond,
			SnapDuration:   time.Duration(cfg.Swipe.SnapMs) * time.Millisecond,
			Margin:         float64(cfg.Swipe.Margin),
		}),
		renderCard: defaultCard,
		filter:     filterForm{minAge: 18, maxAge: 99},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadDeck(), a.loadMatches())
}

// Messages

type errMsg struct{ err error }
type statusMsg string
type deckMsg struct{ profiles []repository.Profile }
type matchesMsg struct{ profiles []repository.Profile }
type decisionMsg struct {
	name   string
	result service.DecisionResult
}
type moderationMsg string
type suggestionsMsg []service.InterestSuggestion
type presetsMsg []prefs.Preset
type prefsSavedMsg struct{}
type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) frontID() string {
	if len(a.deck) == 0 {
		return ""
	}
	return a.deck[0].ID
}

// frame builds the engine's host context for the current event. Hooks are
// rebuilt on every call so they always close over the live deck.
func (a *App) frame() swipe.Frame {
	return swipe.Frame{
		FrontID: a.frontID(),
		Count:   len(a.deck),
		Hooks: swipe.Hooks{
			CommitLeft:  func(i int) { a.removeCard(i, repository.DecisionPass) },
			CommitRight: func(i int) { a.removeCard(i, repository.DecisionLike) },
			Exhausted:   func() { a.deckExhausted = true },
		},
	}
}

func (a *App) removeCard(i int, direction string) {
	if i < 0 || i >= len(a.deck) {
		return
	}
	a.pending = &pendingDecision{profile: a.deck[i], direction: direction}
	a.deck = append(a.deck[:i], a.deck[i+1:]...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The reset protocol reacts to the deck the host presents now, before
	// this event is interpreted. Post-commit state survives until the
	// front card actually changes.
	a.engine.Observe(a.frontID())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.engine.SetWidth(float64(msg.Width))
		return a, nil

	case frameMsg:
		return a.updateFrame()

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case deckMsg:
		a.deck = msg.profiles
		a.deckExhausted = len(a.deck) == 0
		return a, nil

	case matchesMsg:
		a.matches = msg.profiles
		return a, nil

	case decisionMsg:
		if msg.result.Matched {
			a.matchWith = msg.name
			return a, a.loadMatches()
		}
		a.status = fmt.Sprintf("Recorded %s", msg.name)
		return a, nil

	case moderationMsg:
		a.status = string(msg)
		return a, a.loadDeck()

	case suggestionsMsg:
		a.filter.suggestions = msg
		return a, nil

	case presetsMsg:
		a.filter.presets = msg
		return a, nil

	case prefsSavedMsg:
		a.modal = modalNone
		a.status = "Filters saved"
		return a, a.loadDeck()

	case statusMsg:
		a.status = string(msg)
		a.err = nil
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil
	}
	return a, nil
}

// updateFrame advances an in-flight animation. A finished commit fires the
// engine's callbacks, which mutate the deck, and the resulting decision is
// persisted asynchronously; the engine's reset waits for the next event to
// observe the new front card.
func (a *App) updateFrame() (tea.Model, tea.Cmd) {
	if !a.engine.Animating() {
		return a, nil
	}
	done := a.engine.Advance(time.Since(a.animStart))
	if !done {
		return a, frameTick()
	}
	if a.engine.Latched() && !a.engine.Delivered() {
		a.engine.FinishCommit(a.frame())
		if a.pending != nil {
			p := *a.pending
			a.pending = nil
			return a, a.recordDecision(p)
		}
	}
	return a, nil
}

func (a *App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.state != viewDeck || a.modal != modalNone || a.matchWith != "" {
		return a, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || len(a.deck) == 0 {
			return a, nil
		}
		a.engine.Begin(a.frontID(), float64(msg.X), float64(msg.Y))
		return a, nil
	case tea.MouseActionMotion:
		a.engine.Move(float64(msg.X), float64(msg.Y))
		return a, nil
	case tea.MouseActionRelease:
		if !a.engine.Dragging() {
			return a, nil
		}
		if a.engine.Release(a.frame()) != swipe.OutcomeNone {
			a.animStart = time.Now()
			return a, frameTick()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.matchWith != "" {
		a.matchWith = ""
		return a, nil
	}
	switch a.modal {
	case modalFilter:
		return a.updateFilterKey(msg)
	case modalReport:
		return a.updateReportKey(msg)
	}
	switch a.state {
	case viewDeck:
		return a.updateDeckKey(msg)
	case viewMatches:
		return a.updateMatchesKey(msg)
	case viewVerify:
		return a.updateVerifyKey(msg)
	case viewSettings:
		return a.updateSettingsKey(msg)
	}
	return a, nil
}

func (a *App) updateDeckKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "left", "h":
		return a, a.keySwipe(swipe.DirectionLeft)
	case "right", "l":
		return a, a.keySwipe(swipe.DirectionRight)
	case "m":
		a.state = viewMatches
		return a, a.loadMatches()
	case "v":
		a.state = viewVerify
		return a, nil
	case "s":
		a.state = viewSettings
		return a, nil
	case "f":
		a.modal = modalFilter
		a.filter.field = 0
		a.filter.query = ""
		a.filter.picked = nil
		return a, tea.Batch(a.loadSuggestions(""), a.loadPresets())
	case "x":
		if len(a.deck) == 0 {
			return a, nil
		}
		a.modal = modalReport
		a.report = reportForm{}
		return a, nil
	case "b":
		if len(a.deck) == 0 {
			return a, nil
		}
		return a, a.blockFront()
	case "r":
		a.deckExhausted = false
		return a, a.loadDeck()
	}
	return a, nil
}

// keySwipe synthesizes a full gesture just past the threshold so keyboard
// users get the same decision path as a drag.
func (a *App) keySwipe(dir swipe.Direction) tea.Cmd {
	if a.engine.Latched() || len(a.deck) == 0 {
		return nil
	}
	a.engine.Begin(a.frontID(), 0, 0)
	dist := a.engine.Threshold() + 1
	if dir == swipe.DirectionLeft {
		dist = -dist
	}
	a.engine.Move(dist, 0)
	if a.engine.Release(a.frame()) == swipe.OutcomeNone {
		return nil
	}
	a.animStart = time.Now()
	return frameTick()
}

func (a *App) updateMatchesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDeck
	case "v":
		a.state = viewVerify
	case "s":
		a.state = viewSettings
	}
	return a, nil
}

func (a *App) updateVerifyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.verify
	switch msg.String() {
	case "esc":
		a.state = viewDeck
		return a, nil
	case "tab", "down":
		f.field = (f.field + 1) % vfCount
		return a, nil
	case "shift+tab", "up":
		f.field = (f.field + vfCount - 1) % vfCount
		return a, nil
	case "backspace":
		v := f.values[f.field]
		if len(v) > 0 {
			f.values[f.field] = v[:len(v)-1]
		}
		return a, nil
	case "enter":
		return a, a.runVerifyAction()
	}
	if msg.Type == tea.KeyRunes {
		f.values[f.field] += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		f.values[f.field] += " "
	}
	return a, nil
}

func (a *App) runVerifyAction() tea.Cmd {
	f := a.verify
	switch f.field {
	case vfPhotoPath:
		return a.checkPhoto(f.values[vfPhotoPath])
	case vfEnrollURLs:
		var urls []string
		for _, u := range strings.Split(f.values[vfEnrollURLs], ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		return a.enroll(urls)
	case vfLivenessFrame:
		return a.liveness(f.values[vfLivenessFrame])
	case vfIFSC:
		return a.lookupIFSC(f.values[vfIFSC])
	case vfAccount, vfHolder:
		return a.pennyDrop(f.values[vfAccount], f.values[vfIFSC], f.values[vfHolder])
	}
	return nil
}

func (a *App) updateSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editingURL {
		switch msg.String() {
		case "esc":
			a.editingURL = false
		case "enter":
			a.cfg.Verify.BaseURL = strings.TrimSpace(a.urlBuffer)
			a.editingURL = false
			a.status = "Verify endpoint updated, press w to persist"
		case "backspace":
			if len(a.urlBuffer) > 0 {
				a.urlBuffer = a.urlBuffer[:len(a.urlBuffer)-1]
			}
		default:
			if msg.Type == tea.KeyRunes {
				a.urlBuffer += string(msg.Runes)
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDeck
		return a, nil
	case "+", "=":
		if a.cfg.Swipe.Threshold < 0.9 {
			a.cfg.Swipe.Threshold += 0.05
		}
		return a, nil
	case "-":
		if a.cfg.Swipe.Threshold > 0.1 {
			a.cfg.Swipe.Threshold -= 0.05
		}
		return a, nil
	case "u":
		a.editingURL = true
		a.urlBuffer = a.cfg.Verify.BaseURL
		return a, nil
	case "w":
		cfg := a.cfg
		return a, func() tea.Msg {
			if err := config.Save(cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("Config written")
		}
	}
	return a, nil
}

func (a *App) updateFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.filter
	switch msg.String() {
	case "esc":
		a.modal = modalNone
		return a, nil
	case "tab", "down":
		f.field = (f.field + 1) % 4
		return a, nil
	case "shift+tab", "up":
		f.field = (f.field + 3) % 4
		return a, nil
	case "enter":
		return a, a.savePreferences()
	case "left":
		switch f.field {
		case 0:
			if f.minAge > 18 {
				f.minAge--
			}
		case 1:
			if f.maxAge > f.minAge {
				f.maxAge--
			}
		case 2:
			f.verifiedOnly = !f.verifiedOnly
		}
		return a, nil
	case "right":
		switch f.field {
		case 0:
			if f.minAge < f.maxAge {
				f.minAge++
			}
		case 1:
			if f.maxAge < 99 {
				f.maxAge++
			}
		case 2:
			f.verifiedOnly = !f.verifiedOnly
		}
		return a, nil
	case "backspace":
		if f.field == 3 && len(f.query) > 0 {
			f.query = f.query[:len(f.query)-1]
			f.picked = nil
			return a, a.loadSuggestions(f.query)
		}
		return a, nil
	}

	if f.field == 3 {
		if msg.Type == tea.KeyRunes {
			f.query += string(msg.Runes)
			f.picked = nil
			return a, a.loadSuggestions(f.query)
		}
		if msg.String() == "ctrl+y" && len(f.suggestions) > 0 {
			top := f.suggestions[0].Interest
			f.picked = &top
			f.query = top.Name
			return a, nil
		}
		return a, nil
	}

	switch msg.String() {
	case "p":
		return a, a.saveAsPreset()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(f.presets) {
			a.applyPreset(f.presets[idx])
		}
		return a, nil
	}
	return a, nil
}

func (a *App) applyPreset(p prefs.Preset) {
	a.filter.minAge = p.MinAge
	a.filter.maxAge = p.MaxAge
	a.filter.verifiedOnly = p.VerifiedOnly
	a.filter.query = p.Interest
	a.filter.picked = nil
	a.status = fmt.Sprintf("Applied preset %q", p.Name)
}

func (a *App) updateReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &a.report
	switch msg.String() {
	case "esc":
		a.modal = modalNone
		return a, nil
	case "up":
		if r.reason > 0 {
			r.reason--
		}
		return a, nil
	case "down":
		if r.reason < len(service.ReportReasons)-1 {
			r.reason++
		}
		return a, nil
	case "backspace":
		if len(r.detail) > 0 {
			r.detail = r.detail[:len(r.detail)-1]
		}
		return a, nil
	case "enter":
		a.modal = modalNone
		return a, a.reportFront(service.ReportReasons[r.reason], r.detail)
	}
	if msg.Type == tea.KeyRunes {
		r.detail += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		r.detail += " "
	}
	return a, nil
}

// Commands

func (a *App) loadDeck() tea.Cmd {
	return func() tea.Msg {
		profiles, err := a.svc.Deck.BuildDeck(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load deck: %w", err)}
		}
		return deckMsg{profiles: profiles}
	}
}

func (a *App) loadMatches() tea.Cmd {
	return func() tea.Msg {
		profiles, err := a.svc.Deck.MatchedProfiles(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load matches: %w", err)}
		}
		return matchesMsg{profiles: profiles}
	}
}

func (a *App) recordDecision(p pendingDecision) tea.Cmd {
	return func() tea.Msg {
		res, err := a.svc.Deck.RecordDecision(a.ctx, p.profile.ID, p.direction)
		if err != nil {
			return errMsg{fmt.Errorf("record decision: %w", err)}
		}
		return decisionMsg{name: p.profile.Name, result: res}
	}
}

func (a *App) blockFront() tea.Cmd {
	p := a.deck[0]
	return func() tea.Msg {
		if err := a.svc.Moderation.Block(a.ctx, p.ID); err != nil {
			return errMsg{err}
		}
		return moderationMsg(fmt.Sprintf("Blocked %s", p.Name))
	}
}

func (a *App) reportFront(reason, detail string) tea.Cmd {
	if len(a.deck) == 0 {
		return nil
	}
	p := a.deck[0]
	return func() tea.Msg {
		if err := a.svc.Moderation.Report(a.ctx, p.ID, reason, detail); err != nil {
			return errMsg{err}
		}
		return moderationMsg(fmt.Sprintf("Reported %s", p.Name))
	}
}

func (a *App) loadSuggestions(query string) tea.Cmd {
	return func() tea.Msg {
		s, err := a.svc.Deck.SuggestInterests(a.ctx, query, 5)
		if err != nil {
			return errMsg{err}
		}
		return suggestionsMsg(s)
	}
}

func (a *App) loadPresets() tea.Cmd {
	return func() tea.Msg {
		p, err := prefs.LoadPresets()
		if err != nil {
			return errMsg{fmt.Errorf("load presets: %w", err)}
		}
		return presetsMsg(p)
	}
}

func (a *App) saveAsPreset() tea.Cmd {
	f := a.filter
	preset := prefs.Preset{
		Name:         fmt.Sprintf("preset %d", len(f.presets)+1),
		MinAge:       f.minAge,
		MaxAge:       f.maxAge,
		VerifiedOnly: f.verifiedOnly,
		Interest:     f.query,
	}
	updated := append(append([]prefs.Preset(nil), f.presets...), preset)
	return func() tea.Msg {
		if err := prefs.SavePresets(updated); err != nil {
			return errMsg{fmt.Errorf("save preset: %w", err)}
		}
		return presetsMsg(updated)
	}
}

func (a *App) savePreferences() tea.Cmd {
	f := a.filter
	return func() tea.Msg {
		pref := repository.Preference{
			MinAge:       f.minAge,
			MaxAge:       f.maxAge,
			VerifiedOnly: f.verifiedOnly,
		}
		if f.picked != nil {
			id := f.picked.ID
			pref.InterestID = &id
		}
		if err := a.svc.Deck.SavePreferences(a.ctx, pref); err != nil {
			return errMsg{fmt.Errorf("save preferences: %w", err)}
		}
		return prefsSavedMsg{}
	}
}

func (a *App) checkPhoto(path string) tea.Cmd {
	return func() tea.Msg {
		d, err := a.svc.Verification.CheckPhoto(a.ctx, path)
		if err != nil {
			return errMsg{err}
		}
		if d.Accepted() {
			return statusMsg(fmt.Sprintf("Photo accepted (%d face)", d.FacesCount))
		}
		return statusMsg(fmt.Sprintf("Photo rejected: %s", d.Message))
	}
}

func (a *App) enroll(urls []string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.Verification.Enroll(a.ctx, urls); err != nil {
			return errMsg{err}
		}
		return statusMsg("Template enrolled, run a liveness check to verify")
	}
}

func (a *App) liveness(framePath string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.svc.Verification.Liveness(a.ctx, framePath)
		if err != nil {
			return errMsg{err}
		}
		if res.IsMatch {
			return statusMsg(fmt.Sprintf("Verified! similarity %.2f (threshold %.2f)", res.Similarity, res.Threshold))
		}
		return statusMsg(fmt.Sprintf("Not a match: %s (similarity %.2f)", res.Reason, res.Similarity))
	}
}

func (a *App) lookupIFSC(code string) tea.Cmd {
	return func() tea.Msg {
		b, err := a.svc.KYC.LookupBranch(a.ctx, code)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("%s, %s branch, %s", b.Bank, b.Branch, b.City))
	}
}

func (a *App) pennyDrop(account, ifsc, holder string) tea.Cmd {
	return func() tea.Msg {
		pd, err := a.svc.KYC.VerifyAccount(a.ctx, account, ifsc, holder)
		if err != nil {
			return errMsg{err}
		}
		if pd.Verified() {
			return statusMsg(fmt.Sprintf("Account verified, name at bank: %s", pd.NameAtBank))
		}
		return statusMsg(fmt.Sprintf("Account check %s: %s", pd.Status, pd.Message))
	}
}

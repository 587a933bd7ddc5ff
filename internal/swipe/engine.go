// Package swipe implements the deck gesture state machine: a single drag
// session on the top card, a snap-or-commit decision on release, and a
// reset protocol keyed on the front card identifier so the card only snaps
// back to center once the host has actually handed down a new deck.
package swipe

import "time"

// Direction classifies the horizontal sense of a gesture or commit.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// Outcome is the result of releasing a drag.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSnapBack
	OutcomeCommitLeft
	OutcomeCommitRight
)

// Gesture is the descriptor handed to the card renderer for the top card
// while a drag is in progress. Progress is clamped to [0,1] and drives
// visual feedback only; it has no bearing on the commit decision.
type Gesture struct {
	Direction Direction
	Progress  float64
}

// Hooks carries the host callbacks for one decision. They are supplied
// fresh on every call so the engine never holds a stale callback set.
type Hooks struct {
	CommitLeft  func(index int)
	CommitRight func(index int)
	Exhausted   func()
}

// Frame is the host context for a single event: the identifier of the
// current front card, the deck length, and the callbacks to notify.
type Frame struct {
	FrontID string
	Count   int
	Hooks   Hooks
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Width          float64       // draggable area width
	ThresholdFrac  float64       // commit threshold as a fraction of width
	CommitDuration time.Duration // off-stage slide duration
	SnapDuration   time.Duration // snap-back duration
	Margin         float64       // extra distance past the edge for off-stage
}

const (
	defaultThresholdFrac = 0.25
	defaultCommitMillis  = 300
	defaultSnapMillis    = 180
	defaultMargin        = 30

	maxRotationDeg  = 30
	rotationSpanMul = 1.5
)

type phase int

const (
	phaseIdle phase = iota
	phaseDragging
	phaseSnapBack
	phaseCommit
)

// Engine tracks one gesture session and at most one in-flight commit
// animation. It is not safe for concurrent use; every method is expected
// to run on the host's single update loop.
type Engine struct {
	cfg Config

	phase    phase
	originID string // front id captured when the session began

	startX, startY float64
	dx, dy         float64
	opacity        float64

	snapFromX, snapFromY float64

	commitDir   Direction
	commitFromX float64
	commitY     float64
	exhausted   bool
	delivered   bool

	lastFront string
	frontSeen bool
}

// New builds an engine with defaults applied for unset config fields.
func New(cfg Config) *Engine {
	if cfg.ThresholdFrac <= 0 {
		cfg.ThresholdFrac = defaultThresholdFrac
	}
	if cfg.CommitDuration <= 0 {
		cfg.CommitDuration = defaultCommitMillis * time.Millisecond
	}
	if cfg.SnapDuration <= 0 {
		cfg.SnapDuration = defaultSnapMillis * time.Millisecond
	}
	if cfg.Margin <= 0 {
		cfg.Margin = defaultMargin
	}
	return &Engine{cfg: cfg, opacity: 1}
}

// SetWidth updates the draggable area width (terminal resize). It does not
// disturb any in-flight session or animation.
func (e *Engine) SetWidth(w float64) { e.cfg.Width = w }

// Threshold returns the commit distance in the same units as the offset.
func (e *Engine) Threshold() float64 { return e.cfg.ThresholdFrac * e.cfg.Width }

// Latched reports whether a commit animation is in flight. While latched,
// Begin, Move and Release are all no-ops.
func (e *Engine) Latched() bool { return e.phase == phaseCommit }

// Dragging reports whether a gesture session is active.
func (e *Engine) Dragging() bool { return e.phase == phaseDragging }

// Animating reports whether Advance currently has work to do.
func (e *Engine) Animating() bool { return e.phase == phaseSnapBack || e.phase == phaseCommit }

// Offset returns the current card displacement from rest.
func (e *Engine) Offset() (dx, dy float64) { return e.dx, e.dy }

// Opacity returns the current card opacity in [0,1].
func (e *Engine) Opacity() float64 { return e.opacity }

// OriginID returns the front id captured at session start, or the id the
// in-flight commit was decided against. Empty when idle.
func (e *Engine) OriginID() string { return e.originID }

// Direction derives the gesture direction from the horizontal offset.
// It is none only when dx is exactly zero.
func (e *Engine) Direction() Direction {
	switch {
	case e.dx > 0:
		return DirectionRight
	case e.dx < 0:
		return DirectionLeft
	default:
		return DirectionNone
	}
}

// Progress returns the normalized commitment amount min(|dx|/threshold, 1).
func (e *Engine) Progress() float64 {
	t := e.Threshold()
	if t <= 0 {
		return 0
	}
	p := abs(e.dx) / t
	if p > 1 {
		p = 1
	}
	return p
}

// Gesture returns the renderer descriptor for the top card and whether a
// drag session is active.
func (e *Engine) Gesture() (Gesture, bool) {
	if e.phase != phaseDragging {
		return Gesture{}, false
	}
	return Gesture{Direction: e.Direction(), Progress: e.Progress()}, true
}

// Rotation returns the card tilt in degrees: linear between -30° at
// -1.5×width and +30° at +1.5×width, clamped at the extremes.
func (e *Engine) Rotation() float64 {
	span := rotationSpanMul * e.cfg.Width
	if span <= 0 {
		return 0
	}
	r := e.dx / span * maxRotationDeg
	if r > maxRotationDeg {
		return maxRotationDeg
	}
	if r < -maxRotationDeg {
		return -maxRotationDeg
	}
	return r
}

// Begin starts a gesture session on the front card. It returns false while
// the commit latch is set; a touch during a snap-back cancels the snap-back
// and starts a fresh session.
func (e *Engine) Begin(frontID string, x, y float64) bool {
	if e.phase == phaseCommit {
		return false
	}
	e.phase = phaseDragging
	e.originID = frontID
	e.startX, e.startY = x, y
	e.dx, e.dy = 0, 0
	e.opacity = 1
	return true
}

// Move updates the offset 1:1 with the pointer. Events outside an active
// session (including while latched) are no-ops.
func (e *Engine) Move(x, y float64) {
	if e.phase != phaseDragging {
		return
	}
	e.dx = x - e.startX
	e.dy = y - e.startY
}

// Release ends the session and classifies it. The threshold comparison is
// strict: dx equal to the threshold snaps back. On commit the latch is set
// and the exhaustion flag is evaluated against the deck length before the
// host removes anything. Callbacks do not fire here; they fire from
// FinishCommit once the off-stage animation has run its course.
func (e *Engine) Release(frame Frame) Outcome {
	if e.phase != phaseDragging {
		return OutcomeNone
	}
	t := e.Threshold()
	switch {
	case e.dx > t:
		e.beginCommit(DirectionRight, frame)
		return OutcomeCommitRight
	case e.dx < -t:
		e.beginCommit(DirectionLeft, frame)
		return OutcomeCommitLeft
	default:
		e.phase = phaseSnapBack
		e.snapFromX, e.snapFromY = e.dx, e.dy
		return OutcomeSnapBack
	}
}

func (e *Engine) beginCommit(dir Direction, frame Frame) {
	e.phase = phaseCommit
	e.commitDir = dir
	e.commitFromX = e.dx
	e.commitY = e.dy
	e.exhausted = frame.Count <= 1
	e.delivered = false
}

// Advance moves animation state to the given elapsed time since the
// release that started it. It reports whether the animation has finished.
// A finished commit leaves the card off-stage and transparent; position
// and opacity are only restored by Observe seeing a new front id.
func (e *Engine) Advance(elapsed time.Duration) (done bool) {
	switch e.phase {
	case phaseCommit:
		f := fraction(elapsed, e.cfg.CommitDuration)
		target := e.cfg.Width + e.cfg.Margin
		if e.commitDir == DirectionLeft {
			target = -target
		}
		e.dx = e.commitFromX + (target-e.commitFromX)*f
		e.dy = e.commitY
		// fade completes at the animation midpoint so the card is
		// invisible before it leaves the viewport
		e.opacity = 1 - fraction(elapsed, e.cfg.CommitDuration/2)
		return f >= 1
	case phaseSnapBack:
		f := easeOut(fraction(elapsed, e.cfg.SnapDuration))
		e.dx = e.snapFromX * (1 - f)
		e.dy = e.snapFromY * (1 - f)
		if f >= 1 {
			e.phase = phaseIdle
			e.originID = ""
			e.dx, e.dy = 0, 0
		}
		return f >= 1
	default:
		return true
	}
}

// FinishCommit delivers the decision callbacks exactly once: the commit
// callback for index 0 first, then Exhausted iff the deck held a single
// card when the decision was made. The latch stays set; Observe clears it.
func (e *Engine) FinishCommit(frame Frame) {
	if e.phase != phaseCommit || e.delivered {
		return
	}
	e.delivered = true
	switch e.commitDir {
	case DirectionLeft:
		if frame.Hooks.CommitLeft != nil {
			frame.Hooks.CommitLeft(0)
		}
	case DirectionRight:
		if frame.Hooks.CommitRight != nil {
			frame.Hooks.CommitRight(0)
		}
	}
	if e.exhausted && frame.Hooks.Exhausted != nil {
		frame.Hooks.Exhausted()
	}
}

// Delivered reports whether the in-flight commit has fired its callbacks.
func (e *Engine) Delivered() bool { return e.phase == phaseCommit && e.delivered }

// Observe compares the host's current front id against the last one seen
// and performs the full reset exactly when it changed: offset to (0,0),
// opacity to 1, latch cleared, session discarded. An unchanged id leaves
// post-commit state alone indefinitely; a host that never removes the
// committed card is an integration bug this engine deliberately does not
// paper over.
func (e *Engine) Observe(frontID string) (reset bool) {
	if !e.frontSeen {
		e.frontSeen = true
		e.lastFront = frontID
		return false
	}
	if frontID == e.lastFront {
		return false
	}
	e.lastFront = frontID
	e.phase = phaseIdle
	e.originID = ""
	e.dx, e.dy = 0, 0
	e.opacity = 1
	e.commitDir = DirectionNone
	e.delivered = false
	e.exhausted = false
	return true
}

func fraction(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// easeOut is a quadratic ease-out; any monotonic curve satisfies the
// snap-back contract.
func easeOut(f float64) float64 { return 1 - (1-f)*(1-f) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

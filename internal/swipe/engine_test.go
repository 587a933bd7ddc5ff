package swipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEngine(width float64) *Engine {
	return New(Config{
		Width:          width,
		CommitDuration: 300 * time.Millisecond,
		SnapDuration:   180 * time.Millisecond,
	})
}

// recorder collects callback invocations in order.
type recorder struct {
	events []string
}

func (r *recorder) frame(frontID string, count int) Frame {
	return Frame{
		FrontID: frontID,
		Count:   count,
		Hooks: Hooks{
			CommitLeft:  func(i int) { r.events = append(r.events, "left") },
			CommitRight: func(i int) { r.events = append(r.events, "right") },
			Exhausted:   func() { r.events = append(r.events, "exhausted") },
		},
	}
}

func drag(t *testing.T, e *Engine, frontID string, dx, dy float64) {
	t.Helper()
	require.True(t, e.Begin(frontID, 0, 0))
	e.Move(dx, dy)
}

func TestThresholdBoundary(t *testing.T) {
	t.Parallel()

	// width 400 -> threshold 100
	cases := []struct {
		name string
		dx   float64
		want Outcome
	}{
		{"exactly at threshold snaps back", 100, OutcomeSnapBack},
		{"just past threshold commits right", 100.0001, OutcomeCommitRight},
		{"exactly at negative threshold snaps back", -100, OutcomeSnapBack},
		{"just past negative threshold commits left", -100.0001, OutcomeCommitLeft},
		{"zero snaps back", 0, OutcomeSnapBack},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(400)
			e.Observe("a")
			rec := &recorder{}
			drag(t, e, "a", tc.dx, 0)
			require.Equal(t, tc.want, e.Release(rec.frame("a", 3)))
		})
	}
}

func TestCommitFiresOncePerItem(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}

	drag(t, e, "a", 200, 0)
	require.Equal(t, OutcomeCommitRight, e.Release(rec.frame("a", 3)))
	require.Empty(t, rec.events, "no callback before the animation completes")

	require.True(t, e.Advance(300*time.Millisecond))
	e.FinishCommit(rec.frame("a", 3))
	e.FinishCommit(rec.frame("a", 3)) // second completion must be inert
	require.Equal(t, []string{"right"}, rec.events)
}

func TestExhaustionPairing(t *testing.T) {
	t.Parallel()

	t.Run("sole remaining card", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(400)
		e.Observe("z")
		rec := &recorder{}
		drag(t, e, "z", -150, 0)
		require.Equal(t, OutcomeCommitLeft, e.Release(rec.frame("z", 1)))
		require.True(t, e.Advance(time.Second))
		e.FinishCommit(rec.frame("z", 1))
		require.Equal(t, []string{"left", "exhausted"}, rec.events)
	})

	t.Run("cards remain", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(400)
		e.Observe("a")
		rec := &recorder{}
		drag(t, e, "a", 200, 0)
		require.Equal(t, OutcomeCommitRight, e.Release(rec.frame("a", 3)))
		require.True(t, e.Advance(time.Second))
		e.FinishCommit(rec.frame("a", 3))
		require.Equal(t, []string{"right"}, rec.events)
	})

	t.Run("exhaustion evaluated at decision time", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(400)
		e.Observe("z")
		rec := &recorder{}
		drag(t, e, "z", 200, 0)
		require.Equal(t, OutcomeCommitRight, e.Release(rec.frame("z", 1)))
		require.True(t, e.Advance(time.Second))
		// even if the host hands a larger count at completion, the
		// flag captured at release wins
		e.FinishCommit(rec.frame("z", 5))
		require.Equal(t, []string{"right", "exhausted"}, rec.events)
	})
}

func TestNoPrematureReset(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 200, 40)
	require.Equal(t, OutcomeCommitRight, e.Release(rec.frame("a", 3)))
	require.True(t, e.Advance(time.Second))
	e.FinishCommit(rec.frame("a", 3))

	offX, offY := e.Offset()
	require.Equal(t, 430.0, offX, "off-stage at width+margin")
	require.Equal(t, 40.0, offY, "vertical offset preserved from release")
	require.Equal(t, 0.0, e.Opacity())

	// host keeps supplying the same front id: no reset, ever
	for i := 0; i < 10; i++ {
		require.False(t, e.Observe("a"))
	}
	offX, offY = e.Offset()
	require.Equal(t, 430.0, offX)
	require.Equal(t, 40.0, offY)
	require.True(t, e.Latched())
}

func TestResetOnFrontChange(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 200, 10)
	e.Release(rec.frame("a", 3))
	require.True(t, e.Advance(time.Second))
	e.FinishCommit(rec.frame("a", 3))

	require.True(t, e.Observe("b"))
	dx, dy := e.Offset()
	require.Equal(t, 0.0, dx)
	require.Equal(t, 0.0, dy)
	require.Equal(t, 1.0, e.Opacity())
	require.False(t, e.Latched())
	require.Equal(t, DirectionNone, e.Direction())
	require.Equal(t, 0.0, e.Progress())

	// "b" is now draggable
	require.True(t, e.Begin("b", 0, 0))
}

func TestRotationBounds(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	require.True(t, e.Begin("a", 0, 0))

	cases := []struct {
		dx   float64
		want float64
	}{
		{-900, -30}, // past -1.5×width, clamped
		{-600, -30}, // exactly -1.5×width
		{-300, -15},
		{0, 0},
		{300, 15},
		{600, 30},
		{900, 30},
	}
	for _, tc := range cases {
		e.Move(tc.dx, 0)
		require.InDelta(t, tc.want, e.Rotation(), 1e-9, "dx=%v", tc.dx)
	}
}

func TestIgnoredInputWhileLatched(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 200, 0)
	e.Release(rec.frame("a", 2))
	e.Advance(150 * time.Millisecond)

	dx0, dy0 := e.Offset()
	op0 := e.Opacity()

	require.False(t, e.Begin("a", 5, 5))
	e.Move(999, 999)
	require.Equal(t, OutcomeNone, e.Release(rec.frame("a", 2)))

	dx1, dy1 := e.Offset()
	require.Equal(t, dx0, dx1)
	require.Equal(t, dy0, dy1)
	require.Equal(t, op0, e.Opacity())
	require.Empty(t, rec.events)
}

func TestOpacityFadesByMidpoint(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 200, 0)
	e.Release(rec.frame("a", 2))

	e.Advance(75 * time.Millisecond) // quarter of D
	require.InDelta(t, 0.5, e.Opacity(), 1e-9)

	done := e.Advance(150 * time.Millisecond) // midpoint
	require.False(t, done, "slide still in flight at midpoint")
	require.Equal(t, 0.0, e.Opacity(), "fully transparent at or before D/2")

	require.True(t, e.Advance(300*time.Millisecond))
	require.Equal(t, 0.0, e.Opacity())
}

func TestSnapBackAnimatesToRest(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 60, -20)
	require.Equal(t, OutcomeSnapBack, e.Release(rec.frame("a", 2)))
	require.False(t, e.Latched())

	require.False(t, e.Advance(90*time.Millisecond))
	dx, _ := e.Offset()
	require.Less(t, dx, 60.0)
	require.Greater(t, dx, 0.0)

	require.True(t, e.Advance(180*time.Millisecond))
	dx, dy := e.Offset()
	require.Equal(t, 0.0, dx)
	require.Equal(t, 0.0, dy)
	require.Empty(t, rec.events, "snap-back never fires a commit callback")

	// a fresh touch starts a new session unconditionally
	require.True(t, e.Begin("a", 0, 0))
}

func TestTouchDuringSnapBackStartsNewSession(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}
	drag(t, e, "a", 60, 0)
	e.Release(rec.frame("a", 2))
	e.Advance(50 * time.Millisecond)

	require.True(t, e.Begin("a", 10, 10))
	require.True(t, e.Dragging())
	dx, dy := e.Offset()
	require.Equal(t, 0.0, dx)
	require.Equal(t, 0.0, dy)
}

func TestGestureDescriptor(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400) // threshold 100
	e.Observe("a")

	_, ok := e.Gesture()
	require.False(t, ok, "no descriptor while idle")

	require.True(t, e.Begin("a", 0, 0))
	g, ok := e.Gesture()
	require.True(t, ok)
	require.Equal(t, DirectionNone, g.Direction, "direction none only at dx exactly 0")
	require.Equal(t, 0.0, g.Progress)

	e.Move(50, 0)
	g, _ = e.Gesture()
	require.Equal(t, DirectionRight, g.Direction)
	require.InDelta(t, 0.5, g.Progress, 1e-9)

	e.Move(-250, 0)
	g, _ = e.Gesture()
	require.Equal(t, DirectionLeft, g.Direction)
	require.Equal(t, 1.0, g.Progress, "progress clamped to 1")
}

func TestEndToEndCommitAndReset(t *testing.T) {
	t.Parallel()

	// candidates [a b c], width 400, threshold 100, dx=200
	e := newTestEngine(400)
	e.Observe("a")
	rec := &recorder{}

	drag(t, e, "a", 200, 0)
	require.Equal(t, OutcomeCommitRight, e.Release(rec.frame("a", 3)))
	require.True(t, e.Advance(time.Second))
	e.FinishCommit(rec.frame("a", 3))
	require.Equal(t, []string{"right"}, rec.events, "no exhaustion with 3 cards")

	// host removed "a" and supplies [b c]
	require.True(t, e.Observe("b"))
	dx, dy := e.Offset()
	require.Equal(t, 0.0, dx)
	require.Equal(t, 0.0, dy)
	require.False(t, e.Latched())
	require.True(t, e.Begin("b", 0, 0), "b is draggable")
}

func TestEndToEndExhaustion(t *testing.T) {
	t.Parallel()

	// candidates [z], dx=-150, threshold 100
	e := newTestEngine(400)
	e.Observe("z")
	rec := &recorder{}

	drag(t, e, "z", -150, 0)
	require.Equal(t, OutcomeCommitLeft, e.Release(rec.frame("z", 1)))
	require.True(t, e.Advance(time.Second))
	e.FinishCommit(rec.frame("z", 1))
	require.Equal(t, []string{"left", "exhausted"}, rec.events)

	// host supplies []: empty front id is a change, deck renders empty
	require.True(t, e.Observe(""))
	require.False(t, e.Latched())
	require.False(t, e.Dragging())
}

func TestNewFrontForcesResetMidGesture(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	require.True(t, e.Begin("a", 0, 0))
	e.Move(40, 8)

	// host swapped the deck under an in-flight gesture
	require.True(t, e.Observe("x"))
	require.False(t, e.Dragging())
	dx, dy := e.Offset()
	require.Equal(t, 0.0, dx)
	require.Equal(t, 0.0, dy)
}

func TestPositionTracksPointerExactly(t *testing.T) {
	t.Parallel()

	e := newTestEngine(400)
	e.Observe("a")
	require.True(t, e.Begin("a", 12, 7))
	for _, p := range [][2]float64{{20, 10}, {-35, 3}, {112.5, -9.25}} {
		e.Move(p[0], p[1])
		dx, dy := e.Offset()
		require.Equal(t, p[0]-12, dx)
		require.Equal(t, p[1]-7, dy)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	e := New(Config{Width: 200})
	require.Equal(t, 50.0, e.Threshold())
	require.Equal(t, 1.0, e.Opacity())
}

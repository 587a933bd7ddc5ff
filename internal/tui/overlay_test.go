package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlankCanvas(t *testing.T) {
	t.Parallel()
	c := blankCanvas(4, 3)
	lines := strings.Split(c, "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		require.Equal(t, "    ", l)
	}
	require.Empty(t, blankCanvas(0, 3))
}

func TestPaintAtCentered(t *testing.T) {
	t.Parallel()
	base := blankCanvas(10, 3)
	out := paintAt(base, "ab\ncd", 4, 1, 10, 3)
	lines := strings.Split(out, "\n")
	require.Equal(t, "          ", lines[0])
	require.Equal(t, "    ab    ", lines[1])
	require.Equal(t, "    cd    ", lines[2])
}

func TestPaintAtClipsLeftEdge(t *testing.T) {
	t.Parallel()
	base := blankCanvas(6, 1)
	out := paintAt(base, "hello", -2, 0, 6, 1)
	require.Equal(t, "llo   ", out)
}

func TestPaintAtClipsRightEdge(t *testing.T) {
	t.Parallel()
	base := blankCanvas(6, 1)
	out := paintAt(base, "hello", 4, 0, 6, 1)
	require.Equal(t, "    he", out)
}

func TestPaintAtFullyOffCanvas(t *testing.T) {
	t.Parallel()
	base := blankCanvas(6, 2)
	require.Equal(t, base, paintAt(base, "xx", 10, 0, 6, 2))
	require.Equal(t, base, paintAt(base, "xx", -5, 0, 6, 2))
	require.Equal(t, base, paintAt(base, "xx", 0, 5, 6, 2))
}

func TestPaintAtOverwritesBase(t *testing.T) {
	t.Parallel()
	base := strings.Repeat("x", 8)
	out := paintAt(base, "OK", 3, 0, 8, 1)
	require.Equal(t, "xxxOKxxx", out)
}

func TestPadRight(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ab  ", padRight("ab", 4))
	require.Equal(t, "abcd", padRight("abcdef", 4))
	require.Equal(t, "    ", padRight("", 4))
}

func TestDropColumns(t *testing.T) {
	t.Parallel()
	require.Equal(t, "cdef", dropColumns("abcdef", 2))
	require.Equal(t, "abcdef", dropColumns("abcdef", 0))
	require.Equal(t, "", dropColumns("abc", 5))
}

func TestRenderPopupFitsCanvas(t *testing.T) {
	t.Parallel()
	base := blankCanvas(40, 12)
	out := renderPopup(base, "hello", 40, 12)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	require.Contains(t, out, "hello")
}

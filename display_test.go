package lineedit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSession(columns int) *session {
	s := newSession(ByteMeasurer{}, NewHistory(defaultHistoryMax))
	s.columns = columns
	s.prompt = "> "
	return s
}

func TestPromptColumnWidthSkipsSGR(t *testing.T) {
	prompt := "\x1b[1;32m> \x1b[0m"
	require.Equal(t, 2, promptColumnWidth(prompt, ByteMeasurer{}))
}

func TestRefreshSingleLineIdempotent(t *testing.T) {
	s := newTestSession(40)
	s.buf.SetText("hello")
	s.buf.MoveEnd()

	var out1, out2 bytes.Buffer
	refreshSingleLine(s, &out1)
	refreshSingleLine(s, &out2)
	require.Equal(t, out1.Bytes(), out2.Bytes())
	require.Contains(t, out1.String(), "hello")
	require.Contains(t, out1.String(), "\x1b[0K")
}

func TestSingleLineViewScrollsWhenOverflowing(t *testing.T) {
	s := newTestSession(10) // "> " (2 cols) + 8 visible cols
	s.buf.SetText("0123456789ABCDEF")
	s.buf.MoveEnd()

	promptCols := promptColumnWidth(s.prompt, s.measure)
	start, end := singleLineView(s, promptCols)
	require.Greater(t, start, 0)
	require.LessOrEqual(t, end-start, 8)
}

func TestRefreshMultiLineWrapsAtExactWidth(t *testing.T) {
	s := newTestSession(5)
	s.multiLine = true
	s.prompt = ""
	s.buf.SetText("12345") // exactly one row wide
	s.buf.MoveEnd()

	var out bytes.Buffer
	refreshMultiLine(s, &out)
	require.GreaterOrEqual(t, s.maxRowsUsed, 1)
}

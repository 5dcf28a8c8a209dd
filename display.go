package lineedit

import (
	"bytes"
	"strconv"
)

// promptSGRFinals is the explicit allow-list of CSI final bytes recognized
// as SGR/cursor-styling sequences to be written but not counted towards
// prompt column width, resolving the ambiguity noted in spec.md §9(a).
var promptSGRFinals = map[byte]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true,
	'G': true, 'H': true, 'J': true, 'K': true, 'S': true, 'T': true,
	'f': true, 'm': true,
}

// promptColumnWidth computes the visible column width of a prompt string,
// skipping recognized "ESC [ ... final" sequences per spec.md §3/§4.3.
func promptColumnWidth(prompt string, measure CharMeasurer) int {
	width := 0
	b := []byte(prompt)
	for i := 0; i < len(b); {
		if b[i] == 0x1B && i+1 < len(b) && b[i+1] == '[' {
			j := i + 2
			for j < len(b) && !promptSGRFinals[b[j]] {
				j++
			}
			if j < len(b) {
				i = j + 1
				continue
			}
			// Unterminated escape: fall through and count the ESC byte.
		}
		n, cols := measure.NextCharLen(b, i)
		if n == 0 {
			n = 1
		}
		width += cols
		i += n
	}
	return width
}

// writePromptVisible writes the prompt bytes verbatim (escape sequences
// included) to buf.
func writePromptVisible(buf *bytes.Buffer, prompt string) {
	buf.WriteString(prompt)
}

// singleLineView computes the [start,end) byte range of the buffer visible
// on screen, scrolling the view so the cursor stays visible, per spec.md
// §4.3 step 1.
func singleLineView(s *session, promptCols int) (start, end int) {
	text := s.buf.Bytes()
	cursor := s.buf.Cursor()
	measure := s.measure

	start = 0
	for {
		offset := measure.StrLen(text[start:cursor])
		if promptCols+offset < s.columns || start >= cursor {
			break
		}
		n, _ := measure.NextCharLen(text, start)
		if n == 0 {
			n = 1
		}
		start += n
	}

	maxCols := s.columns - promptCols
	if maxCols < 1 {
		maxCols = 1
	}
	end = start
	for end < len(text) {
		n, cols := measure.NextCharLen(text, end)
		if n == 0 {
			n = 1
		}
		if measure.StrLen(text[start:end])+cols > maxCols {
			break
		}
		end += n
	}
	return start, end
}

// refreshSingleLine implements spec.md §4.3's single-line refresh.
func refreshSingleLine(s *session, out *bytes.Buffer) {
	prompt := s.effectivePrompt()
	promptCols := promptColumnWidth(prompt, s.measure)

	start, end := singleLineView(s, promptCols)
	text := s.buf.Bytes()
	visualCursorOffset := s.measure.StrLen(text[start:s.buf.Cursor()])

	out.WriteByte('\r')
	writePromptVisible(out, prompt)
	out.Write(text[start:end])
	out.WriteString("\x1b[0K")

	col := promptCols + visualCursorOffset + 1 // 1-based column
	out.WriteString("\x1b[")
	out.WriteString(strconv.Itoa(col))
	out.WriteByte('G')

	s.needsRefresh = false
	s.isDisplayed = true
}

// moveRows emits relative cursor-row movement.
func moveRows(out *bytes.Buffer, n int, down bool) {
	if n == 0 {
		return
	}
	out.WriteString("\x1b[")
	if n > 1 {
		out.WriteString(strconv.Itoa(n))
	}
	if down {
		out.WriteByte('B')
	} else {
		out.WriteByte('A')
	}
}

// refreshMultiLine implements spec.md §4.3's multi-line refresh, used when
// the edited line may wrap across terminal rows.
func refreshMultiLine(s *session, out *bytes.Buffer) {
	prompt := s.effectivePrompt()
	promptCols := promptColumnWidth(prompt, s.measure)
	measure := s.measure

	oldRows := s.maxRowsUsed
	curRow := s.oldVisualRow

	// Step 2: move down to the last previously-used row.
	moveRows(out, oldRows-curRow, true)

	// Step 3-4: erase every previously used row, moving up, ending on the
	// top row.
	for i := 0; i < oldRows; i++ {
		out.WriteByte('\r')
		out.WriteString("\x1b[0K")
		if i < oldRows {
			moveRows(out, 1, false)
		}
	}
	out.WriteByte('\r')
	out.WriteString("\x1b[0K")

	// Step 5: write prompt then entire buffer.
	writePromptVisible(out, prompt)
	text := s.buf.Bytes()
	out.Write(text)

	// Step 6: compute the new visual cursor position.
	totalCols := promptCols + measure.StrLen(text)
	cursorCols := promptCols + measure.StrLen(text[:s.buf.Cursor()])

	rows := (totalCols - 1) / s.columns // 0-based index of the last row written
	row2 := cursorCols / s.columns
	col2 := cursorCols % s.columns

	// Step 7: at end-of-buffer with an exact-width line, force a fresh row.
	if s.buf.Cursor() == s.buf.Len() && s.columns > 0 && totalCols%s.columns == 0 {
		out.WriteString("\r\n")
		rows++
		row2 = rows
		col2 = 0
	}
	if rows > s.maxRowsUsed {
		s.maxRowsUsed = rows
	}

	// Step 8: move up to row2, then to col2.
	moveRows(out, rows-row2, false)
	out.WriteByte('\r')
	if col2 > 0 {
		out.WriteString("\x1b[")
		out.WriteString(strconv.Itoa(col2))
		out.WriteByte('C')
	}

	// Step 9: record bookkeeping.
	s.oldVisualPos = s.buf.Cursor()
	s.oldVisualRow = row2

	s.needsRefresh = false
	s.isDisplayed = true
}

// refresh reconciles the screen with the current buffer/cursor/prompt
// state, dispatching to the single-line or multi-line algorithm.
func refresh(s *session, out *bytes.Buffer) {
	if s.multiLine {
		refreshMultiLine(s, out)
	} else {
		refreshSingleLine(s, out)
	}
}

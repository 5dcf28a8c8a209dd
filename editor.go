package lineedit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Editor is the public entry point, grounded on the teacher's Prompt type
// (prompt.go): one Editor per interactive line-editing stream, constructed
// with functional options and driven synchronously via ReadLine, the only
// line-reading entry point (there is no non-blocking, step-wise variant).
type Editor struct {
	mu sync.Mutex

	in    io.Reader
	out   io.Writer
	inFd  int
	height int

	id   uuid.UUID
	s    *session
	term *terminalAdapter

	br *bufio.Reader
}

// New constructs an Editor with stdin/stdout as the default I/O streams,
// per spec.md §3; options can override any of this.
func New(options ...Option) *Editor {
	e := &Editor{
		in:     os.Stdin,
		out:    os.Stdout,
		inFd:   int(os.Stdin.Fd()),
		height: 24,
		id:     uuid.New(),
	}
	e.s = newSession(ByteMeasurer{}, nil)
	for _, opt := range options {
		opt.apply(e)
	}
	e.term = newTerminalAdapter(e.inFd)
	e.br = bufio.NewReader(e.in)
	return e
}

// SetPrompt sets the persistent prompt shown before each line.
func (e *Editor) SetPrompt(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.prompt = p
}

// SetTempPrompt overrides the prompt for the duration of a mode (e.g. the
// reverse-search prompt); pass "" to clear it.
func (e *Editor) SetTempPrompt(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.tempPrompt = p
}

// SetMultiLineMode toggles the multi-line refresh algorithm.
func (e *Editor) SetMultiLineMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.multiLine = on
}

// SetCompletionCallback installs the completion policy collaborator.
func (e *Editor) SetCompletionCallback(cb CompletionCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.completer = cb
}

// SetEncodingHooks installs an alternate CharMeasurer.
func (e *Editor) SetEncodingHooks(m CharMeasurer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.measure = m
	e.s.buf.measure = m
}

// UpdateSize notifies the Editor of a new terminal geometry, normally called
// from a SIGWINCH handler installed by the host program.
func (e *Editor) UpdateSize(columns, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if columns > 0 {
		e.s.columns = columns
	}
	if rows > 0 {
		e.height = rows
	}
	e.s.needsRefresh = true
}

// Cancel requests that a blocked ReadLine return ErrCancelled at the next
// opportunity. Safe to call from any goroutine, per spec.md §5.
func (e *Editor) Cancel() {
	e.s.SetCancelled()
}

// History returns the Editor's history store, for callers that want direct
// Add/Save/Load access (e.g. on startup/shutdown).
func (e *Editor) History() *History {
	return e.s.history
}

func (e *Editor) debugf(format string, args ...interface{}) {
	debugPrintf(e.id, format, args...)
}

// ReadLine reads one logical line synchronously, blocking until the user
// presses Enter, an EOF/cancellation occurs, or an I/O error happens. This
// is the synchronous/blocking mode of spec.md §5.
func (e *Editor) ReadLine(prompt string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = uuid.New()

	if isUnsupportedTerm(e.inFd) {
		return e.readLineDumb(prompt)
	}

	if err := e.term.EnableRaw(); err != nil {
		return "", err
	}
	defer e.term.DisableRaw()

	e.s.columns = e.term.GetColumns(e.br, e.out)
	e.s.prompt = prompt
	e.s.enterRead()
	defer e.s.leaveRead()

	out := &bytes.Buffer{}
	refresh(e.s, out)
	if _, err := e.out.Write(out.Bytes()); err != nil {
		return "", newErr(KindIO, err)
	}

	for {
		key, err := e.nextKey()
		if err != nil {
			return "", err
		}

		e.debugf("key %s\n", debugKey(key))
		done, line, derr := e.dispatch(key)

		out.Reset()
		if e.s.needsRefresh {
			refresh(e.s, out)
		}
		if out.Len() > 0 {
			if _, werr := e.out.Write(out.Bytes()); werr != nil {
				return "", newErr(KindIO, werr)
			}
		}

		if derr != nil {
			return "", derr
		}
		if done {
			io.WriteString(e.out, "\r\n")
			e.s.history.Add(line)
			return line, nil
		}
	}
}

// readLineDumb implements the TERM=dumb/non-TTY fallback of spec.md §4.1:
// buffer raw bytes until LF, with no echo or editing.
func (e *Editor) readLineDumb(prompt string) (string, error) {
	if prompt != "" {
		io.WriteString(e.out, prompt)
	}
	line, err := e.br.ReadString('\n')
	if err != nil && len(line) == 0 {
		if err == io.EOF {
			return "", ErrClosed
		}
		return "", newErr(KindIO, err)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	e.s.history.Add(line)
	return line, nil
}

// nextKey blocks, signal-aware, until a complete key event is decoded,
// implementing the ESC-disambiguation timer and the pushback primitive of
// spec.md §4.2/§5.
func (e *Editor) nextKey() (Key, error) {
	if k, ok := e.s.dec.Pop(); ok {
		return k, nil
	}

	for {
		if e.s.testAndClearCancelled() {
			return Key{}, ErrCancelled
		}

		timeout := 24 * time.Hour
		if e.s.dec.InEscape() {
			timeout = time.Duration(EscTimeoutNanos)
		}

		// Bytes already read into e.br do not make the descriptor readable,
		// so they are decoded before waiting on it again.
		ready := e.br.Buffered() > 0
		if !ready {
			guard, gerr := blockWaitSignals()
			if gerr != nil {
				return Key{}, newErr(KindIO, gerr)
			}
			var werr error
			ready, werr = waitReadable(e.inFd, timeout)
			guard.restore()
			if werr != nil {
				return Key{}, newErr(KindIO, werr)
			}
		}

		if e.s.testAndClearCancelled() {
			return Key{}, ErrCancelled
		}

		if !ready {
			// The wait timed out (the ESC-disambiguation timer expired) or
			// was interrupted by a signal.
			return e.s.dec.TimeoutEscape(), nil
		}

		b, rerr := e.br.ReadByte()
		if rerr != nil {
			if rerr == io.EOF {
				return syntheticKey(Closed), nil
			}
			return Key{}, newErr(KindIO, rerr)
		}

		if key, ok := e.s.dec.Feed(b); ok {
			return key, nil
		}
	}
}

// dispatch applies one key event to the session per the NORMAL/COMPLETION/
// REVERSE_SEARCH dispatch tables of spec.md §4.6. It returns (true, line,
// nil) when the line is complete, or (false, "", err) when a terminal error
// or cancellation occurred.
func (e *Editor) dispatch(k Key) (done bool, line string, err error) {
	e.s.needsRefresh = true

	switch e.s.mode {
	case ModeCompletion:
		return e.dispatchCompletion(k)
	case ModeReverseSearch:
		return e.dispatchSearch(k)
	default:
		return e.dispatchNormal(k)
	}
}

func (e *Editor) dispatchNormal(k Key) (bool, string, error) {
	s := e.s
	buf := s.buf

	if k.Kind == KeySynthetic {
		switch k.Named {
		case Closed:
			return false, "", ErrClosed
		case Cancelled:
			return false, "", ErrCancelled
		case RawEscape, ErrorKey:
			return false, "", nil
		}
	}

	if k.Kind == KeyPrintable {
		buf.InsertPrintable(k.Rune)
		return false, "", nil
	}

	if k.Kind == KeyEditing {
		switch k.Named {
		case CursorLeft:
			buf.MoveLeft()
		case CursorRight:
			buf.MoveRight()
		case Home:
			buf.MoveHome()
		case End:
			buf.MoveEnd()
		case Delete:
			buf.DeleteForward()
		case CursorUp:
			e.historyPrev()
		case CursorDown:
			e.historyNext()
		}
		return false, "", nil
	}

	switch k.Named {
	case Enter:
		s.leaveRead()
		return true, string(buf.Bytes()), nil
	case CtrlA:
		buf.MoveHome()
	case CtrlB:
		buf.MoveLeft()
	case CtrlC:
		if buf.Len() == 0 {
			return false, "", ErrCancelled
		}
		io.WriteString(e.out, "^C\r\n")
		buf.Reset()
		s.oldVisualRow = 0
		s.maxRowsUsed = 0
	case CtrlD:
		if buf.Len() == 0 {
			return false, "", ErrClosed
		}
		buf.DeleteForward()
	case CtrlE:
		buf.MoveEnd()
	case CtrlF:
		buf.MoveRight()
	case CtrlG:
		// Abort: nothing to abort in NORMAL mode beyond a no-op.
	case Backspace, CtrlH:
		buf.Backspace()
	case CtrlK:
		s.lastKill = buf.KillToEnd()
	case CtrlL:
		s.maxRowsUsed = 0
		s.oldVisualRow = 0
	case CtrlN:
		e.historyNext()
	case CtrlP:
		e.historyPrev()
	case CtrlR:
		e.enterSearch()
	case CtrlT:
		buf.Transpose()
	case CtrlU:
		s.lastKill = buf.KillLine()
	case CtrlW:
		s.lastKill = buf.DeletePrevWord()
	case CtrlY:
		if len(s.lastKill) > 0 {
			buf.Insert(s.lastKill)
		}
	case Tab:
		if err := e.enterCompletion(); err != nil {
			return false, "", err
		}
	}
	return false, "", nil
}

func (e *Editor) historyPrev() {
	s := e.s
	if s.historyIndex == 0 {
		s.historySavedText = append([]byte(nil), s.buf.Bytes()...)
	}
	entry, ok := s.history.At(s.historyIndex)
	if !ok {
		return
	}
	s.historyIndex++
	s.buf.SetText(entry)
	s.buf.MoveEnd()
}

func (e *Editor) historyNext() {
	s := e.s
	if s.historyIndex <= 0 {
		return
	}
	s.historyIndex--
	if s.historyIndex == 0 {
		s.buf.SetText(string(s.historySavedText))
	} else {
		entry, _ := s.history.At(s.historyIndex - 1)
		s.buf.SetText(entry)
	}
	s.buf.MoveEnd()
}

// enterCompletion runs the completion callback and enters ModeCompletion if
// it produced more than one candidate, per spec.md §4.6. A single candidate
// is applied immediately without changing mode, with a trailing space
// appended unless the replacement ends in '/'; zero candidates rings the
// bell.
func (e *Editor) enterCompletion() error {
	s := e.s
	if s.completer == nil {
		Bell(e.out)
		return nil
	}
	set := newCompletionSet()
	s.completer(s.buf.Bytes(), s.buf.Cursor(), set)
	if set.Len() == 0 {
		Bell(e.out)
		return nil
	}
	set.sortBySuggestion()

	if set.Len() == 1 {
		c := set.candidates[0]
		applyCandidate(s.buf, c)
		if !strings.HasSuffix(c.Replacement, "/") {
			s.buf.InsertPrintable(' ')
		}
		return nil
	}

	if prefix := set.commonPrefix(); prefix != "" {
		s.buf.SetText(prefix)
		s.buf.MoveEnd()
	}

	s.mode = ModeCompletion
	s.completion = set
	return e.writeCompletionListing(set)
}

// writeCompletionListing prints the candidate listing in column-major order
// per spec.md §4.6, gating a listing of 100 or more candidates behind a
// "Display all N possibilities?" confirmation, then leaves the edit line to
// be redrawn by the caller's normal refresh pass.
func (e *Editor) writeCompletionListing(set *completionSet) error {
	io.WriteString(e.out, "\r\n")

	if set.Len() >= 100 {
		fmt.Fprintf(e.out, "Display all %d possibilities? (y or n)", set.Len())
		show, err := e.confirmListing()
		if err != nil {
			return err
		}
		io.WriteString(e.out, "\r\n")
		if !show {
			e.s.oldVisualRow = 0
			e.s.maxRowsUsed = 0
			return nil
		}
	}

	columns, rows := set.columnLayout(e.s.columns)
	cellWidth := set.maxSuggestionWidth + 2
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			idx := c*rows + r
			if idx >= set.Len() {
				continue
			}
			fmt.Fprintf(e.out, "%-*s", cellWidth, set.candidates[idx].Suggestion)
		}
		io.WriteString(e.out, "\r\n")
	}

	e.s.oldVisualRow = 0
	e.s.maxRowsUsed = 0
	return nil
}

// confirmListing blocks for a y/n answer to the "Display all N
// possibilities?" prompt, ignoring any key that isn't a 'y'/'n' press.
func (e *Editor) confirmListing() (bool, error) {
	for {
		k, err := e.nextKey()
		if err != nil {
			return false, err
		}
		if k.Kind != KeyPrintable {
			continue
		}
		switch k.Rune {
		case 'n', 'N':
			return false, nil
		case 'y', 'Y':
			return true, nil
		}
	}
}

func applyCandidate(buf *buffer, c Candidate) {
	buf.SetText(c.Replacement)
	if c.CursorOffset >= 0 && c.CursorOffset <= buf.Len() {
		buf.cursorPos = c.CursorOffset
	} else {
		buf.MoveEnd()
	}
}

func (e *Editor) dispatchCompletion(k Key) (bool, string, error) {
	s := e.s

	if k.Kind == KeyControl && k.Named == Tab {
		applyCandidate(s.buf, s.completion.next())
		return false, "", nil
	}
	if k.Kind == KeyControl && k.Named == CtrlG {
		s.mode = ModeRead
		s.completion = nil
		return false, "", nil
	}

	// Any other key ends completion mode and is re-dispatched in NORMAL
	// mode, per spec.md §9's pushback-based mode-exit contract.
	s.mode = ModeRead
	s.completion = nil
	e.s.dec.Push(k)
	next, _ := e.s.dec.Pop()
	return e.dispatchNormal(next)
}

func (e *Editor) enterSearch() {
	s := e.s
	s.mode = ModeReverseSearch
	s.search = &searchState{
		currentIndex: 0,
		savedText:    append([]byte(nil), s.buf.Bytes()...),
		savedCursor:  s.buf.Cursor(),
	}
	s.tempPrompt = reverseSearchPrompt(nil)
}

func (e *Editor) dispatchSearch(k Key) (bool, string, error) {
	s := e.s
	search := s.search

	switch {
	case k.Kind == KeyControl && k.Named == CtrlR:
		search.currentIndex++
		e.runSearch()
		return false, "", nil
	case k.Kind == KeyControl && k.Named == CtrlG:
		s.buf.SetText(string(search.savedText))
		s.buf.cursorPos = search.savedCursor
		e.leaveSearch()
		return false, "", nil
	case k.Kind == KeyControl && k.Named == CtrlC:
		io.WriteString(e.out, "^C\r\n")
		s.buf.SetText(string(search.savedText))
		s.buf.cursorPos = search.savedCursor
		e.leaveSearch()
		s.oldVisualRow = 0
		s.maxRowsUsed = 0
		return false, "", nil
	case k.Kind == KeyControl && (k.Named == Backspace || k.Named == CtrlH):
		if n := len(search.query); n > 0 {
			search.query = search.query[:n-1]
			search.currentIndex = 0
			e.runSearch()
		}
		return false, "", nil
	case k.Kind == KeyPrintable:
		search.query = append(search.query, k.Rune)
		search.currentIndex = 0
		e.runSearch()
		return false, "", nil
	case k.Kind == KeyControl && k.Named == Enter:
		e.leaveSearch()
		s.leaveRead()
		return true, string(s.buf.Bytes()), nil
	default:
		// Any other key exits search mode, applying the current match, and
		// is re-dispatched in NORMAL mode.
		e.leaveSearch()
		return e.dispatchNormal(k)
	}
}

func (e *Editor) runSearch() {
	s := e.s
	search := s.search
	for i := search.currentIndex; i < s.history.Len(); i++ {
		entry, ok := s.history.At(i)
		if !ok {
			break
		}
		if idx := findRightmost(entry, string(search.query)); idx >= 0 {
			search.currentIndex = i
			search.found = true
			s.buf.SetText(entry)
			s.buf.cursorPos = idx
			s.tempPrompt = reverseSearchPrompt(search.query)
			return
		}
	}
	search.found = false
	s.tempPrompt = "failed " + reverseSearchPrompt(search.query)
}

func (e *Editor) leaveSearch() {
	s := e.s
	s.mode = ModeRead
	s.search = nil
	s.tempPrompt = ""
}

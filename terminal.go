package lineedit

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"
)

// unsupportedTerms is the blacklist from spec.md §4.1.
var unsupportedTerms = map[string]bool{
	"dumb":   true,
	"cons25": true,
	"emacs":  true,
}

// isUnsupportedTerm reports whether fd is not a terminal, or TERM names a
// blacklisted terminal.
func isUnsupportedTerm(fd int) bool {
	if !term.IsTerminal(fd) {
		return true
	}
	return unsupportedTerms[os.Getenv("TERM")]
}

// terminalAdapter owns raw-mode enable/disable and geometry queries for one
// file descriptor, per spec.md §4.1.
type terminalAdapter struct {
	fd     int
	saved  *term.State
	isRaw  bool
}

func newTerminalAdapter(fd int) *terminalAdapter {
	return &terminalAdapter{fd: fd}
}

// EnableRaw snapshots the current terminal attributes (if not already
// saved) and puts the terminal into raw mode. Returns *Error{Kind: NoTTY}
// if fd is not a terminal.
func (t *terminalAdapter) EnableRaw() error {
	if !term.IsTerminal(t.fd) {
		return newErr(KindNoTTY, nil)
	}
	if t.isRaw {
		return nil
	}
	saved, err := term.MakeRaw(t.fd)
	if err != nil {
		return newErr(KindIO, err)
	}
	if t.saved == nil {
		t.saved = saved
	}
	t.isRaw = true
	globalGuard.register(t)
	return nil
}

// DisableRaw restores the saved attributes, if any.
func (t *terminalAdapter) DisableRaw() error {
	if !t.isRaw || t.saved == nil {
		return nil
	}
	err := term.Restore(t.fd, t.saved)
	t.isRaw = false
	globalGuard.unregister(t)
	if err != nil {
		return newErr(KindIO, err)
	}
	return nil
}

// GetColumns returns the terminal width, falling back to a cursor-position
// query dance and finally to 80, per spec.md §4.1.
func (t *terminalAdapter) GetColumns(in io.Reader, out io.Writer) int {
	if w, _, err := term.GetSize(t.fd); err == nil && w > 0 {
		return w
	}
	if w, ok := queryColumnsViaCPR(in, out); ok {
		return w
	}
	return 80
}

// queryColumnsViaCPR implements the ESC[6n fallback from spec.md §4.1: move
// the cursor far right and ask for its position. The cursor is not moved
// back afterwards; it is left at the right edge of the row.
func queryColumnsViaCPR(in io.Reader, out io.Writer) (int, bool) {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}

	if _, err := io.WriteString(out, "\x1b[999C\x1b[6n"); err != nil {
		return 0, false
	}

	var resp []byte
	for i := 0; i < 32; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		resp = append(resp, b)
		if b == 'R' {
			break
		}
	}

	s := string(resp)
	start := strings.IndexByte(s, '[')
	if start == -1 {
		return 0, false
	}
	s = s[start+1:]
	s = strings.TrimSuffix(s, "R")
	parts := strings.SplitN(s, ";", 2)
	if len(parts) != 2 {
		return 0, false
	}
	cols, err := strconv.Atoi(parts[1])
	if err != nil || cols <= 0 {
		return 0, false
	}
	return cols, true
}

// ClearScreen emits home + erase-display.
func ClearScreen(out io.Writer) {
	_, _ = io.WriteString(out, "\x1b[H\x1b[2J")
}

// Bell writes a single BEL byte.
func Bell(out io.Writer) {
	_, _ = io.WriteString(out, "\x07")
}

// terminalGuard is the process-wide singleton from spec.md §3/§9: it records
// which adapter currently has raw mode enabled. It installs no exit hook;
// ReadLine's deferred DisableRaw covers its own return paths, and paths that
// skip deferred cleanup (such as a direct os.Exit) restore the terminal only
// if the host calls RestoreOnExit first.
type terminalGuard struct {
	mu       sync.Mutex
	active   *terminalAdapter
	hooked   bool
}

var globalGuard = &terminalGuard{}

func (g *terminalGuard) register(t *terminalAdapter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = t
	if !g.hooked {
		g.hooked = true
	}
}

func (g *terminalGuard) unregister(t *terminalAdapter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == t {
		g.active = nil
	}
}

// RestoreOnExit restores the terminal attributes of whichever session
// currently owns raw mode, if any. Host programs that call os.Exit directly
// should invoke this first; the library cannot install its own os.Exit hook
// since the standard library provides none.
func RestoreOnExit() {
	globalGuard.mu.Lock()
	t := globalGuard.active
	globalGuard.mu.Unlock()
	if t != nil {
		_ = t.DisableRaw()
	}
}

// Package ptytest drives a child process under a real pseudo-terminal, for
// tests that need genuine raw-mode terminal semantics (cursor-position
// reports, SIGWINCH, real ioctls) that an in-process fake reader/writer
// cannot provide. The plumbing is grounded on the teacher's pty-driven debug
// relay (cmd/termdebug/main.go: creack/pty + golang.org/x/term + SIGWINCH),
// repurposed here to host a test binary instead of a human operator.
package ptytest

import (
	"bufio"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// Session is one child process running under a pty.
type Session struct {
	cmd *exec.Cmd
	pty *os.File
	r   *bufio.Reader

	sigCh chan os.Signal
}

// Start launches name/args under a new pty of the given size.
func Start(cols, rows int, name string, args ...string) (*Session, error) {
	cmd := exec.Command(name, args...)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, err
	}

	s := &Session{cmd: cmd, pty: f, r: bufio.NewReader(f)}

	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, syscall.SIGWINCH)

	return s, nil
}

// Resize propagates a new size to the child's controlling terminal, the way
// a host program forwards its own SIGWINCH.
func (s *Session) Resize(cols, rows int) error {
	return pty.Setsize(s.pty, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Write sends raw bytes to the child's stdin, as if typed.
func (s *Session) Write(b []byte) (int, error) {
	return s.pty.Write(b)
}

// ReadByte reads a single byte of the child's combined stdout/stderr.
func (s *Session) ReadByte() (byte, error) {
	return s.r.ReadByte()
}

// ReadUntil accumulates bytes until delim is seen or the deadline passes.
func (s *Session) ReadUntil(delim byte, timeout time.Duration) ([]byte, error) {
	_ = s.pty.SetReadDeadline(time.Now().Add(timeout))
	defer s.pty.SetReadDeadline(time.Time{})
	return s.r.ReadBytes(delim)
}

// Close terminates the child and releases the pty.
func (s *Session) Close() error {
	signal.Stop(s.sigCh)
	_ = s.cmd.Process.Kill()
	_, _ = s.cmd.Process.Wait()
	return s.pty.Close()
}

package lineedit

import (
	"io"
	"os"
)

// Option configures an Editor at construction time, following the teacher's
// functional-options pattern (options.go).
type Option interface {
	apply(e *Editor)
}

type optionFunc func(e *Editor)

func (f optionFunc) apply(e *Editor) { f(e) }

// WithTTY configures an Editor to use a specific TTY for both input and
// output instead of os.Stdin/os.Stdout.
func WithTTY(tty *os.File) Option {
	return optionFunc(func(e *Editor) {
		e.in = tty
		e.out = tty
		e.inFd = int(tty.Fd())
	})
}

// WithInput configures the input reader. Primarily useful for tests.
func WithInput(r io.Reader) Option {
	return optionFunc(func(e *Editor) {
		e.in = r
		e.inFd = fdOf(r)
	})
}

// WithOutput configures the output writer. Primarily useful for tests.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(e *Editor) {
		e.out = w
	})
}

// WithSize sets the initial terminal width/height, bypassing geometry
// queries. Primarily useful for tests.
func WithSize(width, height int) Option {
	return optionFunc(func(e *Editor) {
		e.s.columns = width
		e.height = height
	})
}

// WithHistoryMax sets the history capacity (default 100, per spec.md §3).
func WithHistoryMax(n int) Option {
	return optionFunc(func(e *Editor) {
		e.s.history.SetMax(n)
	})
}

// WithMultiLine enables the multi-line display refresh algorithm of
// spec.md §4.3 instead of the single-line one.
func WithMultiLine(multiLine bool) Option {
	return optionFunc(func(e *Editor) {
		e.s.multiLine = multiLine
	})
}

// WithCompletionCallback installs the completion policy collaborator from
// spec.md §1/§6.
func WithCompletionCallback(cb CompletionCallback) Option {
	return optionFunc(func(e *Editor) {
		e.s.completer = cb
	})
}

// WithMeasurer installs a CharMeasurer other than the default ByteMeasurer,
// per spec.md §6's "encoding hooks".
func WithMeasurer(m CharMeasurer) Option {
	return optionFunc(func(e *Editor) {
		e.s.measure = m
		e.s.buf.measure = m
	})
}

func fdOf(r io.Reader) int {
	type fdGetter interface{ Fd() uintptr }
	if f, ok := r.(fdGetter); ok {
		return int(f.Fd())
	}
	return -1
}

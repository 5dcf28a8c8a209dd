// Package unicodehooks provides an opt-in CharMeasurer backed by
// mattn/go-runewidth, for host programs that want UTF-8 and
// East-Asian-width aware cursor arithmetic instead of the engine's default
// byte-is-a-column model (lineedit.ByteMeasurer). It measures one rune at a
// time; runes are not grouped into grapheme clusters.
package unicodehooks

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/lineedit/lineedit"
)

// RuneWidthMeasurer implements lineedit.CharMeasurer over UTF-8 text,
// measuring each rune's terminal column width with go-runewidth.
type RuneWidthMeasurer struct{}

var _ lineedit.CharMeasurer = RuneWidthMeasurer{}

func (RuneWidthMeasurer) PrevCharLen(buf []byte, pos int) (n, cols int) {
	if pos <= 0 {
		return 0, 0
	}
	i := pos - 1
	for i > 0 && isUTF8Continuation(buf[i]) {
		i--
	}
	r, size := utf8.DecodeRune(buf[i:pos])
	if r == utf8.RuneError && size <= 1 {
		return 1, 1
	}
	return pos - i, runewidth.RuneWidth(r)
}

func (RuneWidthMeasurer) NextCharLen(buf []byte, pos int) (n, cols int) {
	if pos >= len(buf) {
		return 0, 0
	}
	r, size := utf8.DecodeRune(buf[pos:])
	if r == utf8.RuneError && size <= 1 {
		return 1, 1
	}
	return size, runewidth.RuneWidth(r)
}

func (RuneWidthMeasurer) StrLen(s []byte) int {
	return runewidth.StringWidth(string(s))
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}

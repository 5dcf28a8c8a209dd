package lineedit

// bufferGrowIncrement is the fixed increment buffers grow by, per spec.md §3.
const bufferGrowIncrement = 4096

// buffer is the growable byte sequence backing a single logical input line,
// together with the byte-offset cursor over it. It never holds more than
// length bytes of real content, within a capacity that is always strictly
// greater than length, matching the invariant "length < buffer.capacity"
// from spec.md §8. The byte at data[length] is not kept as a NUL
// terminator: after a deletion it may still hold an old content byte.
type buffer struct {
	data      []byte
	length    int
	cursorPos int
	measure   CharMeasurer
}

func newBuffer(m CharMeasurer) *buffer {
	if m == nil {
		m = ByteMeasurer{}
	}
	return &buffer{
		data:    make([]byte, bufferGrowIncrement),
		measure: m,
	}
}

func (b *buffer) Bytes() []byte { return b.data[:b.length] }
func (b *buffer) Len() int      { return b.length }
func (b *buffer) Cursor() int   { return b.cursorPos }

func (b *buffer) grow(extra int) {
	need := b.length + extra + 1 // +1 for the NUL terminator
	if need <= cap(b.data) {
		return
	}
	newCap := cap(b.data)
	for newCap < need {
		newCap += bufferGrowIncrement
	}
	newData := make([]byte, newCap)
	copy(newData, b.data[:b.length])
	b.data = newData
}

// Reset empties the buffer and moves the cursor to 0.
func (b *buffer) Reset() {
	b.length = 0
	b.cursorPos = 0
}

// SetText replaces the buffer contents wholesale and clamps the cursor.
func (b *buffer) SetText(s string) {
	b.grow(len(s))
	copy(b.data, s)
	b.length = len(s)
	if b.cursorPos > b.length {
		b.cursorPos = b.length
	}
}

// InsertAt inserts bytes at pos, advancing the cursor to the end of the
// insertion. pos must be in [0, length].
func (b *buffer) InsertAt(pos int, s []byte) {
	b.grow(len(s))
	copy(b.data[pos+len(s):b.length+len(s)], b.data[pos:b.length])
	copy(b.data[pos:], s)
	b.length += len(s)
	b.cursorPos = pos + len(s)
}

// InsertPrintable inserts a single printable byte at the cursor.
func (b *buffer) InsertPrintable(c byte) {
	b.InsertAt(b.cursorPos, []byte{c})
}

// DeleteRange removes buffer[from:to) and leaves the cursor at from.
func (b *buffer) DeleteRange(from, to int) {
	if from >= to {
		return
	}
	copy(b.data[from:], b.data[to:b.length])
	b.length -= to - from
	b.cursorPos = from
}

// Backspace deletes one measured character to the left of the cursor.
// No-op at column 0.
func (b *buffer) Backspace() {
	if b.cursorPos == 0 {
		return
	}
	n, _ := b.measure.PrevCharLen(b.Bytes(), b.cursorPos)
	b.DeleteRange(b.cursorPos-n, b.cursorPos)
}

// DeleteForward deletes one measured character at the cursor. No-op at end.
func (b *buffer) DeleteForward() {
	if b.cursorPos >= b.length {
		return
	}
	n, _ := b.measure.NextCharLen(b.Bytes(), b.cursorPos)
	b.DeleteRange(b.cursorPos, b.cursorPos+n)
}

// MoveLeft moves the cursor one measured character to the left.
func (b *buffer) MoveLeft() {
	if b.cursorPos == 0 {
		return
	}
	n, _ := b.measure.PrevCharLen(b.Bytes(), b.cursorPos)
	b.cursorPos -= n
}

// MoveRight moves the cursor one measured character to the right.
func (b *buffer) MoveRight() {
	if b.cursorPos >= b.length {
		return
	}
	n, _ := b.measure.NextCharLen(b.Bytes(), b.cursorPos)
	b.cursorPos += n
}

func (b *buffer) MoveHome() { b.cursorPos = 0 }
func (b *buffer) MoveEnd()  { b.cursorPos = b.length }

// Transpose swaps the byte before and at the cursor (CTRL_T).
func (b *buffer) Transpose() {
	if b.cursorPos <= 0 || b.cursorPos >= b.length {
		return
	}
	b.data[b.cursorPos-1], b.data[b.cursorPos] = b.data[b.cursorPos], b.data[b.cursorPos-1]
	if b.cursorPos < b.length-1 {
		b.cursorPos++
	}
}

// KillToEnd truncates the buffer at the cursor, returning the removed bytes.
func (b *buffer) KillToEnd() []byte {
	killed := append([]byte(nil), b.data[b.cursorPos:b.length]...)
	b.length = b.cursorPos
	return killed
}

// KillLine empties the entire buffer, returning the removed bytes.
func (b *buffer) KillLine() []byte {
	killed := append([]byte(nil), b.data[:b.length]...)
	b.length = 0
	b.cursorPos = 0
	return killed
}

// DeletePrevWord deletes the word (and any trailing spaces) before the
// cursor using ASCII-space word boundaries, returning the removed bytes.
func (b *buffer) DeletePrevWord() []byte {
	end := b.cursorPos
	pos := end
	for pos > 0 && b.data[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && b.data[pos-1] != ' ' {
		pos--
	}
	killed := append([]byte(nil), b.data[pos:end]...)
	b.DeleteRange(pos, end)
	return killed
}

// Insert inserts arbitrary bytes (e.g. a yanked kill) at the cursor.
func (b *buffer) Insert(s []byte) {
	b.InsertAt(b.cursorPos, s)
}

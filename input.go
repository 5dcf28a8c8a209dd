package lineedit

// EscTimeoutNanos is the ESC-disambiguation deadline from spec.md §4.2/§5: the
// only timeout the engine ever uses, expressed as a bare duration in
// nanoseconds so this file does not need to import "time".
const EscTimeoutNanos = 50_000_000

// pushbackCapacity is the minimum bound spec.md §3 requires ("bounded (≥32)
// stack of key events").
const pushbackCapacity = 32

// ansiState is the decoder sub-state from spec.md §4.2's escape state table.
type ansiState int

const (
	ansiIdle ansiState = iota
	ansiAfterEsc
	ansiIntermediate
	ansiCSIParam
	ansiCSIInter
	ansiSSChar
)

// maxEscapeBuf bounds the bytes buffered while decoding one escape sequence;
// exceeding it triggers the "escape_buffer overflow" pushback fallback from
// spec.md §4.2.
const maxEscapeBuf = 32

// decoder turns a byte stream into the closed Key vocabulary of spec.md §4.2,
// including the ANSI escape recognizer and the pushback primitive shared by
// the rest of the engine.
type decoder struct {
	state  ansiState
	escBuf []byte

	pushback []Key // LIFO, bounded.
}

func newDecoder() *decoder {
	return &decoder{}
}

// InEscape reports whether the decoder is waiting on the first continuation
// byte after a bare ESC (i.e. whether the ESC-disambiguation timer should be
// running).
func (d *decoder) InEscape() bool {
	return d.state == ansiAfterEsc
}

// TimeoutEscape is called when the ESC-disambiguation timer expires with no
// continuation byte. It resets decoder state and yields a raw ESC key event.
func (d *decoder) TimeoutEscape() Key {
	d.state = ansiIdle
	d.escBuf = nil
	return syntheticKey(RawEscape)
}

// Push adds a key event to the pushback stack ahead of the next read, per
// spec.md §4.2/§9 ("a small bounded stack, not a queue"). Silently drops the
// key if the stack is full: callers only ever push a handful of events
// (mode-transition re-dispatch), so overflow indicates a bug rather than
// legitimate backlog.
func (d *decoder) Push(k Key) {
	if len(d.pushback) >= pushbackCapacity {
		return
	}
	d.pushback = append(d.pushback, k)
}

// Pop removes and returns the most recently pushed key, if any.
func (d *decoder) Pop() (Key, bool) {
	if len(d.pushback) == 0 {
		return Key{}, false
	}
	k := d.pushback[len(d.pushback)-1]
	d.pushback = d.pushback[:len(d.pushback)-1]
	return k, true
}

func (d *decoder) HasPushback() bool { return len(d.pushback) > 0 }

// controlKeys maps the C0 control bytes this engine recognizes by name to
// their NamedKey. Bytes not present here but still < 0x20 are silently
// dropped, matching the "filtering C0 and C1 controls it does not
// recognize" rule in spec.md §6.
var controlKeys = map[byte]NamedKey{
	1:  CtrlA,
	2:  CtrlB,
	3:  CtrlC,
	4:  CtrlD,
	5:  CtrlE,
	6:  CtrlF,
	7:  CtrlG,
	8:  CtrlH,
	9:  Tab,
	11: CtrlK,
	12: CtrlL,
	13: Enter,
	14: CtrlN,
	16: CtrlP,
	18: CtrlR,
	20: CtrlT,
	21: CtrlU,
	23: CtrlW,
	25: CtrlY,
}

// Feed processes a single input byte. It returns a decoded key and true if a
// complete event was produced, or false if the byte started or continued an
// escape sequence still awaiting more bytes (or the ESC-disambiguation
// timer).
func (d *decoder) Feed(b byte) (Key, bool) {
	if d.state == ansiIdle {
		return d.feedIdle(b)
	}
	return d.feedEscape(b)
}

func (d *decoder) feedIdle(b byte) (Key, bool) {
	const esc = 0x1B
	const del = 0x7F

	if b == esc {
		d.state = ansiAfterEsc
		d.escBuf = append(d.escBuf[:0], b)
		return Key{}, false
	}
	if b == del {
		return controlKey(Backspace), true
	}
	if named, ok := controlKeys[b]; ok {
		return controlKey(named), true
	}
	if b >= 0x20 {
		return printableKey(b), true
	}
	return Key{}, false
}

func (d *decoder) feedEscape(b byte) (Key, bool) {
	d.escBuf = append(d.escBuf, b)
	if len(d.escBuf) > maxEscapeBuf {
		d.overflowPushback()
		return Key{}, false
	}

	switch d.state {
	case ansiAfterEsc:
		switch {
		case b == '[':
			d.state = ansiCSIParam
			return Key{}, false
		case b == 'N' || b == 'O':
			d.state = ansiSSChar
			return Key{}, false
		case b >= 0x20 && b <= 0x2F:
			d.state = ansiIntermediate
			return Key{}, false
		default:
			// Unrecognized final byte directly after ESC: drop silently.
			d.reset()
			return Key{}, false
		}

	case ansiIntermediate:
		switch {
		case b >= 0x20 && b <= 0x2F:
			return Key{}, false
		default:
			d.reset()
			return Key{}, false
		}

	case ansiCSIParam:
		switch {
		case b >= 0x30 && b <= 0x3F:
			return Key{}, false
		case b >= 0x20 && b <= 0x2F:
			d.state = ansiCSIInter
			return Key{}, false
		case b >= 0x40 && b <= 0x7E:
			return d.finishCSI(b)
		default:
			d.reset()
			return Key{}, false
		}

	case ansiCSIInter:
		switch {
		case b >= 0x20 && b <= 0x2F:
			return Key{}, false
		case b >= 0x40 && b <= 0x7E:
			return d.finishCSI(b)
		default:
			d.reset()
			return Key{}, false
		}

	case ansiSSChar:
		return d.finishSS(b)
	}

	d.reset()
	return Key{}, false
}

// finishCSI decodes the accumulated "\x1b[ params... final" sequence.
func (d *decoder) finishCSI(final byte) (Key, bool) {
	params := append([]byte(nil), d.escBuf[2:len(d.escBuf)-1]...) // strip ESC, '[', final.
	d.reset()

	if len(params) == 0 {
		switch final {
		case 'A':
			return editingKey(CursorUp), true
		case 'B':
			return editingKey(CursorDown), true
		case 'C':
			return editingKey(CursorRight), true
		case 'D':
			return editingKey(CursorLeft), true
		case 'F':
			return editingKey(End), true
		case 'H':
			return editingKey(Home), true
		}
		return Key{}, false
	}

	if final == '~' {
		switch string(params) {
		case "1":
			return editingKey(Home), true
		case "3":
			return editingKey(Delete), true
		case "4":
			return editingKey(End), true
		}
	}
	return Key{}, false
}

// finishSS decodes an SS2/SS3 "\x1b N|O <char>" sequence using the same
// final-byte vocabulary as a bare CSI sequence (spec.md Glossary: SS2/SS3
// "here used only as arrow-key prefixes by some terminals").
func (d *decoder) finishSS(final byte) (Key, bool) {
	d.reset()
	switch final {
	case 'A':
		return editingKey(CursorUp), true
	case 'B':
		return editingKey(CursorDown), true
	case 'C':
		return editingKey(CursorRight), true
	case 'D':
		return editingKey(CursorLeft), true
	case 'F':
		return editingKey(End), true
	case 'H':
		return editingKey(Home), true
	}
	return Key{}, false
}

// overflowPushback implements the "escape_buffer overflow" fallback: the
// buffered bytes (minus the leading ESC, which is simply dropped) are pushed
// back as raw printable input for reprocessing.
func (d *decoder) overflowPushback() {
	for i := len(d.escBuf) - 1; i >= 1; i-- {
		b := d.escBuf[i]
		if b >= 0x20 {
			d.Push(printableKey(b))
		}
	}
	d.reset()
}

func (d *decoder) reset() {
	d.state = ansiIdle
	d.escBuf = nil
}

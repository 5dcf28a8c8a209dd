package lineedit

// Key is the closed set of events the input decoder can produce. Exactly one
// of the kind-specific fields is meaningful, selected by Kind.
type Key struct {
	Kind  KeyKind
	Rune  byte // valid when Kind == KeyPrintable
	Named NamedKey
}

// KeyKind discriminates the event vocabulary described in spec.md §4.2.
type KeyKind int

const (
	KeyPrintable KeyKind = iota
	KeyControl
	KeyEditing
	KeySynthetic
)

// NamedKey enumerates the control, editing, and synthetic keys.
type NamedKey int

const (
	// Named control keys.
	CtrlA NamedKey = iota
	CtrlB
	CtrlC
	CtrlD
	CtrlE
	CtrlF
	CtrlG
	CtrlH
	CtrlK
	CtrlL
	CtrlN
	CtrlP
	CtrlR
	CtrlT
	CtrlU
	CtrlW
	CtrlY
	Tab
	Enter
	Backspace

	// Named editing keys.
	CursorUp
	CursorDown
	CursorLeft
	CursorRight
	Home
	End
	Delete

	// Synthetic keys.
	Closed
	ErrorKey
	Cancelled
	RawEscape
)

func printableKey(b byte) Key { return Key{Kind: KeyPrintable, Rune: b} }
func controlKey(n NamedKey) Key { return Key{Kind: KeyControl, Named: n} }
func editingKey(n NamedKey) Key { return Key{Kind: KeyEditing, Named: n} }
func syntheticKey(n NamedKey) Key { return Key{Kind: KeySynthetic, Named: n} }

// String renders a key for debug logging, following the teacher's
// debugKey naming scheme (e.g. "Control-a", "<up>", "<unknown>").
func (k Key) String() string {
	switch k.Kind {
	case KeyPrintable:
		return string(rune(k.Rune))
	case KeyControl:
		switch k.Named {
		case Tab:
			return "<tab>"
		case Enter:
			return "<enter>"
		case Backspace:
			return "<backspace>"
		default:
			// Letters of CtrlA..CtrlY, in NamedKey order.
			const letters = "abcdefghklnprtuwy"
			if i := int(k.Named); i >= 0 && i < len(letters) {
				return "Control-" + letters[i:i+1]
			}
			return "<?>"
		}
	case KeyEditing:
		names := map[NamedKey]string{
			CursorUp: "<up>", CursorDown: "<down>", CursorLeft: "<left>",
			CursorRight: "<right>", Home: "<home>", End: "<end>", Delete: "<delete>",
		}
		return names[k.Named]
	case KeySynthetic:
		names := map[NamedKey]string{
			Closed: "<closed>", ErrorKey: "<error>", Cancelled: "<cancelled>", RawEscape: "<esc>",
		}
		return names[k.Named]
	}
	return "<?>"
}

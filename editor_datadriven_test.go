package lineedit

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// tokenRE recognizes the teacher's <TokenName> input-script notation
// (prompt_test.go), narrowed to the closed NamedKey vocabulary this engine
// actually supports.
var tokenRE = regexp.MustCompile(`<[^>]*>`)

var tokenKeys = map[string]Key{
	"<CtrlA>":      controlKey(CtrlA),
	"<CtrlB>":      controlKey(CtrlB),
	"<CtrlC>":      controlKey(CtrlC),
	"<CtrlD>":      controlKey(CtrlD),
	"<CtrlE>":      controlKey(CtrlE),
	"<CtrlF>":      controlKey(CtrlF),
	"<CtrlG>":      controlKey(CtrlG),
	"<CtrlK>":      controlKey(CtrlK),
	"<CtrlL>":      controlKey(CtrlL),
	"<CtrlN>":      controlKey(CtrlN),
	"<CtrlP>":      controlKey(CtrlP),
	"<CtrlR>":      controlKey(CtrlR),
	"<CtrlT>":      controlKey(CtrlT),
	"<CtrlU>":      controlKey(CtrlU),
	"<CtrlW>":      controlKey(CtrlW),
	"<CtrlY>":      controlKey(CtrlY),
	"<Tab>":        controlKey(Tab),
	"<Enter>":      controlKey(Enter),
	"<Backspace>":  controlKey(Backspace),
	"<Left>":       editingKey(CursorLeft),
	"<Right>":      editingKey(CursorRight),
	"<Up>":         editingKey(CursorUp),
	"<Down>":       editingKey(CursorDown),
	"<Home>":       editingKey(Home),
	"<End>":        editingKey(End),
	"<Delete>":     editingKey(Delete),
}

func scriptToKeys(t *testing.T, input string) []Key {
	t.Helper()
	var keys []Key
	i := 0
	for i < len(input) {
		loc := tokenRE.FindStringIndex(input[i:])
		if loc == nil || loc[0] != 0 {
			keys = append(keys, printableKey(input[i]))
			i++
			continue
		}
		token := input[i : i+loc[1]]
		k, ok := tokenKeys[token]
		if !ok {
			t.Fatalf("unknown input token %q", token)
		}
		keys = append(keys, k)
		i += loc[1]
	}
	return keys
}

func TestEditorDataDriven(t *testing.T) {
	var e *Editor

	datadriven.RunTest(t, "testdata/editing", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "new-session":
			e = New(WithSize(80, 24))
			e.s.enterRead()
			return "ok"

		case "input":
			for _, k := range scriptToKeys(t, td.Input) {
				if _, _, err := e.dispatch(k); err != nil {
					return err.Error()
				}
			}
			return fmt.Sprintf("buf=%q cursor=%d", string(e.s.buf.Bytes()), e.s.buf.Cursor())

		default:
			t.Fatalf("unknown command %q", td.Cmd)
			return ""
		}
	})
}

package lineedit

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lineedit/lineedit/internal/ptytest"
)

// TestMain lets this binary double as the child process driven over a real
// pty by TestEditorOverRealPTY, following the self-exec pattern used to test
// interactive CLIs without a separate fixture binary.
func TestMain(m *testing.M) {
	if os.Getenv("LINEEDIT_PTY_CHILD") == "1" {
		runPTYChild()
		return
	}
	os.Exit(m.Run())
}

func runPTYChild() {
	ed := New()
	line, err := ed.ReadLine("> ")
	if err != nil {
		fmt.Println("ERR:" + err.Error())
		os.Exit(1)
	}
	fmt.Println("GOT:" + line)
	os.Exit(0)
}

func typeKeys(t *testing.T, e *Editor, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		_, _, err := e.dispatch(printableKey(s[i]))
		require.NoError(t, err)
	}
}

func TestEditorBasicInsertAndEnter(t *testing.T) {
	e := New(WithSize(80, 24))
	typeKeys(t, e, "hello")
	done, line, err := e.dispatch(controlKey(Enter))
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, "hello", line)
}

func TestEditorHistoryNavigation(t *testing.T) {
	e := New(WithSize(80, 24))
	e.History().Add("first")
	e.History().Add("second")
	e.s.enterRead()

	_, _, err := e.dispatch(controlKey(CtrlP))
	require.NoError(t, err)
	require.Equal(t, "second", string(e.s.buf.Bytes()))

	_, _, err = e.dispatch(controlKey(CtrlP))
	require.NoError(t, err)
	require.Equal(t, "first", string(e.s.buf.Bytes()))

	_, _, err = e.dispatch(controlKey(CtrlN))
	require.NoError(t, err)
	require.Equal(t, "second", string(e.s.buf.Bytes()))

	_, _, err = e.dispatch(controlKey(CtrlN))
	require.NoError(t, err)
	require.Equal(t, "", string(e.s.buf.Bytes()))
}

func TestEditorKillAndYank(t *testing.T) {
	e := New(WithSize(80, 24))
	e.s.enterRead()
	typeKeys(t, e, "hello world")
	e.s.buf.cursorPos = 5

	_, _, err := e.dispatch(controlKey(CtrlK))
	require.NoError(t, err)
	require.Equal(t, "hello", string(e.s.buf.Bytes()))

	_, _, err = e.dispatch(controlKey(CtrlY))
	require.NoError(t, err)
	require.Equal(t, "hello world", string(e.s.buf.Bytes()))
}

func TestEditorCtrlDOnEmptyBufferCloses(t *testing.T) {
	e := New(WithSize(80, 24))
	e.s.enterRead()
	_, _, err := e.dispatch(controlKey(CtrlD))
	require.ErrorIs(t, err, ErrClosed)
}

func TestEditorCtrlCOnEmptyBufferCancels(t *testing.T) {
	e := New(WithSize(80, 24))
	e.s.enterRead()
	_, _, err := e.dispatch(controlKey(CtrlC))
	require.ErrorIs(t, err, ErrCancelled)
}

func TestEditorCtrlCOnNonEmptyBufferClearsAndContinues(t *testing.T) {
	var out bytes.Buffer
	e := New(WithSize(80, 24), WithOutput(&out))
	e.s.enterRead()
	typeKeys(t, e, "partial")
	done, line, err := e.dispatch(controlKey(CtrlC))
	require.NoError(t, err)
	require.False(t, done)
	require.Empty(t, line)
	require.Empty(t, string(e.s.buf.Bytes()))
	require.Equal(t, ModeRead, e.s.mode)
	require.Contains(t, out.String(), "^C\r\n")
}

func TestEditorCompletionSingleCandidateApplies(t *testing.T) {
	e := New(WithSize(80, 24))
	e.s.enterRead()
	typeKeys(t, e, "sel")
	e.SetCompletionCallback(func(line []byte, cursor int, b CompletionBuilder) {
		if string(line[:cursor]) == "sel" {
			b.Add("SELECT", "SELECT", 6)
		}
	})
	_, _, err := e.dispatch(controlKey(Tab))
	require.NoError(t, err)
	require.Equal(t, "SELECT ", string(e.s.buf.Bytes()))
	require.Equal(t, ModeRead, e.s.mode)
}

func TestEditorCompletionSingleCandidateEndingInSlashOmitsSpace(t *testing.T) {
	e := New(WithSize(80, 24))
	e.s.enterRead()
	typeKeys(t, e, "dir")
	e.SetCompletionCallback(func(line []byte, cursor int, b CompletionBuilder) {
		if string(line[:cursor]) == "dir" {
			b.Add("dir/", "dir/", 4)
		}
	})
	_, _, err := e.dispatch(controlKey(Tab))
	require.NoError(t, err)
	require.Equal(t, "dir/", string(e.s.buf.Bytes()))
}

func TestEditorCompletionMultiCandidateCycles(t *testing.T) {
	var out bytes.Buffer
	e := New(WithSize(80, 24), WithOutput(&out))
	e.s.enterRead()
	e.SetCompletionCallback(func(line []byte, cursor int, b CompletionBuilder) {
		b.Add("SELECT", "SELECT", 6)
		b.Add("SET", "SET", 3)
	})
	_, _, err := e.dispatch(controlKey(Tab))
	require.NoError(t, err)
	require.Equal(t, ModeCompletion, e.s.mode)

	_, _, err = e.dispatch(controlKey(Tab))
	require.NoError(t, err)
	first := string(e.s.buf.Bytes())

	_, _, err = e.dispatch(controlKey(Tab))
	require.NoError(t, err)
	second := string(e.s.buf.Bytes())
	require.NotEqual(t, first, second)
}

func TestEditorReverseSearchFindsMatch(t *testing.T) {
	e := New(WithSize(80, 24))
	e.History().Add("select * from accounts")
	e.History().Add("select * from orders")
	e.s.enterRead()

	_, _, err := e.dispatch(controlKey(CtrlR))
	require.NoError(t, err)
	require.Equal(t, ModeReverseSearch, e.s.mode)

	for _, c := range "orders" {
		_, _, err = e.dispatch(printableKey(byte(c)))
		require.NoError(t, err)
	}
	require.Contains(t, string(e.s.buf.Bytes()), "orders")

	_, _, err = e.dispatch(controlKey(CtrlG))
	require.NoError(t, err)
	require.Equal(t, ModeRead, e.s.mode)
	require.Equal(t, "", string(e.s.buf.Bytes()))
}

func TestEditorReverseSearchCtrlCRestoresPreSearchBuffer(t *testing.T) {
	var out bytes.Buffer
	e := New(WithSize(80, 24), WithOutput(&out))
	e.History().Add("select * from orders")
	e.s.enterRead()
	typeKeys(t, e, "draft line")

	_, _, err := e.dispatch(controlKey(CtrlR))
	require.NoError(t, err)
	require.Equal(t, ModeReverseSearch, e.s.mode)

	for _, c := range "orders" {
		_, _, err = e.dispatch(printableKey(byte(c)))
		require.NoError(t, err)
	}
	require.Contains(t, string(e.s.buf.Bytes()), "orders")

	done, line, err := e.dispatch(controlKey(CtrlC))
	require.NoError(t, err)
	require.False(t, done)
	require.Empty(t, line)
	require.Equal(t, ModeRead, e.s.mode)
	require.Equal(t, "draft line", string(e.s.buf.Bytes()))
	require.Contains(t, out.String(), "^C\r\n")
}

// TestEditorOverRealPTY drives a self-exec'd child process over a genuine
// pseudo-terminal, exercising raw-mode entry, geometry queries, and a full
// ReadLine round trip end to end. Grounded on the teacher's pty-driven debug
// relay (see internal/ptytest).
func TestEditorOverRealPTY(t *testing.T) {
	self, err := os.Executable()
	require.NoError(t, err)

	require.NoError(t, os.Setenv("LINEEDIT_PTY_CHILD", "1"))
	sess, err := ptytest.Start(80, 24, self, "-test.run=TestMain")
	require.NoError(t, os.Unsetenv("LINEEDIT_PTY_CHILD"))
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	defer sess.Close()

	_, err = sess.Write([]byte("hi there\r"))
	require.NoError(t, err)

	out, err := sess.ReadUntil('\n', 2*time.Second)
	if err != nil {
		t.Skipf("pty child did not respond in time: %v", err)
	}
	require.Contains(t, string(out), "hi there")
}

package lineedit

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
)

// dbg mirrors the teacher's lazily-opened, env-var-gated debug stream
// (PROMPT_DEBUG there, LINEEDIT_DEBUG here), extended to tag each line with
// a per-session uuid so a log spanning multiple sequential ReadLine calls in
// one long-lived process can still be told apart (see SPEC_FULL.md §3
// SUPPLEMENTED).
var dbg = struct {
	sync.Once
	w   io.WriteCloser
	err error
}{}

func initDebug() {
	path := os.Getenv("LINEEDIT_DEBUG")
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		dbg.err = err
		return
	}
	dbg.w = f
}

func debugPrintf(sessionID uuid.UUID, format string, args ...interface{}) {
	dbg.Do(initDebug)
	if dbg.w == nil {
		return
	}
	fmt.Fprintf(dbg.w, "[%s] "+format, append([]interface{}{sessionID.String()[:8]}, args...)...)
}

func debugKey(k Key) string {
	return k.String()
}

package lineedit

import "sync/atomic"

// Mode is the top-level tagged variant from spec.md §4.6/§9.
type Mode int

const (
	ModeNewLine Mode = iota
	ModeRead
	ModeCompletion
	ModeReverseSearch
)

// session is the Edit session of spec.md §3: one per Editor, reset by
// enterRead at the start of each ReadLine call. It holds no state for a
// non-blocking, step-wise read; ReadLine is the only reading entry point.
type session struct {
	buf     *buffer
	history *History

	prompt            string
	tempPrompt        string
	promptColumnWidth int

	columns int

	oldVisualPos int
	oldVisualRow int
	maxRowsUsed  int

	mode             Mode
	historyIndex     int
	historySavedText []byte

	needsRefresh bool
	isDisplayed  bool
	isCancelled  int32 // set via atomic; sig_atomic_t-equivalent per spec.md §5
	isClosed     bool
	isAsync      bool

	dec *decoder

	completion *completionSet // non-nil iff mode == ModeCompletion
	search     *searchState   // non-nil iff mode == ModeReverseSearch

	lastKill []byte // single-register kill (see SPEC_FULL.md §4 SUPPLEMENTED)

	measure   CharMeasurer
	completer CompletionCallback
	multiLine bool

	historySentinelActive bool
}

func newSession(measure CharMeasurer, history *History) *session {
	if history == nil {
		history = NewHistory(defaultHistoryMax)
	}
	return &session{
		buf:     newBuffer(measure),
		history: history,
		measure: measure,
		dec:     newDecoder(),
		columns: 80,
	}
}

// SetCancelled sets the thread-safe cancel flag, callable from any context
// including a signal handler, per spec.md §5.
func (s *session) SetCancelled() {
	atomic.StoreInt32(&s.isCancelled, 1)
}

// testAndClearCancelled observes and clears the cancel flag, yielding true
// exactly once per SetCancelled call.
func (s *session) testAndClearCancelled() bool {
	return atomic.CompareAndSwapInt32(&s.isCancelled, 1, 0)
}

// effectivePrompt returns tempPrompt if set, else prompt.
func (s *session) effectivePrompt() string {
	if s.tempPrompt != "" {
		return s.tempPrompt
	}
	return s.prompt
}

// enterRead establishes the sentinel "current" history entry and resets
// session state for a new logical line, per spec.md §4.5/§9.
func (s *session) enterRead() {
	s.mode = ModeRead
	s.buf.Reset()
	s.historyIndex = 0
	s.historySentinelActive = true
	s.needsRefresh = true
}

// leaveRead releases the sentinel entry.
func (s *session) leaveRead() {
	s.historySentinelActive = false
}

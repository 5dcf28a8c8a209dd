package lineedit

import "sort"

// Candidate is one entry in a completion set, per spec.md §3: a display
// suggestion, the full replacement text, and the cursor position within the
// replacement.
type Candidate struct {
	Suggestion   string
	Replacement  string
	CursorOffset int
}

// CompletionBuilder is the interface a CompletionCallback uses to populate
// the candidate set, per spec.md §6. Entries are copied.
type CompletionBuilder interface {
	Add(suggestion, replacement string, cursorOffset int)
}

// CompletionCallback is the completion policy collaborator from spec.md §1/
// §6. It must not perform terminal I/O; the package provides no primitive
// for writing output from inside the callback.
type CompletionCallback func(line []byte, cursor int, b CompletionBuilder)

// completionSet holds the candidates produced by one invocation of the
// completion callback, plus the bookkeeping needed for cycling through them
// on repeated TAB presses.
type completionSet struct {
	candidates          []Candidate
	maxSuggestionWidth  int
	cycleIndex          int
	commonPrefixApplied bool
}

func newCompletionSet() *completionSet {
	return &completionSet{cycleIndex: -1}
}

// Add implements CompletionBuilder.
func (c *completionSet) Add(suggestion, replacement string, cursorOffset int) {
	c.candidates = append(c.candidates, Candidate{
		Suggestion:   suggestion,
		Replacement:  replacement,
		CursorOffset: cursorOffset,
	})
	if n := len(suggestion); n > c.maxSuggestionWidth {
		c.maxSuggestionWidth = n
	}
}

func (c *completionSet) Len() int { return len(c.candidates) }

func (c *completionSet) sortBySuggestion() {
	sort.Slice(c.candidates, func(i, j int) bool {
		return c.candidates[i].Suggestion < c.candidates[j].Suggestion
	})
}

// commonPrefix returns the longest common prefix of every candidate's
// replacement text.
func (c *completionSet) commonPrefix() string {
	if len(c.candidates) == 0 {
		return ""
	}
	prefix := c.candidates[0].Replacement
	for _, cand := range c.candidates[1:] {
		prefix = commonPrefixOf(prefix, cand.Replacement)
		if prefix == "" {
			break
		}
	}
	return prefix
}

func commonPrefixOf(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// next returns the next candidate to cycle to, advancing cycleIndex and
// wrapping around.
func (c *completionSet) next() Candidate {
	c.cycleIndex = (c.cycleIndex + 1) % len(c.candidates)
	return c.candidates[c.cycleIndex]
}

// columnLayout computes the column-major layout used to print the
// completion listing, per spec.md §4.6: spacing is maxSuggestionWidth+2,
// columns = terminalWidth/cellWidth (>=1), rows = ceil(count/columns).
func (c *completionSet) columnLayout(terminalWidth int) (columns, rows int) {
	cellWidth := c.maxSuggestionWidth + 2
	if cellWidth <= 0 {
		cellWidth = 1
	}
	columns = terminalWidth / cellWidth
	if columns < 1 {
		columns = 1
	}
	rows = (len(c.candidates) + columns - 1) / columns
	if rows < 1 {
		rows = 1
	}
	return columns, rows
}

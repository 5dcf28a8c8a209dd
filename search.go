package lineedit

import "strings"

// searchState is the REVERSE_SEARCH mode's data, carried only while
// mode == ModeReverseSearch (spec.md §9: "data carried by the variant, not
// stored as nullable fields").
type searchState struct {
	query        []byte
	currentIndex int // history index (0 = newest) to search from
	found        bool

	// savedText/savedCursor hold the buffer as it stood when CTRL_R was
	// pressed, restored verbatim on CTRL_C cancellation.
	savedText   []byte
	savedCursor int
}

// reverseSearchPrompt formats the temp prompt shown while searching, per
// spec.md §4.6: (reverse-i-search`<query>'):
func reverseSearchPrompt(query []byte) string {
	return "(reverse-i-search`" + string(query) + "'): "
}

// findRightmost returns the byte offset of the rightmost occurrence of
// query in entry, or -1. Repeated CTRL_R moves the search on to older
// history entries; earlier occurrences within the same entry are not
// visited.
func findRightmost(entry, query string) int {
	if query == "" {
		return -1
	}
	return strings.LastIndex(entry, query)
}

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindRightmost(t *testing.T) {
	require.Equal(t, 12, findRightmost("select a, b from foo", "from"))
	require.Equal(t, -1, findRightmost("select a, b", "from"))
	require.Equal(t, -1, findRightmost("anything", ""))
}

func TestReverseSearchPromptFormat(t *testing.T) {
	require.Equal(t, "(reverse-i-search`sel'): ", reverseSearchPrompt([]byte("sel")))
}

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompletionSetCommonPrefix(t *testing.T) {
	c := newCompletionSet()
	c.Add("SELECT", "SELECT", 6)
	c.Add("SELECTOR", "SELECTOR", 8)
	require.Equal(t, "SELECT", c.commonPrefix())
}

func TestCompletionSetCommonPrefixEmptyWhenDivergent(t *testing.T) {
	c := newCompletionSet()
	c.Add("SELECT", "SELECT", 6)
	c.Add("WHERE", "WHERE", 5)
	require.Equal(t, "", c.commonPrefix())
}

func TestCompletionSetCyclingWraps(t *testing.T) {
	c := newCompletionSet()
	c.Add("a", "a", 1)
	c.Add("b", "b", 1)

	first := c.next()
	second := c.next()
	third := c.next()
	require.Equal(t, first, third)
	require.NotEqual(t, first, second)
}

func TestCompletionSetColumnLayout(t *testing.T) {
	c := newCompletionSet()
	for _, s := range []string{"AA", "BB", "CC", "DD", "EE"} {
		c.Add(s, s, len(s))
	}
	columns, rows := c.columnLayout(20)
	require.GreaterOrEqual(t, columns, 1)
	require.Equal(t, (5+columns-1)/columns, rows)
}

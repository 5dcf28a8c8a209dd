package lineedit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryAddAndAt(t *testing.T) {
	h := NewHistory(3)
	h.Add("one")
	h.Add("two")
	h.Add("three")

	e, ok := h.At(0)
	require.True(t, ok)
	require.Equal(t, "three", e)

	e, ok = h.At(2)
	require.True(t, ok)
	require.Equal(t, "one", e)

	_, ok = h.At(3)
	require.False(t, ok)
}

func TestHistoryDropsOldestWhenFull(t *testing.T) {
	h := NewHistory(2)
	h.Add("one")
	h.Add("two")
	h.Add("three")
	require.Equal(t, 2, h.Len())

	e, _ := h.At(1)
	require.Equal(t, "two", e)
}

func TestHistoryDedupsImmediateRepeat(t *testing.T) {
	h := NewHistory(10)
	h.Add("same")
	h.Add("same")
	require.Equal(t, 1, h.Len())
}

func TestHistorySetMaxShrinks(t *testing.T) {
	h := NewHistory(10)
	h.Add("one")
	h.Add("two")
	h.Add("three")
	h.SetMax(1)
	require.Equal(t, 1, h.Len())
	e, _ := h.At(0)
	require.Equal(t, "three", e)
}

func TestHistorySaveLoadRoundTrip(t *testing.T) {
	h := NewHistory(10)
	h.Add("select 1")
	h.Add("select 2")

	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))
	require.Equal(t, "select 1\nselect 2\n", buf.String())

	h2 := NewHistory(10)
	require.NoError(t, h2.Load(&buf))
	require.Equal(t, h.Len(), h2.Len())
	e, _ := h2.At(0)
	require.Equal(t, "select 2", e)
}

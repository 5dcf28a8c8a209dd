package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, d *decoder, bs []byte) []Key {
	t.Helper()
	var keys []Key
	for _, b := range bs {
		if k, ok := d.Feed(b); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestDecoderPrintableAndControl(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte("a\x01\x04"))
	require.Len(t, keys, 3)
	require.Equal(t, printableKey('a'), keys[0])
	require.Equal(t, controlKey(CtrlA), keys[1])
	require.Equal(t, controlKey(CtrlD), keys[2])
}

func TestDecoderArrowKeysCSI(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte("\x1b[A\x1b[B\x1b[C\x1b[D"))
	require.Equal(t, []Key{
		editingKey(CursorUp), editingKey(CursorDown),
		editingKey(CursorRight), editingKey(CursorLeft),
	}, keys)
}

func TestDecoderHomeEndDeleteWithParams(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte("\x1b[1~\x1b[3~\x1b[4~"))
	require.Equal(t, []Key{editingKey(Home), editingKey(Delete), editingKey(End)}, keys)
}

func TestDecoderSS3Arrow(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte("\x1bOA"))
	require.Equal(t, []Key{editingKey(CursorUp)}, keys)
}

func TestDecoderEscTimeout(t *testing.T) {
	d := newDecoder()
	_, ok := d.Feed(0x1B)
	require.False(t, ok)
	require.True(t, d.InEscape())

	k := d.TimeoutEscape()
	require.Equal(t, syntheticKey(RawEscape), k)
	require.False(t, d.InEscape())
}

func TestDecoderUnrecognizedFinalByteDropped(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte("\x1bz"))
	require.Empty(t, keys)
	require.False(t, d.InEscape())
}

func TestDecoderPushback(t *testing.T) {
	d := newDecoder()
	d.Push(printableKey('x'))
	d.Push(printableKey('y'))
	require.True(t, d.HasPushback())

	k, ok := d.Pop()
	require.True(t, ok)
	require.Equal(t, printableKey('y'), k)

	k, ok = d.Pop()
	require.True(t, ok)
	require.Equal(t, printableKey('x'), k)

	_, ok = d.Pop()
	require.False(t, ok)
}

func TestDecoderEscapeOverflowPushesBackRawBytes(t *testing.T) {
	d := newDecoder()
	d.Feed(0x1B)
	d.Feed('[')
	for i := 0; i < maxEscapeBuf+2; i++ {
		d.Feed('0' + byte(i%10))
	}
	require.True(t, d.HasPushback())
	require.False(t, d.InEscape())
}

func TestDecoderDELIsBackspace(t *testing.T) {
	d := newDecoder()
	keys := feedAll(t, d, []byte{0x7F})
	require.Equal(t, []Key{controlKey(Backspace)}, keys)
}

package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllKeys(t *testing.T, input string) []Key {
	t.Helper()
	reader := NewKeyReader(strings.NewReader(input))
	var keys []Key
	for {
		key, err := reader.ReadKey()
		if err != nil {
			return keys
		}
		if key.Kind == KeyCtrlD && strings.Index(input, "\x04") < 0 {
			return keys // synthetic EOF key
		}
		keys = append(keys, key)
	}
}

func TestKeyReaderDecodesBasicKeys(t *testing.T) {
	keys := readAllKeys(t, "a\t\r\x7f\x03\x12")
	require.Len(t, keys, 6)
	assert.Equal(t, Key{Kind: KeyRune, Rune: 'a'}, keys[0])
	assert.Equal(t, KeyTab, keys[1].Kind)
	assert.Equal(t, KeyEnter, keys[2].Kind)
	assert.Equal(t, KeyBackspace, keys[3].Kind)
	assert.Equal(t, KeyCtrlC, keys[4].Kind)
	assert.Equal(t, KeyCtrlR, keys[5].Kind)
}

func TestKeyReaderDecodesEscapeSequences(t *testing.T) {
	cases := []struct {
		input string
		want  KeyKind
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
		{"\x1b[1~", KeyHome},
		{"\x1b[7~", KeyHome},
		{"\x1b[4~", KeyEnd},
		{"\x1b[8~", KeyEnd},
		{"\x1bOA", KeyUp},
		{"\x1b", KeyEsc},
	}
	for _, tc := range cases {
		keys := readAllKeys(t, tc.input)
		require.Len(t, keys, 1, "input %q", tc.input)
		assert.Equal(t, tc.want, keys[0].Kind, "input %q", tc.input)
	}
}

// Extended sequences the editor has no binding for must still be consumed
// whole: their parameter and final bytes never reappear as input runes.
func TestKeyReaderConsumesUnboundSequences(t *testing.T) {
	for _, input := range []string{
		"\x1b[3~",    // delete
		"\x1b[5~",    // page up
		"\x1b[6~",    // page down
		"\x1b[1;5C",  // ctrl-right (modifier parameters)
		"\x1b[15~",   // F5
		"\x1b[200~x", // bracketed paste start, then a real rune
	} {
		keys := readAllKeys(t, input)
		for _, key := range keys {
			if key.Kind == KeyRune {
				assert.Equal(t, Key{Kind: KeyRune, Rune: 'x'}, key, "input %q", input)
			}
		}
	}
}

func TestKeyReaderModifiedArrowActsAsArrow(t *testing.T) {
	keys := readAllKeys(t, "\x1b[1;5C")
	require.Len(t, keys, 1)
	assert.Equal(t, KeyRight, keys[0].Kind)
}

func TestDeleteSequenceDoesNotCorruptLine(t *testing.T) {
	reader := NewKeyReader(strings.NewReader("ab\x1b[3~c"))
	e := NewEditor(nil, nil)
	for {
		key, err := reader.ReadKey()
		if err != nil || key.Kind == KeyCtrlD {
			break
		}
		e.Handle(key)
	}
	assert.Equal(t, "abc", e.Line())
}

package input

import (
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const esc = 0x1b

// csiFinals maps the final byte of a parameterless CSI sequence.
var csiFinals = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'Z': tea.KeyShiftTab,
}

// csiTilde maps the numeric parameter of "ESC [ n ~" sequences.
var csiTilde = map[string]tea.KeyType{
	"1": tea.KeyHome,
	"2": tea.KeyInsert,
	"3": tea.KeyDelete,
	"4": tea.KeyEnd,
	"5": tea.KeyPgUp,
	"6": tea.KeyPgDown,
	"7": tea.KeyHome,
	"8": tea.KeyEnd,
}

// ss3Finals maps "ESC O x" application-mode sequences.
var ss3Finals = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'P': tea.KeyF1,
	'Q': tea.KeyF2,
	'R': tea.KeyF3,
	'S': tea.KeyF4,
}

// Decode converts raw terminal bytes into normalized key presses. Sequences
// it does not recognize are skipped.
func Decode(b []byte) []tea.Key {
	var keys []tea.Key
	for len(b) > 0 {
		k, n, ok := decodeOne(b)
		b = b[n:]
		if ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func decodeOne(b []byte) (tea.Key, int, bool) {
	switch c := b[0]; {
	case c == esc:
		return decodeEscape(b)
	case c == ' ':
		return tea.Key{Type: tea.KeySpace, Runes: []rune{' '}}, 1, true
	case c < 0x20 || c == 0x7f:
		// Control bytes share their values with tea's control key types.
		return tea.Key{Type: tea.KeyType(c)}, 1, true
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return tea.Key{}, 1, false
	}
	return tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}, size, true
}

func decodeEscape(b []byte) (tea.Key, int, bool) {
	if len(b) == 1 {
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}

	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return tea.Key{Type: tea.KeyRunes, Runes: []rune{'O'}, Alt: true}, 2, true
		}
		if t, ok := ss3Finals[b[2]]; ok {
			return tea.Key{Type: t}, 3, true
		}
		return tea.Key{}, 3, false
	case esc:
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}

	// ESC followed by a plain key is how terminals send alt+key.
	k, n, ok := decodeOne(b[1:])
	if !ok {
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}
	k.Alt = true
	return k, n + 1, true
}

// decodeCSI parses "ESC [ params final". Modifier parameters other than alt
// are ignored; the key bindings never distinguish them.
func decodeCSI(b []byte) (tea.Key, int, bool) {
	i := 2
	for i < len(b) && b[i] >= 0x20 && b[i] <= 0x3f {
		i++
	}
	if i >= len(b) || b[i] < 0x40 || b[i] > 0x7e {
		// Truncated sequence: drop what we have.
		return tea.Key{}, i, false
	}
	final := b[i]
	n := i + 1

	params := strings.Split(string(b[2:i]), ";")
	alt := false
	if len(params) > 1 {
		if mod, err := strconv.Atoi(params[len(params)-1]); err == nil && (mod-1)&2 != 0 {
			alt = true
		}
	}

	if final == '~' {
		if t, ok := csiTilde[params[0]]; ok {
			return tea.Key{Type: t, Alt: alt}, n, true
		}
		return tea.Key{}, n, false
	}
	if t, ok := csiFinals[final]; ok {
		return tea.Key{Type: t, Alt: alt}, n, true
	}
	return tea.Key{}, n, false
}

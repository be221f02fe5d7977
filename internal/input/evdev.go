package input

// Linux evdev key codes (input-event-codes.h).
const (
	keyEsc       = 1
	keyBackspace = 14
	keyTab       = 15
	keyEnter     = 28
	keyLeftCtrl  = 29
	keyLeftShift = 42
	keyLeftAlt   = 56
	keySpace     = 57
	keyCapsLock  = 58
	keyHome      = 102
	keyUp        = 103
	keyPageUp    = 104
	keyLeft      = 105
	keyRight     = 106
	keyEnd       = 107
	keyDown      = 108
	keyPageDown  = 109
	keyInsert    = 110
	keyDelete    = 111
	keyLeftMeta  = 125
)

var evdevNamed = map[string]uint32{
	"escape":    keyEsc,
	"enter":     keyEnter,
	"space":     keySpace,
	"backspace": keyBackspace,
	"tab":       keyTab,
	"delete":    keyDelete,
	"insert":    keyInsert,
	"home":      keyHome,
	"end":       keyEnd,
	"pageup":    keyPageUp,
	"pagedown":  keyPageDown,
	"up":        keyUp,
	"down":      keyDown,
	"left":      keyLeft,
	"right":     keyRight,
	"ctrl":      keyLeftCtrl,
	"alt":       keyLeftAlt,
	"shift":     keyLeftShift,
	"win":       keyLeftMeta,
	"capslock":  keyCapsLock,
	"f1":        59,
	"f2":        60,
	"f3":        61,
	"f4":        62,
	"f5":        63,
	"f6":        64,
	"f7":        65,
	"f8":        66,
	"f9":        67,
	"f10":       68,
	"f11":       87,
	"f12":       88,
}

// US layout positions of letters a..z.
var evdevLetters = [26]uint32{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, 50,
	49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44,
}

// US layout positions of digits 0..9.
var evdevDigits = [10]uint32{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// evdevPunct maps unshifted punctuation; evdevShifted maps characters that
// need shift on top of the listed key.
var (
	evdevPunct = map[rune]uint32{
		' ': keySpace, '\n': keyEnter, '\t': keyTab,
		'-': 12, '=': 13, '[': 26, ']': 27, ';': 39, '\'': 40,
		'`': 41, '\\': 43, ',': 51, '.': 52, '/': 53,
	}
	evdevShifted = map[rune]uint32{
		'!': 2, '@': 3, '#': 4, '$': 5, '%': 6, '^': 7, '&': 8, '*': 9,
		'(': 10, ')': 11, '_': 12, '+': 13, '{': 26, '}': 27, ':': 39,
		'"': 40, '~': 41, '|': 43, '<': 51, '>': 52, '?': 53,
	}
)

// evdevKey resolves a canonical key name to an evdev code.
func evdevKey(name string) (uint32, bool) {
	if code, ok := evdevNamed[name]; ok {
		return code, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return evdevLetters[c-'a'], true
		case c >= '0' && c <= '9':
			return evdevDigits[c-'0'], true
		}
	}
	return 0, false
}

// runeStroke returns the key chord that types r on a US layout.
func runeStroke(r rune) ([]uint32, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return []uint32{evdevLetters[r-'a']}, true
	case r >= 'A' && r <= 'Z':
		return []uint32{keyLeftShift, evdevLetters[r-'A']}, true
	case r >= '0' && r <= '9':
		return []uint32{evdevDigits[r-'0']}, true
	}
	if code, ok := evdevPunct[r]; ok {
		return []uint32{code}, true
	}
	if code, ok := evdevShifted[r]; ok {
		return []uint32{keyLeftShift, code}, true
	}
	return nil, false
}

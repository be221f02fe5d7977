package protocol

import (
	"fmt"
	"sort"
	"strings"
)

// namedKeys is the fixed key-name vocabulary accepted by key and combo messages.
var namedKeys = map[string]struct{}{
	"escape": {}, "enter": {}, "space": {}, "backspace": {}, "tab": {},
	"delete": {}, "insert": {}, "home": {}, "end": {}, "pageup": {}, "pagedown": {},
	"up": {}, "down": {}, "left": {}, "right": {},
	"ctrl": {}, "alt": {}, "shift": {}, "win": {}, "capslock": {},
	"f1": {}, "f2": {}, "f3": {}, "f4": {}, "f5": {}, "f6": {},
	"f7": {}, "f8": {}, "f9": {}, "f10": {}, "f11": {}, "f12": {},
}

var keyAliases = map[string]string{
	"esc":      "escape",
	"return":   "enter",
	"del":      "delete",
	"control":  "ctrl",
	"option":   "alt",
	"cmd":      "win",
	"command":  "win",
	"super":    "win",
	"meta":     "win",
	"pgup":     "pageup",
	"pgdn":     "pagedown",
	"capital":  "capslock",
	"spacebar": "space",
}

// NormalizeKey maps a wire key name to its canonical vocabulary entry.
// Single letters and digits are accepted as themselves.
func NormalizeKey(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	if _, ok := namedKeys[key]; ok {
		return key, nil
	}
	if len(key) == 1 {
		c := key[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrUnsupported, name)
}

// KeyNames returns the sorted canonical key vocabulary, excluding letters and digits.
func KeyNames() []string {
	out := make([]string, 0, len(namedKeys))
	for k := range namedKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

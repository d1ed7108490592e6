package hotkey

import (
	"fmt"
	"strings"
)

// Key is one bindable key: its name, per-platform rawcodes and, for printable
// keys, the character gohook reports on typed events.
type Key struct {
	Name     string
	Rawcodes []uint16
	Char     rune
}

func (k Key) matchesRawcode(rawcode uint16) bool {
	for _, rc := range k.Rawcodes {
		if rc == rawcode {
			return true
		}
	}
	return false
}

// ParseKey resolves a configured key name for the platform goos.
func ParseKey(goos, name string) (Key, error) {
	keyName := normalizeKeyName(name)
	if keyName == "" {
		return Key{}, fmt.Errorf("empty key name")
	}
	rawcodes := keyNameToRawcodes(goos, keyName)
	if len(rawcodes) == 0 {
		return Key{}, fmt.Errorf("cannot map key %q to rawcodes on %s", name, goos)
	}
	return Key{Name: keyName, Rawcodes: rawcodes, Char: keyChar(keyName)}, nil
}

func normalizeKeyName(name string) string {
	keyName := strings.ToLower(strings.TrimSpace(name))
	switch keyName {
	case "":
		// a bare space is a valid key only when nothing else was given
		if name != "" {
			return "space"
		}
		return ""
	case "comma":
		return ","
	case "period", "dot":
		return "."
	case "escape":
		return "esc"
	case "return":
		return "enter"
	case "del":
		return "delete"
	case "ins":
		return "insert"
	case "pgup":
		return "pageup"
	case "pgdn":
		return "pagedown"
	}
	return keyName
}

func keyChar(keyName string) rune {
	if len(keyName) == 1 {
		return rune(keyName[0])
	}
	if keyName == "space" {
		return ' '
	}
	return 0
}

// keyNameToRawcodes maps a normalized key name to the rawcodes gohook reports:
// virtual-key codes on Windows, X11 keysyms on Linux, virtual keycodes on macOS.
func keyNameToRawcodes(goos, keyName string) []uint16 {
	switch goos {
	case "windows":
		return windowsRawcodes(keyName)
	case "darwin":
		return darwinRawcodes(keyName)
	default:
		return x11Rawcodes(keyName)
	}
}

func windowsRawcodes(keyName string) []uint16 {
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c - 'a' + 'A')} // VK 0x41-0x5A
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)} // VK 0x30-0x39
		}
	}
	if n, ok := functionKeyNumber(keyName); ok {
		return []uint16{uint16(111 + n)} // VK_F1 = 112
	}

	switch keyName {
	case ",":
		return []uint16{188} // VK_OEM_COMMA
	case ".":
		return []uint16{190} // VK_OEM_PERIOD
	case "/":
		return []uint16{191} // VK_OEM_2
	case ";":
		return []uint16{186} // VK_OEM_1
	case "space":
		return []uint16{32} // VK_SPACE
	case "enter":
		return []uint16{13} // VK_RETURN
	case "esc":
		return []uint16{27} // VK_ESCAPE
	case "tab":
		return []uint16{9} // VK_TAB
	case "backspace":
		return []uint16{8} // VK_BACK
	case "delete":
		return []uint16{46} // VK_DELETE
	case "insert":
		return []uint16{45} // VK_INSERT
	case "home":
		return []uint16{36} // VK_HOME
	case "end":
		return []uint16{35} // VK_END
	case "pageup":
		return []uint16{33} // VK_PRIOR
	case "pagedown":
		return []uint16{34} // VK_NEXT
	case "left":
		return []uint16{37} // VK_LEFT
	case "up":
		return []uint16{38} // VK_UP
	case "right":
		return []uint16{39} // VK_RIGHT
	case "down":
		return []uint16{40} // VK_DOWN
	}
	return nil
}

func x11Rawcodes(keyName string) []uint16 {
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			// lower and upper case keysyms
			return []uint16{uint16(c), uint16(c - 'a' + 'A')}
		case c >= '0' && c <= '9', c == ',', c == '.', c == '/', c == ';':
			return []uint16{uint16(c)}
		}
	}
	if n, ok := functionKeyNumber(keyName); ok {
		return []uint16{uint16(0xffbd + n)} // XK_F1 = 0xffbe
	}

	switch keyName {
	case "space":
		return []uint16{0x0020}
	case "enter":
		return []uint16{0xff0d, 0xff8d} // XK_Return, XK_KP_Enter
	case "esc":
		return []uint16{0xff1b}
	case "tab":
		return []uint16{0xff09}
	case "backspace":
		return []uint16{0xff08}
	case "delete":
		return []uint16{0xffff}
	case "insert":
		return []uint16{0xff63}
	case "home":
		return []uint16{0xff50}
	case "end":
		return []uint16{0xff57}
	case "pageup":
		return []uint16{0xff55}
	case "pagedown":
		return []uint16{0xff56}
	case "left":
		return []uint16{0xff51}
	case "up":
		return []uint16{0xff52}
	case "right":
		return []uint16{0xff53}
	case "down":
		return []uint16{0xff54}
	}
	return nil
}

var darwinKeycodes = map[string]uint16{
	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7, "c": 8, "v": 9,
	"b": 11, "q": 12, "w": 13, "e": 14, "r": 15, "y": 16, "t": 17,
	"1": 18, "2": 19, "3": 20, "4": 21, "6": 22, "5": 23, "9": 25, "7": 26, "8": 28, "0": 29,
	"o": 31, "u": 32, "i": 34, "p": 35, "l": 37, "j": 38, "k": 40, "n": 45, "m": 46,
	";": 41, ",": 43, "/": 44, ".": 47,
	"enter": 36, "tab": 48, "space": 49, "backspace": 51, "esc": 53,
	"f1": 122, "f2": 120, "f3": 99, "f4": 118, "f5": 96, "f6": 97,
	"f7": 98, "f8": 100, "f9": 101, "f10": 109, "f11": 103, "f12": 111,
	"home": 115, "pageup": 116, "delete": 117, "end": 119, "pagedown": 121,
	"left": 123, "right": 124, "down": 125, "up": 126,
}

func darwinRawcodes(keyName string) []uint16 {
	if code, ok := darwinKeycodes[keyName]; ok {
		return []uint16{code}
	}
	return nil
}

// functionKeyNumber parses "f1".."f24".
func functionKeyNumber(keyName string) (int, bool) {
	if len(keyName) < 2 || keyName[0] != 'f' {
		return 0, false
	}
	n := 0
	for _, c := range keyName[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

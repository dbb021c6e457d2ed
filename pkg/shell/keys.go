package shell

import "unicode/utf8"

// Key is a logical key identifier. Printable keys are the character itself,
// everything else uses one of the named constants below.
type Key string

const (
	KeyBackspace Key = "Backspace"
	KeyEnter     Key = "Enter"
	KeyShift     Key = "Shift"
	KeyCaps      Key = "Caps"
	KeySpace     Key = "Space"
	KeyTab       Key = "Tab"
	KeyDelete    Key = "Delete"
	KeyHome      Key = "Home"
	KeyEnd       Key = "End"
	KeyEscape    Key = "Escape"

	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"

	KeyCtrl Key = "Ctrl"
	KeyAlt  Key = "Alt"
	KeyWin  Key = "Win"
	KeyMenu Key = "Menu"

	KeyF1  Key = "F1"
	KeyF2  Key = "F2"
	KeyF3  Key = "F3"
	KeyF4  Key = "F4"
	KeyF5  Key = "F5"
	KeyF6  Key = "F6"
	KeyF7  Key = "F7"
	KeyF8  Key = "F8"
	KeyF9  Key = "F9"
	KeyF10 Key = "F10"
	KeyF11 Key = "F11"
	KeyF12 Key = "F12"
)

// CharKey returns the key identifier for a printable character
func CharKey(ch rune) Key {
	return Key(string(ch))
}

// Printable reports whether the key inserts a single character
func (k Key) Printable() bool {
	return utf8.RuneCountInString(string(k)) == 1
}

// Rune returns the character of a printable key
func (k Key) Rune() rune {
	r, _ := utf8.DecodeRuneInString(string(k))
	return r
}

// IsFunction reports whether the key is one of F1-F12
func (k Key) IsFunction() bool {
	switch k {
	case KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6,
		KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12:
		return true
	}
	return false
}

// IsNavigation reports whether the key is an arrow or a non-sticky modifier
func (k Key) IsNavigation() bool {
	switch k {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight,
		KeyCtrl, KeyAlt, KeyWin, KeyMenu:
		return true
	}
	return false
}

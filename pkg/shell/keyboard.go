package shell

import (
	"strings"
	"unicode/utf8"
)

// KeyClass groups keys for styling
type KeyClass int

const (
	ClassChar KeyClass = iota
	ClassFunction
	ClassModifier
	ClassAction
	ClassSpace
)

// KeyCap is one key on the virtual keyboard
type KeyCap struct {
	Key   Key
	Label string
	Class KeyClass
	// Width is the label area in cells; zero means the label length
	Width int
}

func (k KeyCap) width() int {
	if n := utf8.RuneCountInString(k.Label); k.Width < n {
		return n
	}
	return k.Width
}

// Layout is the on-screen keyboard, one slice per row
type Layout struct {
	Rows [][]KeyCap
}

// Cell is a rendered key with its horizontal extent on a row
type Cell struct {
	KeyCap
	Text  string
	Start int
	End   int // exclusive
}

func chars(s string) []KeyCap {
	caps := make([]KeyCap, 0, len(s))
	for _, ch := range s {
		caps = append(caps, KeyCap{Key: CharKey(ch), Label: string(ch), Class: ClassChar})
	}
	return caps
}

func row(parts ...[]KeyCap) []KeyCap {
	var out []KeyCap
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func single(key Key, label string, class KeyClass, width int) []KeyCap {
	return []KeyCap{{Key: key, Label: label, Class: class, Width: width}}
}

// DefaultLayout is a full-size QWERTY keyboard with a function row
func DefaultLayout() Layout {
	fnRow := make([]KeyCap, 0, 12)
	for _, k := range []Key{KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12} {
		fnRow = append(fnRow, KeyCap{Key: k, Label: string(k), Class: ClassFunction})
	}

	return Layout{Rows: [][]KeyCap{
		fnRow,
		row(chars("`1234567890-="), single(KeyBackspace, "Backspace", ClassAction, 0)),
		row(single(KeyTab, "Tab", ClassAction, 0), chars("qwertyuiop[]\\")),
		row(single(KeyCaps, "Caps", ClassModifier, 0), chars("asdfghjkl;'"), single(KeyEnter, "Enter", ClassAction, 0)),
		row(single(KeyShift, "Shift", ClassModifier, 0), chars("zxcvbnm,./"), single(KeyShift, "Shift", ClassModifier, 0)),
		row(
			single(KeyCtrl, "Ctrl", ClassModifier, 0),
			single(KeyAlt, "Alt", ClassModifier, 0),
			single(KeySpace, "Space", ClassSpace, 24),
			single(KeyAlt, "Alt", ClassModifier, 0),
			single(KeyCtrl, "Ctrl", ClassModifier, 0),
		),
	}}
}

// LabelFor returns the text shown on a key for the given modifiers.
// Letters follow the effective case, active sticky keys are upper-cased.
func (k KeyCap) LabelFor(mods ModifierState) string {
	switch {
	case k.Class == ClassChar:
		return string(mods.Letter(k.Key.Rune()))
	case k.Key == KeyShift && mods.Shift, k.Key == KeyCaps && mods.Caps:
		return strings.ToUpper(k.Label)
	}
	return k.Label
}

// Cells lays a row out as "[label]" cells separated by one space
func (l Layout) Cells(rowIndex int, mods ModifierState) []Cell {
	if rowIndex < 0 || rowIndex >= len(l.Rows) {
		return nil
	}
	cells := make([]Cell, 0, len(l.Rows[rowIndex]))
	col := 0
	for _, kc := range l.Rows[rowIndex] {
		label := kc.LabelFor(mods)
		w := kc.width()
		pad := w - utf8.RuneCountInString(label)
		left := pad / 2
		text := "[" + strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left) + "]"
		cells = append(cells, Cell{KeyCap: kc, Text: text, Start: col, End: col + w + 2})
		col += w + 3
	}
	return cells
}

// Render returns one string per row
func (l Layout) Render(mods ModifierState) []string {
	lines := make([]string, len(l.Rows))
	for i := range l.Rows {
		cells := l.Cells(i, mods)
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = c.Text
		}
		lines[i] = strings.Join(parts, " ")
	}
	return lines
}

// KeyAt hit-tests a click at (col, row). Clicks on the gap between keys miss.
func (l Layout) KeyAt(col, rowIndex int) (Key, bool) {
	for _, c := range l.Cells(rowIndex, ModifierState{}) {
		if col >= c.Start && col < c.End {
			return c.Key, true
		}
	}
	return "", false
}

// Width is the widest rendered row
func (l Layout) Width() int {
	max := 0
	for i := range l.Rows {
		cells := l.Cells(i, ModifierState{})
		if n := len(cells); n > 0 && cells[n-1].End > max {
			max = cells[n-1].End
		}
	}
	return max
}

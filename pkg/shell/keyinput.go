package shell

import (
	"strings"
	"unicode"
)

// ModifierState holds the virtual keyboard's case modifiers.
// Shift is one-shot, Caps is sticky.
type ModifierState struct {
	Shift bool
	Caps  bool
}

// Upper reports whether letters are currently produced in upper case
func (m ModifierState) Upper() bool {
	return m.Shift != m.Caps
}

// Letter renders ch in the effective case. Non-letters pass through.
func (m ModifierState) Letter(ch rune) rune {
	if !unicode.IsLetter(ch) {
		return ch
	}
	if m.Upper() {
		return unicode.ToUpper(ch)
	}
	return unicode.ToLower(ch)
}

// EffectKind tags what the caller must do after a key was applied
type EffectKind int

const (
	// EffectSubmit carries trimmed text for the dispatcher
	EffectSubmit EffectKind = iota + 1
	// EffectRelabel means letter keys must be redrawn in the new case
	EffectRelabel
)

// SideEffect is raised by Apply. The keyboard never submits anything itself.
type SideEffect struct {
	Kind EffectKind
	Text string
}

// Apply maps one logical key onto the buffer. Keys without an edit meaning
// (function keys, arrows, Ctrl/Alt/Win/Menu, unknown names) are accepted
// and leave both buffer and modifiers untouched.
func Apply(buf InputBuffer, mods ModifierState, key Key) (InputBuffer, ModifierState, *SideEffect) {
	switch key {
	case KeyBackspace:
		return buf.Backspace(), mods, nil
	case KeySpace:
		return buf.Insert(" "), mods, nil
	case KeyTab:
		return buf.Insert("\t"), mods, nil
	case KeyEnter:
		text := strings.TrimSpace(buf.Text())
		if text == "" {
			return buf, mods, nil
		}
		return buf.Clear(), mods, &SideEffect{Kind: EffectSubmit, Text: text}
	case KeyShift:
		mods.Shift = !mods.Shift
		return buf, mods, &SideEffect{Kind: EffectRelabel}
	case KeyCaps:
		mods.Caps = !mods.Caps
		return buf, mods, &SideEffect{Kind: EffectRelabel}
	}

	if !key.Printable() {
		return buf, mods, nil
	}

	buf = buf.Insert(string(mods.Letter(key.Rune())))
	if mods.Shift {
		mods.Shift = false
		return buf, mods, &SideEffect{Kind: EffectRelabel}
	}
	return buf, mods, nil
}

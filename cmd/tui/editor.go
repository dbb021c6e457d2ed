package tui

import (
	"context"

	"github.com/awesome-gocui/gocui"
	"github.com/gdamore/tcell/v2"
	"github.com/kcaldas/netterm/pkg/shell"
	"github.com/kcaldas/netterm/pkg/terminal"
)

// InputEditor forwards physical key presses on the input view to the session
type InputEditor struct {
	ctx     context.Context
	session *terminal.Session
}

func NewInputEditor(ctx context.Context, session *terminal.Session) gocui.Editor {
	return &InputEditor{ctx: ctx, session: session}
}

func (e *InputEditor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	k, mods, ok := TranslateKey(key, ch, mod)
	if !ok {
		return
	}
	e.session.PressPhysical(e.ctx, k, mods)
}

var ctrlLetters = map[gocui.Key]rune{
	gocui.KeyCtrlA: 'a',
	gocui.KeyCtrlE: 'e',
	gocui.KeyCtrlU: 'u',
	gocui.KeyCtrlW: 'w',
}

// TranslateKey maps a gocui key event onto a logical key. Keys the session
// has no use for report ok=false.
func TranslateKey(key gocui.Key, ch rune, mod gocui.Modifier) (shell.Key, terminal.Modifiers, bool) {
	mods := terminal.ModNone
	if mod&gocui.Modifier(tcell.ModAlt) != 0 {
		mods |= terminal.ModAlt
	}
	if mod&gocui.Modifier(tcell.ModCtrl) != 0 {
		mods |= terminal.ModCtrl
	}
	if mod&gocui.Modifier(tcell.ModShift) != 0 {
		mods |= terminal.ModShift
	}

	if ch != 0 {
		return shell.CharKey(ch), mods, true
	}

	if letter, ok := ctrlLetters[key]; ok {
		return shell.CharKey(letter), mods | terminal.ModCtrl, true
	}

	switch key {
	case gocui.KeyEnter:
		return shell.KeyEnter, mods, true
	case gocui.KeyTab:
		return shell.KeyTab, mods, true
	case gocui.KeySpace:
		return shell.KeySpace, mods, true
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		return shell.KeyBackspace, mods, true
	case gocui.KeyDelete:
		return shell.KeyDelete, mods, true
	case gocui.KeyHome:
		return shell.KeyHome, mods, true
	case gocui.KeyEnd:
		return shell.KeyEnd, mods, true
	case gocui.KeyEsc:
		return shell.KeyEscape, mods, true
	case gocui.KeyArrowUp:
		return shell.KeyArrowUp, mods, true
	case gocui.KeyArrowDown:
		return shell.KeyArrowDown, mods, true
	case gocui.KeyArrowLeft:
		return shell.KeyArrowLeft, mods, true
	case gocui.KeyArrowRight:
		return shell.KeyArrowRight, mods, true
	}
	return "", mods, false
}

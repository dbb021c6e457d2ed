package tui

import (
	"github.com/awesome-gocui/gocui"
)

// KeymapEntry represents a single keybinding in the keymap
type KeymapEntry struct {
	View        string         // view the binding is scoped to, "" for global
	Key         any            // gocui.Key or rune
	Mod         gocui.Modifier // Key modifier (Ctrl, Alt, etc.)
	Label       string         // short label for the status line, empty to hide
	Action      func() error
	Description string
}

// Keymap manages the application's keybindings
type Keymap struct {
	entries []KeymapEntry
}

func NewKeymap() *Keymap {
	return &Keymap{
		entries: make([]KeymapEntry, 0),
	}
}

// AddEntry adds a new keybinding entry to the keymap
func (k *Keymap) AddEntry(entry KeymapEntry) {
	k.entries = append(k.entries, entry)
}

func (k *Keymap) GetEntries() []KeymapEntry {
	return k.entries
}

// Hints returns the labelled entries as "label description" pairs
func (k *Keymap) Hints() []string {
	var hints []string
	for _, e := range k.entries {
		if e.Label == "" {
			continue
		}
		hints = append(hints, e.Label+" "+e.Description)
	}
	return hints
}

// Bind registers every entry with g
func (k *Keymap) Bind(g *gocui.Gui) error {
	for _, entry := range k.entries {
		action := entry.Action
		if err := g.SetKeybinding(entry.View, entry.Key, entry.Mod, func(*gocui.Gui, *gocui.View) error {
			return action()
		}); err != nil {
			return err
		}
	}
	return nil
}

package terminal

import (
	"context"
	"sync"

	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/history"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/shell"
)

// Modifiers carries the held modifier keys of a physical key event
type Modifiers uint8

const ModNone Modifiers = 0

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag != 0
}

// Snapshot is everything a view needs to redraw the prompt area
type Snapshot struct {
	Text            string
	Cursor          int
	SelectionStart  int
	SelectionEnd    int
	Modifiers       shell.ModifierState
	Suggestions     []shell.Suggestion
	Selected        int
	KeyboardVisible bool
	Mode            commands.Mode
}

// ChangeFunc is called after every key that touched the session
type ChangeFunc func(Snapshot)

// Session owns the input buffer and serializes every edit to it, whether the
// key came from the on-screen keyboard or the physical one.
type Session struct {
	mu              sync.Mutex
	buf             shell.InputBuffer
	mods            shell.ModifierState
	field           *shell.Field
	suggestions     *shell.Engine
	layout          shell.Layout
	keyboardVisible bool

	registry   *commands.Registry
	history    *history.Log
	dispatcher *commands.Dispatcher
	bus        events.Publisher
	logger     logging.Logger

	listeners []ChangeFunc
}

type Options struct {
	Field           *shell.Field
	Layout          shell.Layout
	KeyboardVisible bool
	CapsLock        bool
	Logger          logging.Logger
}

func NewSession(registry *commands.Registry, hist *history.Log, dispatcher *commands.Dispatcher, bus events.Publisher, opts Options) *Session {
	field := opts.Field
	if field == nil {
		field = shell.NewField(nil)
	}
	layout := opts.Layout
	if len(layout.Rows) == 0 {
		layout = shell.DefaultLayout()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewComponentLogger("terminal")
	}

	s := &Session{
		field:           field,
		suggestions:     shell.NewEngine(registry),
		layout:          layout,
		keyboardVisible: opts.KeyboardVisible,
		mods:            shell.ModifierState{Caps: opts.CapsLock},
		registry:        registry,
		history:         hist,
		dispatcher:      dispatcher,
		bus:             bus,
		logger:          logger,
	}
	field.SetReadOnly(opts.KeyboardVisible)
	return s
}

// OnChange registers a redraw callback
func (s *Session) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Layout() shell.Layout {
	return s.layout
}

func (s *Session) Field() *shell.Field {
	return s.field
}

// PressVirtual applies a key tapped on the on-screen keyboard. The edit runs
// inside the field's edit scope so a read-only field never raises a native
// keyboard. Tab always inserts a literal tab here.
func (s *Session) PressVirtual(ctx context.Context, key shell.Key) error {
	s.mu.Lock()

	var effect *shell.SideEffect
	before := s.buf.Text()
	err := s.field.Edit(func() error {
		s.buf, s.mods, effect = shell.Apply(s.buf, s.mods, key)
		return nil
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var submit string
	if effect != nil && effect.Kind == shell.EffectSubmit {
		submit = effect.Text
		s.suggestions.Dismiss()
	} else if s.buf.Text() != before {
		s.edited()
	}
	s.mu.Unlock()

	if submit != "" {
		s.submit(ctx, submit)
	}
	s.notify()
	return nil
}

// PressAt taps the on-screen key under col on keyboard row
func (s *Session) PressAt(ctx context.Context, col, row int) (shell.Key, bool, error) {
	key, ok := s.layout.KeyAt(col, row)
	if !ok {
		return "", false, nil
	}
	return key, true, s.PressVirtual(ctx, key)
}

// PressPhysical applies a key typed on a real keyboard
func (s *Session) PressPhysical(ctx context.Context, key shell.Key, mods Modifiers) {
	s.mu.Lock()

	before := s.buf.Text()
	submit := ""
	switch {
	case mods.Has(ModCtrl) && key.Printable():
		s.ctrlKey(key.Rune())
	case mods.Has(ModAlt) && key == shell.KeyArrowLeft:
		s.buf = s.buf.PreviousWord()
	case mods.Has(ModAlt) && key == shell.KeyArrowRight:
		s.buf = s.buf.NextWord()
	case mods.Has(ModShift) && key == shell.KeyArrowLeft:
		s.buf = s.buf.ExtendSelection(-1)
	case mods.Has(ModShift) && key == shell.KeyArrowRight:
		s.buf = s.buf.ExtendSelection(1)
	default:
		submit = s.physicalKey(key)
	}

	recalled := key == shell.KeyArrowUp || key == shell.KeyArrowDown
	if submit == "" && !recalled && s.buf.Text() != before {
		s.edited()
	}
	s.mu.Unlock()

	if submit != "" {
		s.submit(ctx, submit)
	}
	s.notify()
}

// physicalKey must be called with s.mu held. It returns text to submit, if any.
func (s *Session) physicalKey(key shell.Key) string {
	switch key {
	case shell.KeyTab:
		if completed, ok := s.suggestions.Accept(s.buf.Text()); ok {
			s.buf = shell.NewInputBuffer(completed)
			return ""
		}
		s.buf = s.buf.Insert("\t")
	case shell.KeyArrowUp:
		s.upDown(-1)
	case shell.KeyArrowDown:
		s.upDown(1)
	case shell.KeyArrowLeft:
		s.buf = s.buf.Move(-1)
	case shell.KeyArrowRight:
		s.buf = s.buf.Move(1)
	case shell.KeyHome:
		s.buf = s.buf.Home()
	case shell.KeyEnd:
		s.buf = s.buf.End()
	case shell.KeyDelete:
		s.buf = s.buf.Delete()
	case shell.KeyEscape:
		s.suggestions.Dismiss()
	case shell.KeyEnter:
		var effect *shell.SideEffect
		s.buf, _, effect = shell.Apply(s.buf, shell.ModifierState{}, key)
		if effect != nil && effect.Kind == shell.EffectSubmit {
			s.suggestions.Dismiss()
			return effect.Text
		}
	case shell.KeyBackspace:
		s.buf = s.buf.Backspace()
	case shell.KeySpace:
		s.buf = s.buf.Insert(" ")
	default:
		// physical keys arrive already cased
		if key.Printable() {
			s.buf = s.buf.Insert(string(key.Rune()))
		}
	}
	return ""
}

// upDown moves the suggestion selection while a list is open, unless the
// user is already walking history
func (s *Session) upDown(dir int) {
	if s.suggestions.Open() && !s.history.Browsing() {
		s.suggestions.Move(dir)
		return
	}
	text, ok := s.history.Navigate(dir)
	if !ok {
		return
	}
	s.buf = shell.NewInputBuffer(text)
	s.suggestions.Update(text)
}

func (s *Session) ctrlKey(ch rune) {
	switch ch {
	case 'u', 'U':
		s.buf = s.buf.Clear()
	case 'w', 'W':
		s.buf = s.buf.DeleteWordBackward()
	case 'a', 'A':
		s.buf = s.buf.Home()
	case 'e', 'E':
		s.buf = s.buf.End()
	}
}

// edited refreshes suggestions after the text changed. Editing a recalled
// entry leaves history browsing.
func (s *Session) edited() {
	s.history.ResetNavigation()
	s.suggestions.Update(s.buf.Text())
}

func (s *Session) submit(ctx context.Context, text string) {
	s.logger.Debug("submitting command", "text", text)
	s.dispatcher.Dispatch(ctx, text)
}

// SetKeyboardVisible shows or hides the on-screen keyboard. While it is
// shown the input field is read-only.
func (s *Session) SetKeyboardVisible(visible bool) {
	s.mu.Lock()
	changed := s.keyboardVisible != visible
	s.keyboardVisible = visible
	s.field.SetReadOnly(visible)
	s.mu.Unlock()

	if changed {
		events.PublishEvent(s.bus, events.KeyboardToggledEvent{Visible: visible})
	}
	s.notify()
}

func (s *Session) ToggleKeyboard() bool {
	visible := !s.Snapshot().KeyboardVisible
	s.SetKeyboardVisible(visible)
	return visible
}

func (s *Session) snapshotLocked() Snapshot {
	items := s.suggestions.Items()
	suggestions := make([]shell.Suggestion, len(items))
	copy(suggestions, items)
	selStart, selEnd, _ := s.buf.Selection()
	return Snapshot{
		Text:            s.buf.Text(),
		Cursor:          s.buf.Cursor(),
		SelectionStart:  selStart,
		SelectionEnd:    selEnd,
		Modifiers:       s.mods,
		Suggestions:     suggestions,
		Selected:        s.suggestions.Selected(),
		KeyboardVisible: s.keyboardVisible,
		Mode:            s.registry.Mode(),
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	listeners := make([]ChangeFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

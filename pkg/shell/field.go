package shell

import (
	"errors"
	"sync"
)

// ErrEditInProgress is returned when an edit scope is opened inside another one
var ErrEditInProgress = errors.New("input field edit already in progress")

// Surface is the presentation side of the input field
type Surface interface {
	SetEditable(editable bool)
	Focus()
}

// Field models the input element the virtual keyboard writes into. While the
// on-screen keyboard is shown the field is read-only so that focusing it does
// not raise a native keyboard. Synthetic edits go through Edit, which lifts
// the flag, mutates, restores it and only then refocuses.
type Field struct {
	mu       sync.Mutex
	surface  Surface
	readOnly bool
	editing  bool
	focused  bool

	nativeKeyboardRequests int
}

// NewField creates a field bound to surface (nil for headless use)
func NewField(surface Surface) *Field {
	return &Field{surface: surface}
}

// Attach binds the field to a surface once the view exists and syncs its
// editable state
func (f *Field) Attach(surface Surface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surface = surface
	if surface != nil {
		surface.SetEditable(!f.readOnly)
	}
}

// SetReadOnly toggles the read-only flag outside of an edit scope
func (f *Field) SetReadOnly(readOnly bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readOnly = readOnly
	if !f.editing && f.surface != nil {
		f.surface.SetEditable(!readOnly)
	}
}

func (f *Field) ReadOnly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readOnly
}

func (f *Field) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// NativeKeyboardRequests counts focus events that happened while the field
// was writable, i.e. the moments a platform keyboard would have popped up.
func (f *Field) NativeKeyboardRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nativeKeyboardRequests
}

// Focus gives the field input focus
func (f *Field) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focusLocked()
}

// Blur drops input focus
func (f *Field) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = false
}

// Edit runs mutate inside an edit scope. The read-only flag is restored even
// when mutate fails.
func (f *Field) Edit(mutate func() error) error {
	f.mu.Lock()
	if f.editing {
		f.mu.Unlock()
		return ErrEditInProgress
	}
	f.editing = true
	restore := f.readOnly
	if restore && f.surface != nil {
		f.surface.SetEditable(true)
	}
	f.mu.Unlock()

	err := mutate()

	f.mu.Lock()
	defer f.mu.Unlock()
	if restore && f.surface != nil {
		f.surface.SetEditable(false)
	}
	f.editing = false
	f.focusLocked()
	return err
}

func (f *Field) focusLocked() {
	f.focused = true
	if !f.readOnly && !f.editing {
		f.nativeKeyboardRequests++
	}
	if f.surface != nil {
		f.surface.Focus()
	}
}

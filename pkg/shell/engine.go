package shell

// NoSelection is the selection index before the user picked a candidate
const NoSelection = -1

// Engine keeps the current suggestion list and the selected index
type Engine struct {
	source   CommandSource
	items    []Suggestion
	selected int
}

// NewEngine creates an engine reading commands from source
func NewEngine(source CommandSource) *Engine {
	return &Engine{source: source, selected: NoSelection}
}

// Update recomputes the candidates for text and clears the selection
func (e *Engine) Update(text string) []Suggestion {
	e.items = Suggest(text, e.source)
	e.selected = NoSelection
	return e.items
}

// Items returns the current candidates
func (e *Engine) Items() []Suggestion {
	return e.items
}

// Open reports whether there is anything to show
func (e *Engine) Open() bool {
	return len(e.items) > 0
}

func (e *Engine) Selected() int {
	return e.selected
}

// Move shifts the selection by delta, clamped to the list
func (e *Engine) Move(delta int) {
	if len(e.items) == 0 {
		return
	}
	next := e.selected + delta
	if e.selected == NoSelection {
		next = 0
		if delta > 1 {
			next = delta - 1
		}
	}
	if next < 0 {
		next = 0
	}
	if next > len(e.items)-1 {
		next = len(e.items) - 1
	}
	e.selected = next
}

// Accept applies the selected candidate (the first one if none is selected)
// to text and closes the list. It returns false when there is nothing to apply.
func (e *Engine) Accept(text string) (string, bool) {
	if len(e.items) == 0 {
		return text, false
	}
	index := e.selected
	if index == NoSelection {
		index = 0
	}
	result := ApplySuggestion(text, e.items[index].Text)
	e.Dismiss()
	return result, true
}

// Dismiss hides the list without applying anything
func (e *Engine) Dismiss() {
	e.items = nil
	e.selected = NoSelection
}

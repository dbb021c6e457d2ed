package shell

// InputBuffer is the editable command line. It is a value type: every
// operation returns a new buffer and leaves the receiver untouched.
// Offsets are rune offsets and are always clamped into [0, Len()].
type InputBuffer struct {
	text   []rune
	cursor int

	hasSelection bool
	selStart     int
	selEnd       int
}

// NewInputBuffer creates a buffer holding text with the cursor at the end
func NewInputBuffer(text string) InputBuffer {
	r := []rune(text)
	return InputBuffer{text: r, cursor: len(r)}
}

func (b InputBuffer) Text() string { return string(b.text) }
func (b InputBuffer) Cursor() int  { return b.cursor }
func (b InputBuffer) Len() int     { return len(b.text) }
func (b InputBuffer) Empty() bool  { return len(b.text) == 0 }

// Selection returns the selected range, if any
func (b InputBuffer) Selection() (start, end int, ok bool) {
	if !b.hasSelection || b.selStart == b.selEnd {
		return 0, 0, false
	}
	return b.selStart, b.selEnd, true
}

// Select marks [start, end) as selected. The cursor moves to end.
func (b InputBuffer) Select(start, end int) InputBuffer {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}
	b.hasSelection = start != end
	b.selStart, b.selEnd = start, end
	b.cursor = end
	return b
}

// ExtendSelection moves the cursor by delta and grows or shrinks the
// selection, keeping the end the cursor left from as the anchor
func (b InputBuffer) ExtendSelection(delta int) InputBuffer {
	anchor := b.cursor
	if _, _, ok := b.Selection(); ok {
		anchor = b.selStart
		if b.cursor == b.selStart {
			anchor = b.selEnd
		}
	}
	pos := b.clamp(b.cursor + delta)
	b.selStart, b.selEnd = min(anchor, pos), max(anchor, pos)
	b.hasSelection = b.selStart != b.selEnd
	b.cursor = pos
	return b
}

// Insert places s at the cursor, replacing the selection if there is one
func (b InputBuffer) Insert(s string) InputBuffer {
	if s == "" {
		return b
	}
	if _, _, ok := b.Selection(); ok {
		b = b.deleteSelection()
	}
	ins := []rune(s)
	text := make([]rune, 0, len(b.text)+len(ins))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, ins...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(ins)
	return b
}

// Backspace removes the selection, or the character before the cursor
func (b InputBuffer) Backspace() InputBuffer {
	if _, _, ok := b.Selection(); ok {
		return b.deleteSelection()
	}
	if b.cursor == 0 {
		return b
	}
	return b.remove(b.cursor-1, b.cursor)
}

// Delete removes the selection, or the character under the cursor
func (b InputBuffer) Delete() InputBuffer {
	if _, _, ok := b.Selection(); ok {
		return b.deleteSelection()
	}
	if b.cursor >= len(b.text) {
		return b
	}
	return b.remove(b.cursor, b.cursor+1)
}

// DeleteWordBackward removes from the previous word boundary to the cursor
func (b InputBuffer) DeleteWordBackward() InputBuffer {
	if b.cursor == 0 {
		return b
	}
	return b.remove(previousWordBoundary(b.text, b.cursor), b.cursor)
}

// MoveTo places the cursor at pos, clamped, and drops the selection
func (b InputBuffer) MoveTo(pos int) InputBuffer {
	b.cursor = b.clamp(pos)
	b.hasSelection = false
	return b
}

// Move shifts the cursor by delta characters
func (b InputBuffer) Move(delta int) InputBuffer {
	return b.MoveTo(b.cursor + delta)
}

func (b InputBuffer) Home() InputBuffer { return b.MoveTo(0) }
func (b InputBuffer) End() InputBuffer  { return b.MoveTo(len(b.text)) }

func (b InputBuffer) PreviousWord() InputBuffer {
	return b.MoveTo(previousWordBoundary(b.text, b.cursor))
}

func (b InputBuffer) NextWord() InputBuffer {
	return b.MoveTo(nextWordBoundary(b.text, b.cursor))
}

// Clear empties the buffer
func (b InputBuffer) Clear() InputBuffer {
	return InputBuffer{}
}

func (b InputBuffer) deleteSelection() InputBuffer {
	start, end := b.selStart, b.selEnd
	b.hasSelection = false
	return b.remove(start, end)
}

func (b InputBuffer) remove(start, end int) InputBuffer {
	text := make([]rune, 0, len(b.text)-(end-start))
	text = append(text, b.text[:start]...)
	text = append(text, b.text[end:]...)
	b.text = text
	b.cursor = start
	b.hasSelection = false
	return b
}

func (b InputBuffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	return pos
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// previousWordBoundary finds the start of the word before pos
func previousWordBoundary(text []rune, pos int) int {
	if pos > len(text) {
		pos = len(text)
	}
	for pos > 0 && isWhitespace(text[pos-1]) {
		pos--
	}
	for pos > 0 && !isWhitespace(text[pos-1]) {
		pos--
	}
	return pos
}

// nextWordBoundary finds the start of the next word after pos
func nextWordBoundary(text []rune, pos int) int {
	for pos < len(text) && !isWhitespace(text[pos]) {
		pos++
	}
	for pos < len(text) && isWhitespace(text[pos]) {
		pos++
	}
	return pos
}

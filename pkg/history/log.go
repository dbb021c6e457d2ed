package history

import "sync"

// Log is the append-only list of submitted commands with an Up/Down cursor.
// The cursor lives in [0, Len()]; Len() is the live-edit position.
type Log struct {
	mu       sync.RWMutex
	commands []string
	cursor   int
}

// NewLog creates an empty log positioned at the live-edit slot
func NewLog() *Log {
	return &Log{}
}

// Record appends command verbatim, duplicates included, and returns to live edit
func (l *Log) Record(command string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, command)
	l.cursor = len(l.commands)
}

// Navigate moves the cursor (-1 older, +1 newer) and returns the text the
// input should show. ok is false when the cursor did not move, in which case
// the input must be left alone. Reaching the live slot yields "".
func (l *Log) Navigate(direction int) (text string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.cursor
	switch {
	case direction < 0:
		next--
	case direction > 0:
		next++
	}
	if next < 0 {
		next = 0
	}
	if next > len(l.commands) {
		next = len(l.commands)
	}
	if next == l.cursor {
		return "", false
	}

	l.cursor = next
	if next == len(l.commands) {
		return "", true
	}
	return l.commands[next], true
}

// Older is Navigate(-1)
func (l *Log) Older() (string, bool) { return l.Navigate(-1) }

// Newer is Navigate(+1)
func (l *Log) Newer() (string, bool) { return l.Navigate(1) }

// Browsing reports whether the cursor is on a recorded entry
func (l *Log) Browsing() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor < len(l.commands)
}

// ResetNavigation returns the cursor to the live-edit slot
func (l *Log) ResetNavigation() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cursor = len(l.commands)
}

// Cursor returns the raw cursor position
func (l *Log) Cursor() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.commands)
}

// Entries returns a copy of the recorded commands, oldest first
func (l *Log) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]string, len(l.commands))
	copy(result, l.commands)
	return result
}

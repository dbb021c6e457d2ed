package output

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kcaldas/netterm/pkg/events"
)

// Kind tags a line for styling
type Kind string

const (
	KindCommandEcho  Kind = "command-echo"
	KindOutput       Kind = "output"
	KindSuccess      Kind = "success"
	KindError        Kind = "error"
	KindSystemOutput Kind = "system-output"
)

// Line is one rendered line. Lines are never edited after creation.
type Line struct {
	ID   string
	Text string
	Kind Kind
	At   time.Time
}

// NewLine creates a line with a fresh id and timestamp
func NewLine(text string, kind Kind) Line {
	return Line{ID: uuid.NewString(), Text: text, Kind: kind, At: time.Now()}
}

func Echo(text string) Line    { return NewLine(text, KindCommandEcho) }
func Text(text string) Line    { return NewLine(text, KindOutput) }
func Success(text string) Line { return NewLine(text, KindSuccess) }
func Error(text string) Line   { return NewLine(text, KindError) }
func System(text string) Line  { return NewLine(text, KindSystemOutput) }

// Log is the ordered output of a terminal session. It is safe for
// concurrent use; remote completions append from their own goroutines.
// After Close every write is silently ignored.
type Log struct {
	mu     sync.RWMutex
	lines  []Line
	closed bool
	bus    events.Publisher
}

// NewLog creates a log that announces changes on bus (nil disables events)
func NewLog(bus events.Publisher) *Log {
	return &Log{bus: bus}
}

// Append adds a line of the given kind
func (l *Log) Append(text string, kind Kind) bool {
	return l.AppendLine(NewLine(text, kind))
}

// AppendLine adds a prepared line. It returns false if the log is closed.
func (l *Log) AppendLine(line Line) bool {
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	if line.At.IsZero() {
		line.At = time.Now()
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.lines = append(l.lines, line)
	index := len(l.lines) - 1
	// published under the lock so subscribers see appends in log order
	events.PublishEvent(l.bus, events.OutputAppendedEvent{
		LineID: line.ID,
		Text:   line.Text,
		Kind:   string(line.Kind),
		At:     line.At,
		Index:  index,
	})
	l.mu.Unlock()
	return true
}

// AppendAll adds lines as one contiguous block
func (l *Log) AppendAll(lines []Line) bool {
	for _, line := range lines {
		if !l.AppendLine(line) {
			return false
		}
	}
	return true
}

// Clear removes every line
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	removed := len(l.lines)
	l.lines = nil
	events.PublishEvent(l.bus, events.OutputClearedEvent{Removed: removed})
}

// Close marks the log as torn down. Late writes become no-ops.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

func (l *Log) Closed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

// Lines returns a copy of all lines
func (l *Log) Lines() []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Line, len(l.lines))
	copy(result, l.lines)
	return result
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Tail returns the last n lines matching keep (nil keeps everything), oldest first
func (l *Log) Tail(n int, keep func(Line) bool) []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var picked []Line
	for i := len(l.lines) - 1; i >= 0 && len(picked) < n; i-- {
		if keep == nil || keep(l.lines[i]) {
			picked = append(picked, l.lines[i])
		}
	}
	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}

// CountKind returns how many lines of kind the log holds
func (l *Log) CountKind(kind Kind) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, line := range l.lines {
		if line.Kind == kind {
			n++
		}
	}
	return n
}

package events

import "time"

// Event is anything that knows which topic it belongs to
type Event interface {
	Topic() string
}

// PublishEvent publishes e on its own topic
func PublishEvent(p Publisher, e Event) {
	if p == nil {
		return
	}
	p.Publish(e.Topic(), e)
}

// OutputAppendedEvent is published for every line added to the output log
type OutputAppendedEvent struct {
	LineID string
	Text   string
	Kind   string
	At     time.Time
	Index  int
}

func (e OutputAppendedEvent) Topic() string {
	return "output.appended"
}

// OutputClearedEvent is published when the output log is emptied
type OutputClearedEvent struct {
	Removed int
}

func (e OutputClearedEvent) Topic() string {
	return "output.cleared"
}

// CommandDispatchedEvent is published once a submitted line has been resolved
type CommandDispatchedEvent struct {
	RequestID string
	Name      string
	Args      []string
	Remote    bool
	Found     bool
}

func (e CommandDispatchedEvent) Topic() string {
	return "command.dispatched"
}

// RemoteCompletedEvent is published when a remote command settles, successfully or not
type RemoteCompletedEvent struct {
	RequestID string
	Name      string
	Endpoint  string
	Duration  time.Duration
	Err       error
}

func (e RemoteCompletedEvent) Topic() string {
	return "command.remote.completed"
}

// ModeChangedEvent is published when the terminal switches between normal and practice mode
type ModeChangedEvent struct {
	Previous string
	Current  string
}

func (e ModeChangedEvent) Topic() string {
	return "terminal.mode.changed"
}

// KeyboardToggledEvent is published when the on-screen keyboard is shown or hidden
type KeyboardToggledEvent struct {
	Visible bool
}

func (e KeyboardToggledEvent) Topic() string {
	return "terminal.keyboard.toggled"
}

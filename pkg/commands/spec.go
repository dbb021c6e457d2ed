package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/kcaldas/netterm/pkg/history"
	"github.com/kcaldas/netterm/pkg/output"
)

// Mode selects which commands are visible
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModePractice Mode = "practice"
)

// Modes lists every mode in display order
var Modes = []Mode{ModeNormal, ModePractice}

// ParseMode validates a mode name
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", name)
}

// HandlerKind tags a Handler
type HandlerKind int

const (
	HandlerLocal HandlerKind = iota + 1
	HandlerRemote
)

// LocalFunc runs synchronously and returns the lines to append
type LocalFunc func(inv *Invocation) ([]output.Line, error)

// RemoteCall describes a one-shot request to a backend endpoint
type RemoteCall struct {
	Endpoint string
	// BuildRequest returns the JSON request body. An error here is reported
	// before anything goes on the wire.
	BuildRequest func(args []string) (any, error)
	// MapResponse turns the raw response body into output lines
	MapResponse func(body []byte) ([]output.Line, error)
	// FailureMessage is the single line shown when the call fails
	FailureMessage string
}

// Handler is either Local or Remote
type Handler struct {
	kind   HandlerKind
	local  LocalFunc
	remote *RemoteCall
}

func Local(fn LocalFunc) Handler {
	return Handler{kind: HandlerLocal, local: fn}
}

func Remote(call RemoteCall) Handler {
	return Handler{kind: HandlerRemote, remote: &call}
}

func (h Handler) Kind() HandlerKind { return h.kind }

// Spec is a registered command
type Spec struct {
	Name        string
	Description string
	ArgSlots    []string
	Examples    []string
	Aliases     []string
	Category    string
	// Modes restricts the command to the listed modes; empty means all
	Modes   []Mode
	Hidden  bool
	Handler Handler
}

// Usage renders the name followed by the argument slots
func (s *Spec) Usage() string {
	if len(s.ArgSlots) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.ArgSlots, " ")
}

// RequiredArgs counts the <angle-bracket> slots
func (s *Spec) RequiredArgs() int {
	n := 0
	for _, slot := range s.ArgSlots {
		if strings.HasPrefix(slot, "<") {
			n++
		}
	}
	return n
}

// VisibleIn reports whether the command can be used in mode
func (s *Spec) VisibleIn(mode Mode) bool {
	if len(s.Modes) == 0 {
		return true
	}
	for _, m := range s.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Env is what local handlers may touch
type Env struct {
	Registry *Registry
	Output   *output.Log
	History  *history.Log
}

// Invocation is one parsed submission
type Invocation struct {
	Ctx  context.Context
	Name string
	Args []string
	Raw  string
	Env  *Env
}

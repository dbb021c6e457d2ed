package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/shell"
)

// Registry maps command names and aliases to specs and tracks the active mode
type Registry struct {
	mu             sync.RWMutex
	commands       map[string]*Spec
	aliasToCommand map[string]*Spec
	categories     map[string][]*Spec
	mode           Mode
	bus            events.Publisher
}

// NewRegistry creates an empty registry in normal mode
func NewRegistry(bus events.Publisher) *Registry {
	return &Registry{
		commands:       make(map[string]*Spec),
		aliasToCommand: make(map[string]*Spec),
		categories:     make(map[string][]*Spec),
		mode:           ModeNormal,
		bus:            bus,
	}
}

// Register adds a command. Names and aliases share one namespace and must be unique.
func (r *Registry) Register(spec *Spec) error {
	if spec == nil || spec.Name == "" {
		return errors.New("command must have a name")
	}
	if strings.ContainsAny(spec.Name, " \t") {
		return fmt.Errorf("command name %q contains whitespace", spec.Name)
	}
	if spec.Handler.Kind() == 0 {
		return fmt.Errorf("command %q has no handler", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string{spec.Name}, spec.Aliases...) {
		if r.taken(name) {
			return fmt.Errorf("command %q is already registered", name)
		}
	}

	r.commands[spec.Name] = spec
	for _, alias := range spec.Aliases {
		r.aliasToCommand[alias] = spec
	}
	if spec.Category != "" {
		r.categories[spec.Category] = append(r.categories[spec.Category], spec)
	}
	return nil
}

// MustRegister registers specs and panics on conflicts
func (r *Registry) MustRegister(specs ...*Spec) {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) taken(name string) bool {
	_, isCommand := r.commands[name]
	_, isAlias := r.aliasToCommand[name]
	return isCommand || isAlias
}

// Get returns a command by name or alias regardless of mode
func (r *Registry) Get(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(name)
}

func (r *Registry) get(name string) (*Spec, bool) {
	if spec, ok := r.commands[name]; ok {
		return spec, true
	}
	spec, ok := r.aliasToCommand[name]
	return spec, ok
}

// Lookup resolves name exactly (case-sensitive) among commands visible in the active mode
func (r *Registry) Lookup(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.get(name)
	if !ok || !spec.VisibleIn(r.mode) {
		return nil, false
	}
	return spec, true
}

// Commands returns the visible, non-hidden commands sorted by name
func (r *Registry) Commands() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(s *Spec) bool { return !s.Hidden && s.VisibleIn(r.mode) })
}

// All returns every non-hidden command in any mode, sorted by name
func (r *Registry) All() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(s *Spec) bool { return !s.Hidden })
}

func (r *Registry) filter(keep func(*Spec) bool) []*Spec {
	var specs []*Spec
	for _, spec := range r.commands {
		if keep(spec) {
			specs = append(specs, spec)
		}
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Name < specs[j].Name
	})
	return specs
}

// ByCategory groups the visible commands by category
func (r *Registry) ByCategory() map[string][]*Spec {
	result := make(map[string][]*Spec)
	for _, spec := range r.Commands() {
		category := spec.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], spec)
	}
	return result
}

// WithPrefix returns the visible commands whose name starts with prefix
func (r *Registry) WithPrefix(prefix string) []*Spec {
	var out []*Spec
	for _, spec := range r.Commands() {
		if strings.HasPrefix(spec.Name, prefix) {
			out = append(out, spec)
		}
	}
	return out
}

func (r *Registry) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetMode switches the active mode and announces the change
func (r *Registry) SetMode(mode Mode) {
	r.mu.Lock()
	previous := r.mode
	r.mode = mode
	r.mu.Unlock()

	if previous != mode {
		events.PublishEvent(r.bus, events.ModeChangedEvent{Previous: string(previous), Current: string(mode)})
	}
}

// CommandNames lists visible command names for the suggestion engine
func (r *Registry) CommandNames() []string {
	specs := r.Commands()
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// CommandInfo describes a visible command for the suggestion engine
func (r *Registry) CommandInfo(name string) (shell.CommandInfo, bool) {
	spec, ok := r.Lookup(name)
	if !ok {
		return shell.CommandInfo{}, false
	}
	return shell.CommandInfo{
		Name:        spec.Name,
		Description: spec.Description,
		ArgSlots:    spec.ArgSlots,
		Examples:    spec.Examples,
	}, true
}

var _ shell.CommandSource = (*Registry)(nil)

package commands

import (
	"sync"
	"testing"
	"time"

	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Invocation) ([]output.Line, error) { return nil, nil }

func localSpec(name string, opts ...func(*Spec)) *Spec {
	spec := &Spec{Name: name, Description: name + " command", Handler: Local(noop)}
	for _, opt := range opts {
		opt(spec)
	}
	return spec
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(localSpec("clear", func(s *Spec) { s.Aliases = []string{"cls"} })))

	assert.Error(t, r.Register(localSpec("clear")))
	assert.Error(t, r.Register(localSpec("cls")))
	assert.Error(t, r.Register(localSpec("")))
	assert.Error(t, r.Register(localSpec("two words")))
	assert.Error(t, r.Register(&Spec{Name: "nohandler"}))
}

func TestRegistry_LookupIsExactAndCaseSensitive(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(localSpec("help"), localSpec("clear", func(s *Spec) { s.Aliases = []string{"cls"} }))

	_, ok := r.Lookup("help")
	assert.True(t, ok)
	_, ok = r.Lookup("Help")
	assert.False(t, ok)
	_, ok = r.Lookup("hel")
	assert.False(t, ok)

	spec, ok := r.Lookup("cls")
	require.True(t, ok)
	assert.Equal(t, "clear", spec.Name)
}

func TestRegistry_ModesFilterVisibility(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(
		localSpec("help"),
		localSpec("ls", func(s *Spec) { s.Modes = []Mode{ModePractice} }),
	)

	_, ok := r.Lookup("ls")
	assert.False(t, ok)
	assert.Equal(t, []string{"help"}, r.CommandNames())

	r.SetMode(ModePractice)
	_, ok = r.Lookup("ls")
	assert.True(t, ok)
	assert.Equal(t, []string{"help", "ls"}, r.CommandNames())

	_, ok = r.Get("ls")
	assert.True(t, ok)
	assert.Len(t, r.All(), 2)
}

func TestRegistry_SetModePublishes(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Shutdown()

	var mu sync.Mutex
	var got []events.ModeChangedEvent
	bus.Subscribe(events.ModeChangedEvent{}.Topic(), func(e any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.ModeChangedEvent))
	})

	r := NewRegistry(bus)
	r.SetMode(ModeNormal)
	r.SetMode(ModePractice)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "practice", got[0].Current)
}

func TestRegistry_WithPrefixAndCategories(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(
		localSpec("help", func(s *Spec) { s.Category = "General" }),
		localSpec("history", func(s *Spec) { s.Category = "General" }),
		localSpec("scan", func(s *Spec) { s.Category = "Network" }),
		localSpec("secret", func(s *Spec) { s.Hidden = true }),
	)

	names := func(specs []*Spec) []string {
		var out []string
		for _, s := range specs {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"help", "history"}, names(r.WithPrefix("h")))
	assert.Empty(t, r.WithPrefix("se"))

	byCat := r.ByCategory()
	assert.Len(t, byCat["General"], 2)
	assert.Len(t, byCat["Network"], 1)
}

func TestRegistry_CommandInfo(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(&Spec{
		Name:        "scan",
		Description: "Scan ports",
		ArgSlots:    []string{"<host>"},
		Examples:    []string{"scan example.com"},
		Handler:     Remote(RemoteCall{Endpoint: "/api/scan"}),
	})

	info, ok := r.CommandInfo("scan")
	require.True(t, ok)
	assert.Equal(t, []string{"<host>"}, info.ArgSlots)
	assert.Equal(t, []string{"scan example.com"}, info.Examples)

	_, ok = r.CommandInfo("nope")
	assert.False(t, ok)
}

func TestSpec_UsageAndRequiredArgs(t *testing.T) {
	spec := &Spec{Name: "system", ArgSlots: []string{"<command>", "[args...]"}}
	assert.Equal(t, "system <command> [args...]", spec.Usage())
	assert.Equal(t, 1, spec.RequiredArgs())

	bare := &Spec{Name: "help"}
	assert.Equal(t, "help", bare.Usage())
	assert.Zero(t, bare.RequiredArgs())
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("practice")
	require.NoError(t, err)
	assert.Equal(t, ModePractice, mode)

	_, err = ParseMode("expert")
	assert.Error(t, err)
}

package terminal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/commands/builtin"
	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/history"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	session *Session
	out     *output.Log
	hist    *history.Log
	bus     *events.InMemoryBus
}

func newFixture(t *testing.T, keyboardVisible bool) *fixture {
	t.Helper()
	bus := events.NewEventBus()
	t.Cleanup(bus.Shutdown)

	registry := commands.NewRegistry(bus)
	require.NoError(t, builtin.Register(registry, builtin.Options{}))
	out := output.NewLog(bus)
	hist := history.NewLog()
	dispatcher := commands.NewDispatcher(registry, out, hist, nil, bus, logging.NewDisabledLogger())

	session := NewSession(registry, hist, dispatcher, bus, Options{
		KeyboardVisible: keyboardVisible,
		Logger:          logging.NewDisabledLogger(),
	})
	return &fixture{session: session, out: out, hist: hist, bus: bus}
}

func (f *fixture) typePhysical(text string) {
	for _, ch := range text {
		key := shell.CharKey(ch)
		if ch == ' ' {
			key = shell.KeySpace
		}
		f.session.PressPhysical(context.Background(), key, ModNone)
	}
}

func (f *fixture) typeVirtual(t *testing.T, text string) {
	t.Helper()
	for _, ch := range text {
		key := shell.CharKey(ch)
		if ch == ' ' {
			key = shell.KeySpace
		}
		require.NoError(t, f.session.PressVirtual(context.Background(), key))
	}
}

func (f *fixture) submitPhysical(text string) {
	f.typePhysical(text)
	f.session.PressPhysical(context.Background(), shell.KeyEnter, ModNone)
}

func TestPressVirtual_ShiftAndCaps(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.session.PressVirtual(ctx, shell.KeyShift))
	f.typeVirtual(t, "hi")
	snap := f.session.Snapshot()
	assert.Equal(t, "Hi", snap.Text)
	assert.False(t, snap.Modifiers.Shift)

	require.NoError(t, f.session.PressVirtual(ctx, shell.KeyCaps))
	f.typeVirtual(t, "x")
	assert.Equal(t, "HiX", f.session.Snapshot().Text)
}

func TestPressVirtual_EnterSubmits(t *testing.T) {
	f := newFixture(t, true)

	f.typeVirtual(t, "help")
	require.NoError(t, f.session.PressVirtual(context.Background(), shell.KeyEnter))

	lines := f.out.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "$ help", lines[0].Text)
	assert.Equal(t, output.KindCommandEcho, lines[0].Kind)
	assert.Equal(t, []string{"help"}, f.hist.Entries())

	snap := f.session.Snapshot()
	assert.Empty(t, snap.Text)
	assert.Empty(t, snap.Suggestions)
}

func TestPressVirtual_EnterOnBlankDoesNothing(t *testing.T) {
	f := newFixture(t, true)

	f.typeVirtual(t, "   ")
	require.NoError(t, f.session.PressVirtual(context.Background(), shell.KeyEnter))

	assert.Equal(t, 0, f.out.Len())
	assert.Equal(t, "   ", f.session.Snapshot().Text)
}

func TestPressVirtual_TabAlwaysInserts(t *testing.T) {
	f := newFixture(t, true)

	f.typeVirtual(t, "he")
	require.NotEmpty(t, f.session.Snapshot().Suggestions)

	require.NoError(t, f.session.PressVirtual(context.Background(), shell.KeyTab))
	assert.Equal(t, "he\t", f.session.Snapshot().Text)
}

func TestPressPhysical_TabCompletesOpenList(t *testing.T) {
	f := newFixture(t, false)

	f.typePhysical("hi")
	snap := f.session.Snapshot()
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "history", snap.Suggestions[0].Text)

	f.session.PressPhysical(context.Background(), shell.KeyTab, ModNone)
	snap = f.session.Snapshot()
	assert.Equal(t, "history", snap.Text)
	assert.Equal(t, 7, snap.Cursor)
	assert.Empty(t, snap.Suggestions)
}

func TestPressPhysical_TabWithoutListInserts(t *testing.T) {
	f := newFixture(t, false)

	f.session.PressPhysical(context.Background(), shell.KeyTab, ModNone)
	assert.Equal(t, "\t", f.session.Snapshot().Text)
}

func TestPressPhysical_ArrowsMoveSelection(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.typePhysical("s")
	snap := f.session.Snapshot()
	require.Len(t, snap.Suggestions, 3)
	assert.Equal(t, shell.NoSelection, snap.Selected)

	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	assert.Equal(t, 0, f.session.Snapshot().Selected)
	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	assert.Equal(t, 2, f.session.Snapshot().Selected)
	f.session.PressPhysical(ctx, shell.KeyArrowUp, ModNone)
	assert.Equal(t, 1, f.session.Snapshot().Selected)

	f.session.PressPhysical(ctx, shell.KeyTab, ModNone)
	assert.Equal(t, "ssl", f.session.Snapshot().Text)
}

func TestPressPhysical_EscapeDismisses(t *testing.T) {
	f := newFixture(t, false)

	f.typePhysical("he")
	f.session.PressPhysical(context.Background(), shell.KeyEscape, ModNone)
	snap := f.session.Snapshot()
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, "he", snap.Text)
}

func TestPressPhysical_HistoryNavigation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.submitPhysical("help")
	f.submitPhysical("history")

	f.session.PressPhysical(ctx, shell.KeyArrowUp, ModNone)
	assert.Equal(t, "history", f.session.Snapshot().Text)

	// recalled text opens a list, but Up keeps walking history
	f.session.PressPhysical(ctx, shell.KeyArrowUp, ModNone)
	assert.Equal(t, "help", f.session.Snapshot().Text)

	f.session.PressPhysical(ctx, shell.KeyArrowUp, ModNone)
	assert.Equal(t, "help", f.session.Snapshot().Text)

	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	assert.Equal(t, "history", f.session.Snapshot().Text)
	f.session.PressPhysical(ctx, shell.KeyArrowDown, ModNone)
	assert.Equal(t, "", f.session.Snapshot().Text)
	assert.False(t, f.hist.Browsing())
}

func TestPressPhysical_EditingRecalledEntryLeavesHistory(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.submitPhysical("help")
	f.session.PressPhysical(ctx, shell.KeyArrowUp, ModNone)
	require.True(t, f.hist.Browsing())

	f.typePhysical(" scan")
	assert.Equal(t, "help scan", f.session.Snapshot().Text)
	assert.False(t, f.hist.Browsing())
}

func TestPressPhysical_ShiftArrowSelectionThenBackspace(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.typePhysical("scan example.com")
	for i := 0; i < 4; i++ {
		f.session.PressPhysical(ctx, shell.KeyArrowLeft, ModShift)
	}

	snap := f.session.Snapshot()
	assert.Equal(t, 12, snap.Cursor)
	assert.Equal(t, 12, snap.SelectionStart)
	assert.Equal(t, 16, snap.SelectionEnd)

	f.session.PressPhysical(ctx, shell.KeyBackspace, ModNone)
	snap = f.session.Snapshot()
	assert.Equal(t, "scan example", snap.Text)
	assert.Equal(t, snap.SelectionStart, snap.SelectionEnd)
}

func TestPressPhysical_EditingKeys(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	f.typePhysical("scan example.com")

	f.session.PressPhysical(ctx, shell.CharKey('a'), ModCtrl)
	assert.Equal(t, 0, f.session.Snapshot().Cursor)
	f.session.PressPhysical(ctx, shell.CharKey('e'), ModCtrl)
	assert.Equal(t, 16, f.session.Snapshot().Cursor)

	f.session.PressPhysical(ctx, shell.KeyArrowLeft, ModAlt)
	assert.Equal(t, 5, f.session.Snapshot().Cursor)
	f.session.PressPhysical(ctx, shell.KeyArrowRight, ModAlt)
	assert.Equal(t, 16, f.session.Snapshot().Cursor)

	f.session.PressPhysical(ctx, shell.CharKey('w'), ModCtrl)
	assert.Equal(t, "scan ", f.session.Snapshot().Text)

	f.session.PressPhysical(ctx, shell.KeyHome, ModNone)
	f.session.PressPhysical(ctx, shell.KeyDelete, ModNone)
	assert.Equal(t, "can ", f.session.Snapshot().Text)
	f.session.PressPhysical(ctx, shell.KeyEnd, ModNone)
	f.session.PressPhysical(ctx, shell.KeyArrowLeft, ModNone)
	f.session.PressPhysical(ctx, shell.KeyBackspace, ModNone)
	assert.Equal(t, "ca ", f.session.Snapshot().Text)

	f.session.PressPhysical(ctx, shell.CharKey('u'), ModCtrl)
	assert.Equal(t, "", f.session.Snapshot().Text)
}

func TestKeyboardVisibility(t *testing.T) {
	f := newFixture(t, true)

	toggled := make(chan events.KeyboardToggledEvent, 4)
	f.bus.Subscribe(events.KeyboardToggledEvent{}.Topic(), func(e any) {
		toggled <- e.(events.KeyboardToggledEvent)
	})

	assert.True(t, f.session.Field().ReadOnly())
	f.typeVirtual(t, "a")
	assert.Equal(t, 0, f.session.Field().NativeKeyboardRequests())
	assert.True(t, f.session.Field().Focused())
	assert.True(t, f.session.Field().ReadOnly())

	assert.False(t, f.session.ToggleKeyboard())
	assert.False(t, f.session.Field().ReadOnly())
	select {
	case e := <-toggled:
		assert.False(t, e.Visible)
	case <-time.After(time.Second):
		t.Fatal("no toggle event")
	}

	f.typeVirtual(t, "b")
	assert.Equal(t, 1, f.session.Field().NativeKeyboardRequests())

	// no event when nothing changes
	f.session.SetKeyboardVisible(false)
	select {
	case <-toggled:
		t.Fatal("unexpected toggle event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPressAt(t *testing.T) {
	f := newFixture(t, true)
	layout := f.session.Layout()

	q := layout.Cells(2, shell.ModifierState{})[1]
	key, ok, err := f.session.PressAt(context.Background(), q.Start+1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, shell.CharKey('q'), key)
	assert.Equal(t, "q", f.session.Snapshot().Text)

	_, ok, err = f.session.PressAt(context.Background(), q.End, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	f := newFixture(t, false)

	var got []string
	f.session.OnChange(func(s Snapshot) { got = append(got, s.Text) })

	f.typePhysical("ls")
	assert.Equal(t, []string{"l", "ls"}, got)
}

func TestConcurrentSourcesDoNotLoseEdits(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			f.session.PressPhysical(ctx, shell.CharKey('a'), ModNone)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = f.session.PressVirtual(ctx, shell.CharKey('b'))
		}
	}()
	wg.Wait()

	text := f.session.Snapshot().Text
	assert.Len(t, text, 2*n)
	assert.Equal(t, n, strings.Count(text, "a"))
	assert.Equal(t, n, strings.Count(text, "b"))
}

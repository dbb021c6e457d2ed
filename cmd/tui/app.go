package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/awesome-gocui/gocui"
	"github.com/jesseduffield/lazycore/pkg/boxlayout"
	"github.com/kcaldas/netterm/internal/di"
	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/shell"
	"github.com/kcaldas/netterm/pkg/terminal"
)

type App struct {
	gui     *gocui.Gui
	engine  *di.Engine
	session *terminal.Session
	keymap  *Keymap
	apiURL  string
	logger  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	outputDirty      atomic.Bool
	keybindingsSetup bool
}

func NewApp(engine *di.Engine, settings *config.Settings) (*App, error) {
	// Disable standard Go logging to prevent interference with TUI
	log.SetOutput(io.Discard)

	g, err := gocui.NewGui(gocui.OutputTrue, true)
	if err != nil {
		return nil, err
	}
	g.Cursor = true
	g.Mouse = true

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		gui:     g,
		engine:  engine,
		session: engine.Session,
		apiURL:  settings.APIURL,
		logger:  logging.NewComponentLogger("tui"),
		ctx:     ctx,
		cancel:  cancel,
	}
	app.keymap = app.createKeymap()
	app.outputDirty.Store(true)

	app.session.Field().Attach(&viewSurface{gui: g})
	app.subscribe()

	g.SetManagerFunc(func(gui *gocui.Gui) error {
		if err := app.layout(gui); err != nil {
			return err
		}
		if !app.keybindingsSetup {
			if err := app.setupKeybindings(); err != nil {
				return err
			}
			app.keybindingsSetup = true
		}
		return nil
	})

	return app, nil
}

func (app *App) createKeymap() *Keymap {
	keymap := NewKeymap()

	keymap.AddEntry(KeymapEntry{
		Key:         gocui.KeyF2,
		Mod:         gocui.ModNone,
		Label:       "F2",
		Action:      app.toggleKeyboard,
		Description: "keyboard",
	})
	keymap.AddEntry(KeymapEntry{
		Key:         gocui.KeyPgup,
		Mod:         gocui.ModNone,
		Action:      app.PageUp,
		Description: "Scroll output up",
	})
	keymap.AddEntry(KeymapEntry{
		Key:         gocui.KeyPgdn,
		Mod:         gocui.ModNone,
		Action:      app.PageDown,
		Description: "Scroll output down",
	})
	keymap.AddEntry(KeymapEntry{
		Key:         gocui.KeyCtrlC,
		Mod:         gocui.ModNone,
		Label:       "Ctrl+C",
		Action:      app.quit,
		Description: "quit",
	})
	keymap.AddEntry(KeymapEntry{
		Key:         gocui.KeyCtrlQ,
		Mod:         gocui.ModNone,
		Action:      app.quit,
		Description: "Quit",
	})

	return keymap
}

func (app *App) setupKeybindings() error {
	if err := app.keymap.Bind(app.gui); err != nil {
		return err
	}
	return app.gui.SetKeybinding(viewKeyboard, gocui.MouseLeft, gocui.ModNone, app.onKeyboardClick)
}

// subscribe redraws when output or terminal state changes off the main loop
func (app *App) subscribe() {
	redraw := func(any) {
		app.gui.Update(func(*gocui.Gui) error { return nil })
	}
	markOutput := func(any) {
		app.outputDirty.Store(true)
		redraw(nil)
	}
	bus := app.engine.Bus
	bus.Subscribe(events.OutputAppendedEvent{}.Topic(), markOutput)
	bus.Subscribe(events.OutputClearedEvent{}.Topic(), markOutput)
	bus.Subscribe(events.ModeChangedEvent{}.Topic(), redraw)
	bus.Subscribe(events.RemoteCompletedEvent{}.Topic(), redraw)
	bus.Subscribe(events.KeyboardToggledEvent{}.Topic(), func(e any) {
		if toggled, ok := e.(events.KeyboardToggledEvent); ok {
			app.logger.Debug("keyboard toggled", "visible", toggled.Visible)
		}
		redraw(nil)
	})

	app.session.OnChange(func(terminal.Snapshot) { redraw(nil) })
	app.engine.Dispatcher.OnTransition(func(from, to commands.State) {
		app.logger.Debug("dispatcher transition", "from", from.String(), "to", to.String())
	})
}

func (app *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	snap := app.session.Snapshot()
	keyboard := app.session.Layout()
	dims := arrange(snap, len(keyboard.Rows), maxX, maxY)

	if err := app.layoutOutput(g, dims); err != nil {
		return err
	}
	if err := app.layoutSuggestions(g, dims, snap); err != nil {
		return err
	}
	if err := app.layoutInput(g, dims, snap); err != nil {
		return err
	}
	if err := app.layoutKeyboard(g, dims, snap, keyboard); err != nil {
		return err
	}
	return app.layoutStatus(g, dims, snap)
}

// setView creates or resizes a view, reporting whether it was just created
func (app *App) setView(g *gocui.Gui, name string, dims map[string]boxlayout.Dimensions, frame bool) (*gocui.View, bool, error) {
	d, ok := dims[name]
	if !ok {
		return nil, false, nil
	}
	x0, y0, x1, y1 := viewRect(d, frame)
	v, err := g.SetView(name, x0, y0, x1, y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return nil, false, err
	}
	v.Frame = frame
	return v, err != nil, nil
}

func (app *App) hideView(g *gocui.Gui, name string) {
	if _, err := g.View(name); err == nil {
		_ = g.DeleteView(name)
	}
}

func (app *App) layoutOutput(g *gocui.Gui, dims map[string]boxlayout.Dimensions) error {
	v, created, err := app.setView(g, viewOutput, dims, true)
	if err != nil || v == nil {
		return err
	}
	if created {
		v.Title = " netterm "
		v.Wrap = true
		v.Autoscroll = true
	}
	if app.outputDirty.Swap(false) {
		v.Clear()
		fmt.Fprint(v, renderOutput(app.engine.Output.Lines()))
	}
	return nil
}

func (app *App) layoutSuggestions(g *gocui.Gui, dims map[string]boxlayout.Dimensions, snap terminal.Snapshot) error {
	if _, ok := dims[viewSuggestions]; !ok {
		app.hideView(g, viewSuggestions)
		return nil
	}
	v, created, err := app.setView(g, viewSuggestions, dims, true)
	if err != nil || v == nil {
		return err
	}
	if created {
		v.Title = " suggestions (Tab to complete) "
	}
	v.Clear()
	for _, line := range renderSuggestions(snap.Suggestions, snap.Selected) {
		fmt.Fprintln(v, line)
	}
	return nil
}

func (app *App) layoutInput(g *gocui.Gui, dims map[string]boxlayout.Dimensions, snap terminal.Snapshot) error {
	v, created, err := app.setView(g, viewInput, dims, true)
	if err != nil || v == nil {
		return err
	}
	if created {
		v.Editor = NewInputEditor(app.ctx, app.session)
		v.Editable = !app.session.Field().ReadOnly()
		if _, err := g.SetCurrentView(viewInput); err != nil {
			return err
		}
	}
	width, _ := v.Size()
	text, cursorX := renderInput(snap.Text, snap.Cursor, snap.SelectionStart, snap.SelectionEnd, width)
	v.Clear()
	fmt.Fprint(v, text)
	return v.SetCursor(cursorX, 0)
}

func (app *App) layoutKeyboard(g *gocui.Gui, dims map[string]boxlayout.Dimensions, snap terminal.Snapshot, keyboard shell.Layout) error {
	if !snap.KeyboardVisible {
		app.hideView(g, viewKeyboard)
		return nil
	}
	v, created, err := app.setView(g, viewKeyboard, dims, true)
	if err != nil || v == nil {
		return err
	}
	if created {
		v.Title = " keyboard (click keys) "
	}
	v.Clear()
	for _, row := range keyboard.Render(snap.Modifiers) {
		fmt.Fprintln(v, row)
	}
	return nil
}

func (app *App) layoutStatus(g *gocui.Gui, dims map[string]boxlayout.Dimensions, snap terminal.Snapshot) error {
	v, _, err := app.setView(g, viewStatus, dims, false)
	if err != nil || v == nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, renderStatus(snap, app.apiURL, app.engine.Dispatcher.InFlight(), app.keymap.Hints()))
	return nil
}

func (app *App) onKeyboardClick(g *gocui.Gui, v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	key, ok, err := app.session.PressAt(app.ctx, cx+ox, cy+oy)
	if err != nil {
		app.logger.Warn("virtual key press failed", "error", err)
		return nil
	}
	if ok {
		app.logger.Debug("virtual key", "key", string(key))
	}
	return nil
}

func (app *App) toggleKeyboard() error {
	app.session.ToggleKeyboard()
	return nil
}

func (app *App) PageUp() error {
	v, err := app.gui.View(viewOutput)
	if err != nil {
		return nil
	}
	_, height := v.Size()
	ox, oy := v.Origin()
	v.Autoscroll = false
	oy -= height
	if oy < 0 {
		oy = 0
	}
	return v.SetOrigin(ox, oy)
}

func (app *App) PageDown() error {
	v, err := app.gui.View(viewOutput)
	if err != nil {
		return nil
	}
	_, height := v.Size()
	ox, oy := v.Origin()
	next, atBottom := pageDown(oy, height, len(v.ViewBufferLines()))
	if atBottom {
		v.Autoscroll = true
		return nil
	}
	return v.SetOrigin(ox, next)
}

// pageDown moves origin one page over content measured in wrapped view rows.
// It reports atBottom once the last page is reached.
func pageDown(origin, height, contentRows int) (int, bool) {
	next := origin + height
	if next+height >= contentRows {
		return max(contentRows-height, 0), true
	}
	return next, false
}

func (app *App) quit() error {
	return gocui.ErrQuit
}

func (app *App) Run() error {
	return app.gui.MainLoop()
}

func (app *App) Close() {
	app.cancel()
	app.gui.Close()
}

// viewSurface lets the input field toggle the gocui view it is drawn in
type viewSurface struct {
	gui *gocui.Gui
}

func (s *viewSurface) SetEditable(editable bool) {
	if v, err := s.gui.View(viewInput); err == nil {
		v.Editable = editable
	}
}

func (s *viewSurface) Focus() {
	if _, err := s.gui.View(viewInput); err == nil {
		_, _ = s.gui.SetCurrentView(viewInput)
	}
}

package tui

import (
	"errors"

	"github.com/awesome-gocui/gocui"
)

type TUI struct {
	app *App
}

func New(app *App) *TUI {
	return &TUI{app: app}
}

func (t *TUI) Start() error {
	err := t.app.Run()
	// Handle gocui.ErrQuit as successful exit, not an error
	if errors.Is(err, gocui.ErrQuit) {
		return nil
	}
	return err
}

func (t *TUI) Stop() {
	t.app.Close()
	t.app.engine.Close()
}

package tui

import (
	"github.com/jesseduffield/lazycore/pkg/boxlayout"
	"github.com/kcaldas/netterm/pkg/terminal"
)

const (
	viewOutput      = "output"
	viewSuggestions = "suggestions"
	viewInput       = "input"
	viewKeyboard    = "keyboard"
	viewStatus      = "status"

	inputHeight  = 3
	statusHeight = 1
)

// buildLayoutTree stacks the windows top to bottom. Suggestions and the
// keyboard only take space while they are shown.
func buildLayoutTree(snap terminal.Snapshot, keyboardRows int) *boxlayout.Box {
	children := []*boxlayout.Box{
		{Window: viewOutput, Weight: 1},
	}
	if n := suggestionRows(snap.Suggestions); n > 0 {
		children = append(children, &boxlayout.Box{Window: viewSuggestions, Size: n + 2})
	}
	children = append(children, &boxlayout.Box{Window: viewInput, Size: inputHeight})
	if snap.KeyboardVisible {
		children = append(children, &boxlayout.Box{Window: viewKeyboard, Size: keyboardRows + 2})
	}
	children = append(children, &boxlayout.Box{Window: viewStatus, Size: statusHeight})

	return &boxlayout.Box{
		Direction: boxlayout.ROW,
		Children:  children,
	}
}

// arrange computes window dimensions for a screen of width x height
func arrange(snap terminal.Snapshot, keyboardRows, width, height int) map[string]boxlayout.Dimensions {
	return boxlayout.ArrangeWindows(buildLayoutTree(snap, keyboardRows), 0, 0, width, height)
}

// viewRect converts layout dimensions into gocui view corners. Frameless
// views are grown by one cell on each side so their content fills the box.
func viewRect(d boxlayout.Dimensions, frame bool) (x0, y0, x1, y1 int) {
	if frame {
		return d.X0, d.Y0, d.X1, d.Y1
	}
	return d.X0 - 1, d.Y0 - 1, d.X1 + 1, d.Y1 + 1
}

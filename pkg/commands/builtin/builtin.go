// Package builtin holds the commands every terminal session starts with.
package builtin

import (
	"github.com/kcaldas/netterm/pkg/commands"
)

const (
	categoryGeneral  = "General"
	categoryNetwork  = "Network"
	categorySystem   = "System"
	categoryPractice = "Practice"
)

// Options supplies the collaborators some commands need
type Options struct {
	Clipboard  Clipboard
	PracticeFS *PracticeFS
}

// Specs returns the full built-in command set
func Specs(opts Options) []*commands.Spec {
	if opts.PracticeFS == nil {
		opts.PracticeFS = NewPracticeFS()
	}

	specs := []*commands.Spec{
		helpCommand(),
		clearCommand(),
		toolsCommand(),
		historyCommand(),
		modeCommand(),
		copyCommand(opts.Clipboard),
		scanCommand(),
		lookupCommand(),
		dnsCommand(),
		sslCommand(),
		systemCommand(),
	}
	return append(specs, practiceCommands(opts.PracticeFS)...)
}

// Register adds the built-in commands to registry
func Register(registry *commands.Registry, opts Options) error {
	for _, spec := range Specs(opts) {
		if err := registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/toolkit"
)

func helpCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "help",
		Description: "Show available commands",
		ArgSlots:    []string{"[command]"},
		Examples:    []string{"help", "help scan", "help system"},
		Category:    categoryGeneral,
		Handler:     commands.Local(runHelp),
	}
}

func runHelp(inv *commands.Invocation) ([]output.Line, error) {
	registry := inv.Env.Registry
	if len(inv.Args) > 0 {
		spec, ok := registry.Lookup(inv.Args[0])
		if !ok {
			return nil, &commands.UnknownCommandError{Name: inv.Args[0], Suggestions: registry.WithPrefix(inv.Args[0])}
		}
		return describeCommand(spec), nil
	}

	specs := registry.Commands()
	width := 0
	for _, spec := range specs {
		if n := len(spec.Usage()); n > width {
			width = n
		}
	}

	lines := []output.Line{output.Text("Available commands:")}
	for _, spec := range specs {
		lines = append(lines, output.Text(fmt.Sprintf("  %-*s  %s", width, spec.Usage(), spec.Description)))
	}
	lines = append(lines, output.Text(fmt.Sprintf("Mode: %s. Type 'help <command>' for examples.", registry.Mode())))
	return lines, nil
}

func describeCommand(spec *commands.Spec) []output.Line {
	lines := []output.Line{
		output.Text(spec.Name + " - " + spec.Description),
		output.Text("Usage: " + spec.Usage()),
	}
	if len(spec.Aliases) > 0 {
		lines = append(lines, output.Text("Aliases: "+strings.Join(spec.Aliases, ", ")))
	}
	if len(spec.Examples) > 0 {
		lines = append(lines, output.Text("Examples:"))
		for _, example := range spec.Examples {
			lines = append(lines, output.Text("  "+example))
		}
	}
	return lines
}

func clearCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "clear",
		Description: "Clear the terminal output",
		Examples:    []string{"clear"},
		Aliases:     []string{"cls"},
		Category:    categoryGeneral,
		Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
			inv.Env.Output.Clear()
			return nil, nil
		}),
	}
}

func toolsCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "tools",
		Description: "List the available network tools",
		Examples:    []string{"tools"},
		Category:    categoryGeneral,
		Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
			lines := []output.Line{output.Text("Available tools:")}
			for _, category := range toolkit.Categories {
				lines = append(lines, output.Text(strings.ToUpper(string(category[:1]))+string(category[1:])+":"))
				for _, tool := range toolkit.ToolsByCategory(category) {
					run := "coming soon"
					if tool.Command != "" {
						run = "run: " + tool.Command
					}
					lines = append(lines, output.Text(fmt.Sprintf("  %-18s %s (%s)", tool.Name, tool.Description, run)))
				}
			}
			return lines, nil
		}),
	}
}

func historyCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "history",
		Description: "Show previously entered commands",
		Examples:    []string{"history"},
		Category:    categoryGeneral,
		Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
			entries := inv.Env.History.Entries()
			lines := make([]output.Line, 0, len(entries))
			for i, entry := range entries {
				lines = append(lines, output.Text(fmt.Sprintf("%5d  %s", i+1, entry)))
			}
			return lines, nil
		}),
	}
}

func modeCommand() *commands.Spec {
	names := make([]string, len(commands.Modes))
	for i, m := range commands.Modes {
		names[i] = string(m)
	}
	return &commands.Spec{
		Name:        "mode",
		Description: "Show or switch the terminal mode",
		ArgSlots:    []string{"[" + strings.Join(names, "|") + "]"},
		Examples:    []string{"mode", "mode practice", "mode normal"},
		Category:    categoryGeneral,
		Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
			registry := inv.Env.Registry
			if len(inv.Args) == 0 {
				return []output.Line{output.Text("Current mode: " + string(registry.Mode()))}, nil
			}
			mode, err := commands.ParseMode(inv.Args[0])
			if err != nil {
				return nil, &commands.UsageError{Usage: "mode [" + strings.Join(names, "|") + "]"}
			}
			registry.SetMode(mode)
			return []output.Line{output.Success(fmt.Sprintf("Switched to %s mode", mode))}, nil
		}),
	}
}

func copyCommand(clip Clipboard) *commands.Spec {
	return &commands.Spec{
		Name:        "copy",
		Description: "Copy the last output lines to the clipboard",
		ArgSlots:    []string{"[count]"},
		Examples:    []string{"copy", "copy 5"},
		Category:    categoryGeneral,
		Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
			count := 1
			if len(inv.Args) > 0 {
				n, err := strconv.Atoi(inv.Args[0])
				if err != nil || n < 1 {
					return nil, &commands.UsageError{Usage: "copy [count]"}
				}
				count = n
			}
			if clip == nil {
				return nil, fmt.Errorf("clipboard is not available")
			}

			lines := inv.Env.Output.Tail(count, func(l output.Line) bool {
				return l.Kind != output.KindCommandEcho
			})
			if len(lines) == 0 {
				return []output.Line{output.Text("Nothing to copy.")}, nil
			}

			texts := make([]string, len(lines))
			for i, l := range lines {
				texts[i] = l.Text
			}
			if err := clip.Copy(strings.Join(texts, "\n")); err != nil {
				return nil, fmt.Errorf("failed to copy to clipboard: %w", err)
			}

			noun := "line"
			if len(lines) != 1 {
				noun = "lines"
			}
			return []output.Line{output.Success(fmt.Sprintf("Copied %d %s to clipboard.", len(lines), noun))}, nil
		}),
	}
}

func practiceCommands(fs *PracticeFS) []*commands.Spec {
	practiceOnly := []commands.Mode{commands.ModePractice}
	return []*commands.Spec{
		{
			Name:        "ls",
			Description: "List the practice directory",
			ArgSlots:    []string{"[dir]"},
			Examples:    []string{"ls", "ls documents", "ls /etc"},
			Category:    categoryPractice,
			Modes:       practiceOnly,
			Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
				dir := ""
				if len(inv.Args) > 0 {
					dir = inv.Args[0]
				}
				entries, err := fs.List(dir)
				if err != nil {
					return nil, err
				}
				if len(entries) == 0 {
					return nil, nil
				}
				return []output.Line{output.Text(strings.Join(entries, "  "))}, nil
			}),
		},
		{
			Name:        "pwd",
			Description: "Print the practice working directory",
			Examples:    []string{"pwd"},
			Category:    categoryPractice,
			Modes:       practiceOnly,
			Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
				return []output.Line{output.Text(fs.Pwd())}, nil
			}),
		},
		{
			Name:        "cd",
			Description: "Change the practice working directory",
			ArgSlots:    []string{"<dir>"},
			Examples:    []string{"cd documents", "cd ..", "cd /var/log", "cd ~"},
			Category:    categoryPractice,
			Modes:       practiceOnly,
			Handler: commands.Local(func(inv *commands.Invocation) ([]output.Line, error) {
				if err := fs.Cd(inv.Args[0]); err != nil {
					return nil, err
				}
				return nil, nil
			}),
		},
	}
}

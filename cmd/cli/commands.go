package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/commands/builtin"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/spf13/cobra"
)

const referenceWidth = 80

// NewCommandsCommand creates the command that prints the command reference
func NewCommandsCommand(current func() *config.Settings) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the terminal commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := commands.NewRegistry(nil)
			if err := builtin.Register(registry, builtin.Options{}); err != nil {
				return err
			}
			if s := current(); s != nil && s.Mode != "" {
				m, err := commands.ParseMode(s.Mode)
				if err != nil {
					return err
				}
				registry.SetMode(m)
			}

			doc := buildReference(registry)
			out := cmd.OutOrStdout()
			if plain || !isTerminal(out) {
				_, err := fmt.Fprint(out, doc)
				return err
			}

			rendered, err := renderMarkdown(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

// buildReference renders the commands visible in the registry's mode as markdown
func buildReference(registry *commands.Registry) string {
	groups := registry.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "# netterm commands (%s mode)\n", registry.Mode())
	for _, category := range categories {
		fmt.Fprintf(&b, "\n## %s\n\n", category)
		for _, spec := range groups[category] {
			fmt.Fprintf(&b, "- `%s` %s\n", spec.Usage(), spec.Description)
			if len(spec.Aliases) > 0 {
				fmt.Fprintf(&b, "  - aliases: %s\n", strings.Join(spec.Aliases, ", "))
			}
			for _, example := range spec.Examples {
				fmt.Fprintf(&b, "  - e.g. `%s`\n", example)
			}
		}
	}
	return b.String()
}

func renderMarkdown(doc string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(referenceWidth),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return renderer.Render(doc)
}

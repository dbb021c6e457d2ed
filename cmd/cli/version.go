package cli

import (
	"fmt"

	"github.com/kcaldas/netterm/pkg/version"
	"github.com/spf13/cobra"
)

// NewVersionCommand prints detailed build information
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetInfo().String())
			return err
		},
	}
}

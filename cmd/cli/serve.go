package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kcaldas/netterm/internal/di"
	"github.com/kcaldas/netterm/pkg/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the command that runs the toolkit backend
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the toolkit HTTP backend",
		Long: `Serve exposes /api/scan, /api/lookup, /api/dns, /api/ssl, /api/system and
/api/tools. It stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := di.InjectServer(addr)
			fmt.Fprintf(cmd.OutOrStdout(), "netterm toolkit listening on %s\n", srv.Addr())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "address to listen on")
	return cmd
}

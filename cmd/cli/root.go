package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kcaldas/netterm/cmd/tui"
	"github.com/kcaldas/netterm/internal/di"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/version"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	apiURL     string
	mode       string
	noKeyboard bool

	// Settings resolved once in PersistentPreRunE and shared by every command
	settings *config.Settings
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "netterm",
	Short: "Network toolkit terminal",
	Long: `netterm is a terminal for a small network toolkit. It runs scans,
IP and DNS lookups and certificate checks against a toolkit backend, and
ships the backend itself under "netterm serve".`,
	Version:      version.GetVersion(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine
		_ = godotenv.Load()

		var logger logging.Logger
		if quiet {
			logger = logging.NewQuietLogger()
		} else if verbose {
			logger = logging.NewVerboseLogger()
		} else {
			logger = logging.NewDefaultLogger()
		}
		logging.SetGlobalLogger(logger)

		loaded, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.StartTUI(settings)
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
	RootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "toolkit backend URL (empty string runs offline)")
	RootCmd.PersistentFlags().StringVar(&mode, "mode", "", "starting mode: normal or practice")

	RootCmd.Flags().BoolVar(&noKeyboard, "no-keyboard", false, "start with the on-screen keyboard hidden")

	addCommands()
}

// addCommands adds all CLI subcommands to the root command
func addCommands() {
	current := func() *config.Settings { return settings }

	RootCmd.AddCommand(NewRunCommand(current))
	RootCmd.AddCommand(NewServeCommand())
	RootCmd.AddCommand(NewCommandsCommand(current))
	RootCmd.AddCommand(NewVersionCommand())
}

// loadSettings reads ~/.netterm/settings.yaml, then env, then explicit flags
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	loaded, err := di.InjectSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	applyFlags(cmd, loaded)
	return loaded, nil
}

func applyFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("api") {
		s.APIURL = apiURL
	}
	if flags.Changed("mode") {
		s.Mode = mode
	}
	if flags.Changed("no-keyboard") {
		s.KeyboardVisible = !noKeyboard
	}
}

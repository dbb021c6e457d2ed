package tui

import (
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/logging"
)

const debugLogFile = "netterm-debug.log"

// StartTUI runs the terminal UI until the user quits. Logs go to a file so
// they never draw over the screen.
func StartTUI(settings *config.Settings) error {
	logging.SetGlobalLogger(logging.NewFileLoggerFromEnv(debugLogFile))
	logging.Info("netterm TUI starting", "api", settings.APIURL, "mode", settings.Mode)

	t, err := InjectTUI(settings)
	if err != nil {
		return err
	}
	defer t.Stop()

	return t.Start()
}

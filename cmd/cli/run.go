package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kcaldas/netterm/internal/di"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the headless runner. Each argument is one command
// line; with no arguments, lines are read from piped stdin.
func NewRunCommand(current func() *config.Settings) *cobra.Command {
	var (
		timeout time.Duration
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "run [command line]...",
		Short: "Run terminal commands without the UI",
		Long: `Run dispatches each command line through the same engine the terminal UI
uses and prints the output log. Remote commands are awaited before the next
line runs.`,
		Example: `  netterm run "lookup 8.8.8.8" "dns example.com"
  printf 'scan example.com\nssl example.com\n' | netterm run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := args
			if len(lines) == 0 {
				if !hasStdinInput() {
					return errors.New("no commands given; pass them as arguments or pipe them on stdin")
				}
				var err error
				lines, err = readCommandLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			s := current()
			if s == nil {
				s = config.DefaultSettings()
			}
			if timeout <= 0 {
				timeout = s.Timeout
			}

			out := cmd.OutOrStdout()
			r := &runner{
				out:     out,
				color:   !noColor && isTerminal(out),
				timeout: timeout,
				logger:  logging.NewComponentLogger("run"),
			}
			return r.run(cmd.Context(), s, lines)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "how long to wait for each remote command (defaults to the configured timeout)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	return cmd
}

type runner struct {
	out     io.Writer
	color   bool
	timeout time.Duration
	logger  logging.Logger

	printed int
	errors  int
}

func (r *runner) run(ctx context.Context, s *config.Settings, lines []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	engine, err := di.InjectEngine(s)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	for _, line := range lines {
		engine.Dispatcher.Dispatch(ctx, line)

		waitCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := engine.Dispatcher.Wait(waitCtx)
		cancel()
		if err != nil {
			r.logger.Warn("remote command still running", "line", line, "error", err)
			r.flush(engine.Output)
			return fmt.Errorf("timed out after %s waiting for %q", r.timeout, line)
		}
		r.flush(engine.Output)
	}

	if r.errors > 0 {
		return fmt.Errorf("%d error line(s) reported", r.errors)
	}
	return nil
}

// flush prints the lines appended since the last flush. A clear resets the log,
// so the cursor follows it back.
func (r *runner) flush(log *output.Log) {
	lines := log.Lines()
	if r.printed > len(lines) {
		r.printed = 0
	}
	for _, line := range lines[r.printed:] {
		if line.Kind == output.KindError {
			r.errors++
		}
		text := line.Text
		if r.color {
			text = line.Styled()
		}
		fmt.Fprintln(r.out, text)
	}
	r.printed = len(lines)
}

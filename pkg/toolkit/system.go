package toolkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// AllowedCommands is the fixed set of programs the system endpoint will run.
// The terminal checks the same list before sending anything.
var AllowedCommands = []string{"ls", "pwd", "whoami", "date", "ps", "df", "free", "uptime", "uname"}

// IsAllowed reports whether program is on the allow-list
func IsAllowed(program string) bool {
	for _, c := range AllowedCommands {
		if c == program {
			return true
		}
	}
	return false
}

// DisallowedError is returned for programs outside the allow-list
type DisallowedError struct {
	Program string
}

func (e *DisallowedError) Error() string {
	return fmt.Sprintf("Command not allowed: %s. Allowed commands: %s", e.Program, strings.Join(AllowedCommands, ", "))
}

// SystemResult is the /api/system response body
type SystemResult struct {
	Output      string `json:"output"`
	ErrorOutput string `json:"error_output"`
	ExitCode    int    `json:"exit_code"`
}

// SystemRunner executes allow-listed programs directly, without a shell
type SystemRunner struct {
	Timeout time.Duration
	Dir     string
}

func NewSystemRunner() *SystemRunner {
	return &SystemRunner{Timeout: 10 * time.Second}
}

// Run executes command. A non-zero exit is reported in the result, not as an error.
func (r *SystemRunner) Run(ctx context.Context, command string) (*SystemResult, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("command parameter required")
	}
	if !IsAllowed(fields[0]) {
		return nil, &DisallowedError{Program: fields[0]}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &SystemResult{Output: stdout.String(), ErrorOutput: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", fields[0], err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

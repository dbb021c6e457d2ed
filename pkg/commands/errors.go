package commands

import (
	"fmt"
	"strings"
)

// UnknownCommandError is raised when the first token names no visible command
type UnknownCommandError struct {
	Name        string
	Suggestions []*Spec
}

func (e *UnknownCommandError) Error() string {
	return "Command not found: " + e.Name
}

// UsageError is raised when a command is invoked with missing arguments
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "Usage: " + e.Usage
}

// DisallowedCommandError is raised by the client-side allow-list before any request is made
type DisallowedCommandError struct {
	Command string
	Allowed []string
}

func (e *DisallowedCommandError) Error() string {
	return fmt.Sprintf("Command not allowed: %s. Allowed commands: %s", e.Command, strings.Join(e.Allowed, ", "))
}

// RemoteTransportError covers network and decoding failures of a remote call.
// Only Message is shown to the user; Err goes to the log.
type RemoteTransportError struct {
	Endpoint string
	Message  string
	Err      error
}

func (e *RemoteTransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RemoteTransportError) Unwrap() error {
	return e.Err
}

// RemoteRejectionError carries a domain error reported by the endpoint itself
type RemoteRejectionError struct {
	Message string
}

func (e *RemoteRejectionError) Error() string {
	return e.Message
}

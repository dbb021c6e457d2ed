package builtin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/toolkit"
)

// Backend endpoints
const (
	EndpointScan   = "/api/scan"
	EndpointLookup = "/api/lookup"
	EndpointDNS    = "/api/dns"
	EndpointSSL    = "/api/ssl"
	EndpointSystem = "/api/system"
)

// prettyJSON renders the whole response as one indented output line,
// keeping the server's key order. A body carrying a top-level error is a
// rejection instead.
func prettyJSON(body []byte) ([]output.Line, error) {
	if msg, ok := errorField(body); ok {
		return nil, &commands.RemoteRejectionError{Message: msg}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format response: %w", err)
	}
	return []output.Line{output.Text(buf.String())}, nil
}

// errorField finds {"error": "..."} or {"error": true, "reason"|"message": "..."}
func errorField(body []byte) (string, bool) {
	var resp struct {
		Error   json.RawMessage `json:"error"`
		Reason  string          `json:"reason"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Error) == 0 {
		return "", false
	}

	var text string
	if json.Unmarshal(resp.Error, &text) == nil {
		return text, text != ""
	}
	var flagged bool
	if json.Unmarshal(resp.Error, &flagged) == nil && flagged {
		switch {
		case resp.Reason != "":
			return resp.Reason, true
		case resp.Message != "":
			return resp.Message, true
		}
		return "Request failed", true
	}
	return "", false
}

// firstArg builds a one-field request body from the first argument
func firstArg(field string) func(args []string) (any, error) {
	return func(args []string) (any, error) {
		return map[string]string{field: args[0]}, nil
	}
}

func scanCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "scan",
		Description: "Scan common ports on a host",
		ArgSlots:    []string{"<host>"},
		Examples:    []string{"scan example.com", "scan 192.168.1.1", "scan localhost"},
		Category:    categoryNetwork,
		Handler: commands.Remote(commands.RemoteCall{
			Endpoint:       EndpointScan,
			BuildRequest:   firstArg("host"),
			MapResponse:    prettyJSON,
			FailureMessage: "Unable to complete scan",
		}),
	}
}

func lookupCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "lookup",
		Description: "Look up information about an IP address",
		ArgSlots:    []string{"<ip>"},
		Examples:    []string{"lookup 8.8.8.8", "lookup 1.1.1.1"},
		Category:    categoryNetwork,
		Handler: commands.Remote(commands.RemoteCall{
			Endpoint:       EndpointLookup,
			BuildRequest:   firstArg("ip"),
			MapResponse:    prettyJSON,
			FailureMessage: "Unable to complete lookup",
		}),
	}
}

func dnsCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "dns",
		Description: "Resolve A, MX and NS records for a domain",
		ArgSlots:    []string{"<domain>"},
		Examples:    []string{"dns example.com", "dns google.com"},
		Category:    categoryNetwork,
		Handler: commands.Remote(commands.RemoteCall{
			Endpoint:       EndpointDNS,
			BuildRequest:   firstArg("domain"),
			MapResponse:    prettyJSON,
			FailureMessage: "Unable to complete DNS lookup",
		}),
	}
}

func sslCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "ssl",
		Description: "Check the TLS certificate of a host",
		ArgSlots:    []string{"<host>"},
		Examples:    []string{"ssl example.com", "ssl github.com:443"},
		Category:    categoryNetwork,
		Handler: commands.Remote(commands.RemoteCall{
			Endpoint:       EndpointSSL,
			BuildRequest:   firstArg("host"),
			MapResponse:    prettyJSON,
			FailureMessage: "Unable to complete SSL check",
		}),
	}
}

func systemCommand() *commands.Spec {
	return &commands.Spec{
		Name:        "system",
		Description: "Run an allowed system command on the server",
		ArgSlots:    []string{"<command>", "[args...]"},
		Examples:    []string{"system ls -la", "system df -h", "system uname -a", "system uptime", "system whoami"},
		Category:    categorySystem,
		Handler: commands.Remote(commands.RemoteCall{
			Endpoint:       EndpointSystem,
			BuildRequest:   buildSystemRequest,
			MapResponse:    mapSystemResponse,
			FailureMessage: "Unable to execute system command",
		}),
	}
}

func buildSystemRequest(args []string) (any, error) {
	if !toolkit.IsAllowed(args[0]) {
		return nil, &commands.DisallowedCommandError{Command: args[0], Allowed: toolkit.AllowedCommands}
	}
	return map[string]string{"command": strings.Join(args, " ")}, nil
}

type systemResponse struct {
	Error       any    `json:"error"`
	Message     string `json:"message"`
	Output      string `json:"output"`
	ErrorOutput string `json:"error_output"`
	ExitCode    int    `json:"exit_code"`
}

func mapSystemResponse(body []byte) ([]output.Line, error) {
	var resp systemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode system response: %w", err)
	}

	if rejected, message := rejection(resp); rejected {
		return nil, &commands.RemoteRejectionError{Message: message}
	}

	var lines []output.Line
	for _, line := range splitLines(resp.Output) {
		lines = append(lines, output.System(line))
	}
	for _, line := range splitLines(resp.ErrorOutput) {
		lines = append(lines, output.Error(line))
	}
	if resp.ExitCode != 0 {
		lines = append(lines, output.Error(fmt.Sprintf("Command exited with code %d", resp.ExitCode)))
	}
	return lines, nil
}

// rejection interprets the error flag, which the backend sends either as a
// boolean next to message or as the message itself
func rejection(resp systemResponse) (bool, string) {
	switch v := resp.Error.(type) {
	case bool:
		if !v {
			return false, ""
		}
	case string:
		if v == "" {
			return false, ""
		}
		if resp.Message == "" {
			return true, v
		}
	case nil:
		return false, ""
	}
	if resp.Message == "" {
		return true, "Command rejected by server"
	}
	return true, resp.Message
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

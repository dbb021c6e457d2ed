package tui

import (
	"fmt"
	"strings"

	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/shell"
	"github.com/kcaldas/netterm/pkg/terminal"
)

const (
	prompt             = "$ "
	maxSuggestionRows  = 6
	ansiReverse        = "\033[7m"
	ansiDimText        = "\033[2m"
	ansiReset          = "\033[0m"
	statusSeparator    = " | "
	displayTabReplacer = ' '
)

// renderOutput writes every line, coloured by kind
func renderOutput(lines []output.Line) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.Styled())
		b.WriteByte('\n')
	}
	return b.String()
}

// renderInput returns the visible slice of the prompt line for a view of
// width columns and the cursor column inside it. The text scrolls so the
// cursor stays visible. A non-empty [selStart, selEnd) is drawn reversed.
func renderInput(text string, cursor, selStart, selEnd, width int) (string, int) {
	runes := []rune(prompt + strings.ReplaceAll(text, "\t", string(displayTabReplacer)))
	promptLen := len([]rune(prompt))
	pos := cursor + promptLen
	if width <= 0 {
		return "", 0
	}

	offset := 0
	if pos >= width {
		offset = pos - width + 1
	}
	end := offset + width
	if end > len(runes) {
		end = len(runes)
	}

	from := min(max(selStart+promptLen, offset), end)
	to := min(max(selEnd+promptLen, offset), end)
	if selStart >= selEnd || from == to {
		return string(runes[offset:end]), pos - offset
	}
	return string(runes[offset:from]) + ansiReverse + string(runes[from:to]) + ansiReset + string(runes[to:end]), pos - offset
}

// renderSuggestions lists candidates, highlighting the selected one. When
// the list is longer than the view, it scrolls to keep the selection visible.
func renderSuggestions(items []shell.Suggestion, selected int) []string {
	if len(items) == 0 {
		return nil
	}
	width := 0
	for _, s := range items {
		if n := len([]rune(s.Text)); n > width {
			width = n
		}
	}

	start := 0
	if selected >= maxSuggestionRows {
		start = selected - maxSuggestionRows + 1
	}
	end := start + maxSuggestionRows
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := items[i]
		line := fmt.Sprintf(" %-*s  %s", width, s.Text, s.Description)
		if i == selected {
			line = ansiReverse + line + ansiReset
		}
		lines = append(lines, line)
	}
	return lines
}

func suggestionRows(items []shell.Suggestion) int {
	if len(items) > maxSuggestionRows {
		return maxSuggestionRows
	}
	return len(items)
}

// renderStatus builds the single status line
func renderStatus(snap terminal.Snapshot, apiURL string, inflight int, hints []string) string {
	parts := []string{"mode: " + string(snap.Mode)}
	if apiURL == "" {
		parts = append(parts, "api: offline")
	} else {
		parts = append(parts, "api: "+apiURL)
	}
	if inflight > 0 {
		parts = append(parts, fmt.Sprintf("pending: %d", inflight))
	}
	if snap.Modifiers.Caps {
		parts = append(parts, "CAPS")
	}
	status := strings.Join(parts, statusSeparator)
	if len(hints) > 0 {
		status += statusSeparator + ansiDimText + strings.Join(hints, statusSeparator) + ansiReset
	}
	return status
}

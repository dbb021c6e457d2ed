package shell

import (
	"sort"
	"strings"
)

// Suggestion is a candidate completion for the current input
type Suggestion struct {
	Text        string
	Description string
}

// CommandInfo is what the suggester needs to know about a command
type CommandInfo struct {
	Name        string
	Description string
	ArgSlots    []string
	Examples    []string
}

// CommandSource exposes the commands currently visible to the user
type CommandSource interface {
	CommandNames() []string
	CommandInfo(name string) (CommandInfo, bool)
}

// Suggest computes candidates for text. It holds no state, so equal inputs
// give equal results.
//
// While the first token is being typed the candidates are command names with
// that prefix. Once a space was typed they come from the command's examples:
// for argument N, token N of every example that starts with the partial
// argument.
func Suggest(text string, src CommandSource) []Suggestion {
	if src == nil {
		return nil
	}
	text = strings.TrimLeft(text, " \t")
	if text == "" {
		return nil
	}

	if !strings.ContainsAny(text, " \t") {
		return suggestCommands(text, src)
	}
	return suggestArguments(text, src)
}

func suggestCommands(prefix string, src CommandSource) []Suggestion {
	names := src.CommandNames()
	sort.Strings(names)

	var out []Suggestion
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		info, _ := src.CommandInfo(name)
		out = append(out, Suggestion{Text: name, Description: info.Description})
	}
	return out
}

func suggestArguments(text string, src CommandSource) []Suggestion {
	tokens := strings.Fields(text)
	info, ok := src.CommandInfo(tokens[0])
	if !ok {
		return nil
	}

	partial := ""
	argIndex := len(tokens) - 1
	if !endsWithSpace(text) {
		partial = tokens[len(tokens)-1]
		argIndex = len(tokens) - 2
	}

	description := info.Description
	if argIndex < len(info.ArgSlots) {
		description = info.ArgSlots[argIndex]
	}

	seen := make(map[string]bool)
	var out []Suggestion
	for _, example := range info.Examples {
		exampleTokens := strings.Fields(example)
		if argIndex+1 >= len(exampleTokens) {
			continue
		}
		candidate := exampleTokens[argIndex+1]
		if !strings.HasPrefix(candidate, partial) || seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, Suggestion{Text: candidate, Description: description})
	}
	return out
}

// ApplySuggestion replaces the last whitespace-delimited token of text with
// suggestion. Earlier tokens are kept byte for byte.
func ApplySuggestion(text, suggestion string) string {
	if endsWithSpace(text) {
		return text + suggestion
	}
	i := strings.LastIndexAny(text, " \t")
	return text[:i+1] + suggestion
}

func endsWithSpace(text string) bool {
	return text != "" && isWhitespace(rune(text[len(text)-1]))
}

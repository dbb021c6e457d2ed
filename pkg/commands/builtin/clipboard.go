package builtin

import "github.com/atotto/clipboard"

// Clipboard receives text copied by the copy command
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether an OS clipboard utility was found
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

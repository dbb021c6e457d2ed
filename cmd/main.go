package main

import (
	"github.com/kcaldas/netterm/cmd/cli"
)

// With no subcommand the root command starts the terminal UI
func main() {
	cli.Execute()
}

package main

import (
	"os"

	"github.com/insideralpha/backend/cmd/insider/commands"
)

// main is the entry point for the insider-alpha CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

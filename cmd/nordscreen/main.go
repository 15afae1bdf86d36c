package main

import (
	"os"

	"github.com/nordvik/nordscreen/cmd/nordscreen/commands"
)

// main is the entry point for the nordscreen CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

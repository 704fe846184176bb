package main

import (
	"os"

	"secretto/cmd/secretto/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

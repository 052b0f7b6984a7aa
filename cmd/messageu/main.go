package main

import (
	"os"

	"messageu/cmd/messageu/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

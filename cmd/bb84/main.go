package main

import (
	"os"

	"bb84/cmd/bb84/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

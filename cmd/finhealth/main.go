package main

import (
	"os"

	"finhealth/cmd/finhealth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

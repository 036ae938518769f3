package main

import (
	"os"

	"github.com/ProgrammerKR/ProXPL/cmd/prox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/hypandra/spellbetternow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/kilianp07/sessionplan/cmd"
	coremon "github.com/kilianp07/sessionplan/core/monitoring"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	defer coremon.Recover()
	return cmd.Execute()
}

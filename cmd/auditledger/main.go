package main

import (
	"os"

	"github.com/auditledger-dev/auditledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

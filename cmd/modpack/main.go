package main

import (
	"os"

	"github.com/item-network/modpack/internal/cli"
	"github.com/item-network/modpack/internal/cli/shared"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(shared.ExitCode(err))
	}
}

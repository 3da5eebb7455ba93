package main

import (
	"context"
	"os"

	"keuangan/internal/cli"
	"keuangan/internal/commands"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

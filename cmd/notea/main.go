// Command notea reviews flashcards from the terminal against a local deck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/noteaapp/notea/internal/app"
	"github.com/noteaapp/notea/internal/cli"
	"github.com/noteaapp/notea/internal/config"
	"github.com/noteaapp/notea/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFile(os.Getenv("NOTEA_CONFIG"))
	if err != nil {
		return err
	}

	// Service logs go to stderr and stay quiet unless asked for, so they
	// never mix with command output.
	level := "warn"
	if cfg.Server.LogLevel == "debug" {
		level = "debug"
	}
	log := logger.NewTextLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	root := cli.NewRootCmd(&cli.App{
		Cards:    a.Cards,
		Reviews:  a.Reviews,
		Importer: a.Importer,
	})
	return root.ExecuteContext(ctx)
}

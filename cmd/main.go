package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented", "error", err)
			os.Exit(0)
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "castlite",
		Usage:    "Upload audio and stream it over HTTP with byte-range support",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}

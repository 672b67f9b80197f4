package main

import (
	"context"
	"os/signal"
	"syscall"

	"boxscore-fetcher/cmd/boxscorectl/commands"
)

func main() {
	// SIGINT/SIGTERM cancel the run; the fetch loop still checkpoints.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}

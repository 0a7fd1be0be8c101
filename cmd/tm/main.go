package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-timer/internal/cli"
	"task-timer/internal/config"
)

func main() {
	// Interrupts stop the tracker, which saves every running task before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), os.Stdout)
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

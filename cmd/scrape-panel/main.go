package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scrape-panel-go/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cli.NewRootCommand()); err != nil {
		stop()
		os.Exit(1)
	}
}

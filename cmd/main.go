// Package main is the entry point for the truckload CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/guttosm/truckload/cmd/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx)
	stop()
	os.Exit(code)
}

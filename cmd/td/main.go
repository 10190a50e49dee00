package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikbrunner/td/cmd/td/commands"
)

// Version information (set via ldflags during build)
var version = "dev"

func main() {
	// Cancel in-flight store calls on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.Execute(ctx, version)
	stop()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}

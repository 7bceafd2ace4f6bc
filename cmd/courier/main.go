package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/logandonley/courier/pkg/logging"
)

func main() {
	// Cancellation still lets the running operation close its session
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := Execute(ctx)
	stop()
	_ = logging.Sync()

	if err != nil {
		if !errors.Is(err, errFailedResponse) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"switchgraph/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError(errorTitle(err), err.Error(), errorHint(err)))
		stop()
		os.Exit(1)
	}
}

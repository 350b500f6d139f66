package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/muster/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apiforge/apiforge/cli"
	"github.com/apiforge/apiforge/utils/log"
)

func main() {
	logger, err := log.New()
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, logger)
}

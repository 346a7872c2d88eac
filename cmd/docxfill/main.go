package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Run(ctx, os.Exit, os.Stdout, os.Args[1:]...)
	stop()
	if err != nil {
		slog.Error("docxfill failed", slog.Any("error", err))
		os.Exit(1)
	}
}

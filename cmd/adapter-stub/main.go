package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"tree-report/internal/adapter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	adapter.Run(ctx, os.Stdin, out, adapter.DefaultOptions())
}

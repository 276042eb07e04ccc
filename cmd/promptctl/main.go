package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyang/promptdeck/internal/transport/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, cli.DefaultLoader, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "promptctl:", err)
		os.Exit(1)
	}
}

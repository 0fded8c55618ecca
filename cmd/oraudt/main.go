package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/syssam/oraudt/internal/cmdapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := cmdapi.NewRoot()
	root.SetOut(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

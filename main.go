package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"outlet-sales/cmd"
	"outlet-sales/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		utils.NewLogger().Error("%v", err)
		stop()
		os.Exit(1)
	}
}

// Command rotfig draws the rotation-period figures.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/HamletTheHamster/rotation-percentiles/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

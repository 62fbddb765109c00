package main

import (
	"context"
	"os"

	"github.com/uhernandez2497-source/flota-trigger/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

// Package main generates a document batch from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	gradpackcmd "github.com/louisbranch/gradpack/internal/cmd/gradpack"
	"github.com/louisbranch/gradpack/internal/documents"
	"github.com/louisbranch/gradpack/internal/platform/config"
)

func main() {
	cfg, err := gradpackcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitWithCode(config.ExitInvalidInput, "Error: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gradpackcmd.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		var problems documents.Problems
		if errors.As(err, &problems) {
			config.ExitWithCode(config.ExitInvalidInput, "Error: %v", err)
		}
		config.Exitf("Error: %v", err)
	}
}

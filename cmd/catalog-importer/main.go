package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/gradpack/internal/cmd/catalogimport"
	"github.com/louisbranch/gradpack/internal/platform/config"
)

func main() {
	cfg, err := catalogimport.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := catalogimport.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

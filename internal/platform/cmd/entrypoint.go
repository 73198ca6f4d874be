// Package cmd holds the plumbing shared by the gradpack command entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/louisbranch/gradpack/internal/platform/config"
	"github.com/louisbranch/gradpack/internal/platform/otel"
	"github.com/louisbranch/gradpack/internal/platform/timeouts"
)

// Service identifiers used as telemetry service names and log prefixes.
const (
	ServiceWeb             = "web"
	ServiceGradpack        = "gradpack"
	ServiceCatalogImporter = "catalog-importer"
)

// ParseConfig loads environment defaults into cfg. Flags registered
// afterwards use the loaded values as their defaults.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// Logger returns a standard logger prefixed with the service name.
func Logger(service string) *log.Logger {
	return log.New(os.Stderr, "["+strings.ToUpper(strings.TrimSpace(service))+"] ", log.LstdFlags)
}

// RunWithTelemetry sets up tracing for service, runs the loop and flushes
// spans on the way out.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			Logger(service).Printf("otel shutdown: %v", err)
		}
	}()
	return run(ctx)
}

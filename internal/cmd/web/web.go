// Package web parses web command configuration and launches the web server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/gradpack/internal/catalog/storage/sqlite"
	entrypoint "github.com/louisbranch/gradpack/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/gradpack/internal/platform/grpc"
	"github.com/louisbranch/gradpack/internal/platform/timeouts"
	"github.com/louisbranch/gradpack/internal/services/web"
	"github.com/louisbranch/gradpack/internal/templates"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr     string `env:"GRADPACK_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	HealthAddr   string `env:"GRADPACK_WEB_HEALTH_ADDR" envDefault:"localhost:8081"`
	DBPath       string `env:"GRADPACK_CATALOG_DB_PATH" envDefault:"data/catalog.db"`
	TemplatesDir string `env:"GRADPACK_TEMPLATES_DIR"`
	// HealthCheck probes a running server instead of starting one.
	HealthCheck bool
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("http address is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("catalog db path is required")
	}
	return nil
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (empty disables it)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "catalog database path")
	fs.StringVar(&cfg.TemplatesDir, "templates-dir", cfg.TemplatesDir, "directory overriding the built-in templates and pictures")
	fs.BoolVar(&cfg.HealthCheck, "healthcheck", false, "probe the health address of a running server and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server, or probes a running one.
func Run(ctx context.Context, cfg Config) error {
	logger := entrypoint.Logger(entrypoint.ServiceWeb)
	if cfg.HealthCheck {
		return probe(ctx, cfg, logger)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close catalog: %v", err)
			}
		}()

		server, err := web.NewServer(web.Config{
			HTTPAddr:   cfg.HTTPAddr,
			HealthAddr: cfg.HealthAddr,
			Catalog:    store,
			Templates:  templates.WithOverrides(cfg.TemplatesDir),
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

func probe(ctx context.Context, cfg Config, logger *log.Logger) error {
	if strings.TrimSpace(cfg.HealthAddr) == "" {
		return fmt.Errorf("health address is required for -healthcheck")
	}
	if err := platformgrpc.Probe(ctx, cfg.HealthAddr, web.HealthService, timeouts.HealthProbe, logger.Printf); err != nil {
		return err
	}
	logger.Printf("health=SERVING addr=%s", cfg.HealthAddr)
	return nil
}

// Package web serves the document generation form: it previews the batch
// for a training group, downloads it as a ZIP and maintains the catalog of
// professions and teachers.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/documents"
	platformgrpc "github.com/louisbranch/gradpack/internal/platform/grpc"
	"github.com/louisbranch/gradpack/internal/platform/timeouts"
	"github.com/louisbranch/gradpack/internal/templates"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HealthService is the gRPC health service name reported by the web server.
const HealthService = "gradpack.web"

// Config wires the web server.
type Config struct {
	HTTPAddr string
	// HealthAddr is the gRPC health listen address; empty disables it.
	HealthAddr string
	Catalog    catalog.Store
	Templates  templates.Source
	Logger     *log.Logger
	// Now returns the current time for form defaults.
	Now func() time.Time
}

// Server runs the HTTP surface and its gRPC health endpoint.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	health     *platformgrpc.HealthServer
	logger     *log.Logger
}

// NewServer validates cfg and prepares both listeners.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	if cfg.Templates == nil {
		return nil, errors.New("template source is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	var health *platformgrpc.HealthServer
	if addr := strings.TrimSpace(cfg.HealthAddr); addr != "" {
		var err error
		health, err = platformgrpc.NewHealthServer(addr, cfg.Logger, HealthService)
		if err != nil {
			return nil, fmt.Errorf("init health server: %w", err)
		}
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otelhttp.NewHandler(NewHandler(cfg), "gradpack.web"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		health: health,
		logger: cfg.Logger,
	}, nil
}

// HealthAddr returns the bound health address, or "" when disabled.
func (s *Server) HealthAddr() string {
	if s == nil || s.health == nil {
		return ""
	}
	return s.health.Addr()
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	healthErr := make(chan error, 1)
	if s.health != nil {
		go func() {
			healthErr <- s.health.Serve(healthCtx)
		}()
		s.health.SetServing(true)
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-healthErr:
		if err == nil && ctx.Err() != nil {
			return s.shutdown()
		}
		if err == nil {
			err = errors.New("health server stopped")
		}
		_ = s.httpServer.Close()
		return err
	}
}

func (s *Server) shutdown() error {
	if s.health != nil {
		s.health.SetServing(false)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// newGenerator builds the generator shared by the document handlers.
func newGenerator(cfg Config) *documents.Generator {
	return documents.NewGenerator(cfg.Templates, cfg.Logger)
}

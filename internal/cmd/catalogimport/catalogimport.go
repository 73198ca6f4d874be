// Package catalogimport loads the professions classifier and the default
// teachers into the catalog database.
package catalogimport

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/catalog/storage/sqlite"
	"github.com/louisbranch/gradpack/internal/docx"
	entrypoint "github.com/louisbranch/gradpack/internal/platform/cmd"
)

// Config holds the importer configuration.
type Config struct {
	DBPath string `env:"GRADPACK_CATALOG_DB_PATH" envDefault:"data/catalog.db"`
	// Professions is the classifier document; empty imports teachers only.
	Professions string
	// Teachers seeds the default teachers.
	Teachers bool
	DryRun   bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "catalog database path")
	fs.StringVar(&cfg.Professions, "professions", "", "professions classifier .docx (first table: name, code)")
	fs.BoolVar(&cfg.Teachers, "teachers", true, "seed the default teachers")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Professions) == "" && !cfg.Teachers {
		return Config{}, errors.New("nothing to import: set -professions or -teachers")
	}
	return cfg, nil
}

// Run executes the import.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	var professions []catalog.Profession
	if path := strings.TrimSpace(cfg.Professions); path != "" {
		pkg, err := docx.OpenFile(path)
		if err != nil {
			return fmt.Errorf("open professions: %w", err)
		}
		professions, err = catalog.ParseProfessionTable(pkg)
		if err != nil {
			return fmt.Errorf("parse professions: %w", err)
		}
	}
	var teachers []catalog.Teacher
	if cfg.Teachers {
		teachers = catalog.DefaultTeachers
	}

	if cfg.DryRun {
		fmt.Fprintf(out, "dry run: %d professions, %d teachers\n", len(professions), len(teachers))
		return nil
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCatalogImporter, func(ctx context.Context) error {
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer store.Close()
		if err := catalog.Seed(ctx, store, professions, teachers); err != nil {
			return fmt.Errorf("import catalog: %w", err)
		}
		fmt.Fprintf(out, "imported %d professions, %d teachers into %s\n", len(professions), len(teachers), cfg.DBPath)
		return nil
	})
}

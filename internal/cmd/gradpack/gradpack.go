// Package gradpack generates the document batch of a training group from
// the command line and writes it as a ZIP archive.
package gradpack

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/catalog/storage/sqlite"
	"github.com/louisbranch/gradpack/internal/documents"
	entrypoint "github.com/louisbranch/gradpack/internal/platform/cmd"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/gradpack/internal/platform/i18n/catalog"
	"github.com/louisbranch/gradpack/internal/roster"
	"github.com/louisbranch/gradpack/internal/ruformat"
	"github.com/louisbranch/gradpack/internal/templates"
)

// Config holds the gradpack command configuration.
type Config struct {
	DBPath       string `env:"GRADPACK_CATALOG_DB_PATH" envDefault:"data/catalog.db"`
	TemplatesDir string `env:"GRADPACK_TEMPLATES_DIR"`
	Locale       string `env:"GRADPACK_LOCALE" envDefault:"ru-RU"`

	// Roster is the student list file; "-" reads stdin.
	Roster      string
	Profession  string
	Teacher     string
	BeginDate   string
	EndDate     string
	BeginNumber int
	EndNumber   int
	Company     string
	// Out is the archive path; empty names it after the end date.
	Out string
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if !i18ncatalog.Default().HasLocale(c.Locale) {
		return fmt.Errorf("unsupported locale %q", c.Locale)
	}
	return nil
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Company: documents.DefaultCompany}
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "catalog database path")
	fs.StringVar(&cfg.TemplatesDir, "templates-dir", cfg.TemplatesDir, "directory overriding the built-in templates and pictures")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale of error messages (ru-RU, en-US)")
	fs.StringVar(&cfg.Roster, "roster", "", `student list file, one tab separated student per line ("-" for stdin)`)
	fs.StringVar(&cfg.Profession, "profession", "", "profession name from the catalog")
	fs.StringVar(&cfg.Teacher, "teacher", "", "teacher name")
	fs.StringVar(&cfg.BeginDate, "begin", "", "start date (YYYY-MM-DD or DD.MM.YYYY)")
	fs.StringVar(&cfg.EndDate, "end", "", "end date (YYYY-MM-DD or DD.MM.YYYY)")
	fs.IntVar(&cfg.BeginNumber, "begin-number", 0, "start order number")
	fs.IntVar(&cfg.EndNumber, "end-number", 0, "graduation order number")
	fs.StringVar(&cfg.Company, "company", cfg.Company, "company of the students")
	fs.StringVar(&cfg.Out, "out", "", "archive path (default <end date>.zip)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the batch and writes the archive. Request problems are printed
// to out, localized, before the error is returned.
func Run(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGradpack, func(ctx context.Context) error {
		req, problems, err := buildRequest(ctx, cfg, stdin)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return reportProblems(out, cfg.Locale, problems)
		}

		generator := documents.NewGenerator(templates.WithOverrides(cfg.TemplatesDir), entrypoint.Logger(entrypoint.ServiceGradpack))
		batch, err := generator.Generate(ctx, req)
		if err != nil {
			var blocking documents.Problems
			if errors.As(err, &blocking) {
				return reportProblems(out, cfg.Locale, blocking)
			}
			return err
		}
		for _, warning := range batch.Warnings {
			fmt.Fprintf(out, "warning: %s\n", warning.Localize(cfg.Locale))
		}

		path := cfg.Out
		if strings.TrimSpace(path) == "" {
			path = ruformat.ArchiveName(req.EndDate)
		}
		if err := writeArchive(path, batch.Documents); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%d documents, %d students)\n", path, len(batch.Documents), len(req.Students))
		return nil
	})
}

func buildRequest(ctx context.Context, cfg Config, stdin io.Reader) (documents.Request, documents.Problems, error) {
	var problems documents.Problems
	req := documents.Request{
		Teacher:     strings.TrimSpace(cfg.Teacher),
		Company:     strings.TrimSpace(cfg.Company),
		BeginNumber: cfg.BeginNumber,
		EndNumber:   cfg.EndNumber,
	}

	if name := strings.TrimSpace(cfg.Profession); name != "" {
		profession, err := lookupProfession(ctx, cfg.DBPath, name)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			problems = append(problems, apperrors.WithMetadata(apperrors.CodeNotFound, "profession not found", map[string]string{"Name": name}))
		case err != nil:
			return documents.Request{}, nil, err
		default:
			req.Profession = profession
		}
	}

	for _, field := range []struct {
		value string
		dst   *time.Time
	}{
		{cfg.BeginDate, &req.BeginDate},
		{cfg.EndDate, &req.EndDate},
	} {
		value := strings.TrimSpace(field.value)
		if value == "" {
			continue
		}
		t, err := ruformat.ParseDate(value)
		if err != nil {
			problems = append(problems, apperrors.WrapWithMetadata(apperrors.CodeDateInvalid, err.Error(), map[string]string{"Value": value}, err))
			continue
		}
		*field.dst = t
	}

	text, err := readRoster(cfg.Roster, stdin)
	if err != nil {
		return documents.Request{}, nil, err
	}
	students, err := roster.Parse(text)
	if err != nil {
		var lineErr *roster.LineError
		if !errors.As(err, &lineErr) {
			return documents.Request{}, nil, err
		}
		problems = append(problems, apperrors.WrapWithMetadata(apperrors.CodeRosterLineInvalid, err.Error(), map[string]string{
			"Line":   strconv.Itoa(lineErr.Line),
			"Reason": lineErr.Reason,
		}, err))
	}
	req.Students = students
	return req, problems, nil
}

func lookupProfession(ctx context.Context, dbPath, name string) (catalog.Profession, error) {
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return catalog.Profession{}, fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return store.GetProfession(ctx, name)
}

func readRoster(path string, stdin io.Reader) (string, error) {
	switch strings.TrimSpace(path) {
	case "":
		return "", nil
	case "-":
		if stdin == nil {
			return "", errors.New("stdin is not available")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read roster: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read roster: %w", err)
		}
		return string(data), nil
	}
}

func reportProblems(out io.Writer, locale string, problems documents.Problems) error {
	for _, problem := range problems {
		fmt.Fprintf(out, "error: %s\n", problem.Localize(locale))
	}
	return fmt.Errorf("request has %d problem(s): %w", len(problems), problems)
}

func writeArchive(path string, docs []documents.Document) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close archive: %w", closeErr)
		}
	}()
	return documents.WriteArchive(file, docs)
}

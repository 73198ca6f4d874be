package catalogimport

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/catalog/storage/sqlite"
	"github.com/louisbranch/gradpack/internal/docx"
)

func writeProfessions(t *testing.T) string {
	t.Helper()

	pkg := docx.New()
	table := pkg.AddTable(3, 2)
	rows := [][2]string{
		{"Тракторист", "19203"},
		{"Водитель погрузчика", "11453, 11442"},
		{"Оператор котельной", "-"},
	}
	for i, row := range rows {
		for j, text := range row {
			cell, err := table.Cell(i, j)
			if err != nil {
				t.Fatalf("Cell() error = %v", err)
			}
			cell.SetText(text)
		}
	}
	data, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "professions.docx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("catalog-importer", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !cfg.Teachers || cfg.DryRun || cfg.DBPath != "data/catalog.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigRequiresSomething(t *testing.T) {
	fs := flag.NewFlagSet("catalog-importer", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-teachers=false"}); err == nil {
		t.Fatal("expected error with nothing to import")
	}
}

func TestRunImportsProfessionsAndTeachers(t *testing.T) {
	t.Setenv("GRADPACK_OTEL_ENABLED", "false")

	dbPath := filepath.Join(t.TempDir(), "data", "catalog.db")
	var out bytes.Buffer
	err := Run(context.Background(), Config{DBPath: dbPath, Professions: writeProfessions(t), Teachers: true}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "imported 3 professions, 4 teachers") {
		t.Fatalf("output = %q", out.String())
	}

	store, err := sqlite.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	got, err := store.GetProfession(context.Background(), "Водитель погрузчика")
	if err != nil {
		t.Fatalf("GetProfession() error = %v", err)
	}
	want := catalog.Profession{Name: "Водитель погрузчика", Codes: []int{11442, 11453}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profession mismatch (-want +got):\n%s", diff)
	}
	teachers, err := store.ListTeachers(context.Background())
	if err != nil {
		t.Fatalf("ListTeachers() error = %v", err)
	}
	if diff := cmp.Diff(catalog.DefaultTeachers, teachers); diff != "" {
		t.Fatalf("teachers mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDryRunLeavesDatabaseAlone(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	var out bytes.Buffer
	if err := Run(context.Background(), Config{DBPath: dbPath, Professions: writeProfessions(t), DryRun: true}, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "dry run: 3 professions, 0 teachers\n" {
		t.Fatalf("output = %q", got)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("Stat() error = %v, want not exist", err)
	}
}

func TestRunReportsBrokenDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Run(context.Background(), Config{DBPath: filepath.Join(t.TempDir(), "c.db"), Professions: path}, nil); err == nil {
		t.Fatal("expected error")
	}
}

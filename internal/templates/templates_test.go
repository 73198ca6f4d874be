package templates

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/gradpack/internal/docx"
)

func TestBuiltinTemplatesOpen(t *testing.T) {
	t.Parallel()

	wantTables := map[string]int{
		StartOrder:         1,
		GraduationOrder:    1,
		Protocol:           1,
		Certificate:        1,
		TractorCertificate: 2,
		ConfirmationPage:   2,
		LabourProtection:   2,
	}
	src := NewBuiltin()
	for _, name := range Names() {
		pkg, err := src.Template(name)
		if err != nil {
			t.Fatalf("Template(%s) error = %v", name, err)
		}
		if got := len(pkg.Tables()); got != wantTables[name] {
			t.Fatalf("Template(%s) tables = %d, want %d", name, got, wantTables[name])
		}
	}
}

func TestBuiltinTemplatesAreIndependent(t *testing.T) {
	t.Parallel()

	src := NewBuiltin()
	first, err := src.Template(StartOrder)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if err := first.Render(map[string]any{"beginning_number": "7"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := src.Template(StartOrder)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := second.Paragraphs()[0].Text(); !strings.Contains(got, "{{ beginning_number }}") {
		t.Fatalf("second template text = %q, want untouched placeholder", got)
	}
}

func TestBuiltinCertificateCarriesBackground(t *testing.T) {
	t.Parallel()

	pkg, err := NewBuiltin().Template(Certificate)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	cell, err := pkg.Tables()[0].Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell() error = %v", err)
	}
	anchor := cell.Paragraphs()[0].Element().FindElement(".//wp:anchor")
	if anchor == nil {
		t.Fatal("expected background anchor in first paragraph")
	}
	if got := anchor.SelectAttrValue("behindDoc", ""); got != "1" {
		t.Fatalf("behindDoc = %q, want 1", got)
	}
}

func TestBuiltinLogoMarkers(t *testing.T) {
	t.Parallel()

	src := NewBuiltin()
	for _, name := range []string{TractorCertificate, ConfirmationPage, LabourProtection} {
		pkg, err := src.Template(name)
		if err != nil {
			t.Fatalf("Template(%s) error = %v", name, err)
		}
		data, err := pkg.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		reopened, err := docx.OpenBytes(data)
		if err != nil {
			t.Fatalf("OpenBytes(%s) error = %v", name, err)
		}
		part, _ := reopened.Part("word/document.xml")
		if !bytes.Contains(part, []byte("prof_educ_logo")) {
			t.Fatalf("%s: expected logo marker", name)
		}
	}
}

func TestBuiltinPictures(t *testing.T) {
	t.Parallel()

	wantSize := map[string][2]int{
		BlueTractorBackground:  {tractorBackgroundWidth, tractorBackgroundHeight},
		GreenTractorBackground: {tractorBackgroundWidth, tractorBackgroundHeight},
		CertificateBackground:  {certificateBackgroundWidth, certificateBackgroundHeight},
		EducationLogo:          {logoWidth, logoHeight},
	}
	src := NewBuiltin()
	for _, name := range PictureNames() {
		data, err := src.Picture(name)
		if err != nil {
			t.Fatalf("Picture(%s) error = %v", name, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("DecodeConfig(%s) error = %v", name, err)
		}
		if got := [2]int{cfg.Width, cfg.Height}; got != wantSize[name] {
			t.Fatalf("Picture(%s) size = %v, want %v", name, got, wantSize[name])
		}
	}
	blue, _ := src.Picture(BlueTractorBackground)
	green, _ := src.Picture(GreenTractorBackground)
	if bytes.Equal(blue, green) {
		t.Fatal("expected blue and green backgrounds to differ")
	}
}

func TestBuiltinUnknownNames(t *testing.T) {
	t.Parallel()

	src := NewBuiltin()
	if _, err := src.Template("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Template() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := src.Picture("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Picture() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := src.Template("../protocol"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Template() error = %v, want invalid name", err)
	}
}

func TestDirSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTemplate(t, root, Protocol, "Протокол офиса")
	writeFile(t, filepath.Join(root, "pictures", EducationLogo+".png"), []byte("logo"))

	dir := NewDir(root)
	pkg, err := dir.Template(Protocol)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := pkg.Paragraphs()[0].Text(); got != "Протокол офиса" {
		t.Fatalf("paragraph = %q, want Протокол офиса", got)
	}
	data, err := dir.Picture(EducationLogo)
	if err != nil {
		t.Fatalf("Picture() error = %v", err)
	}
	if string(data) != "logo" {
		t.Fatalf("Picture() = %q, want logo", data)
	}
	if _, err := dir.Template(StartOrder); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Template() missing error = %v, want %v", err, ErrNotFound)
	}
	if _, err := dir.Picture(CertificateBackground); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Picture() missing error = %v, want %v", err, ErrNotFound)
	}
}

func TestDirSourceReportsBrokenTemplate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "templates", Protocol+".docx"), []byte("not a zip"))
	_, err := NewDir(root).Template(Protocol)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Template() error = %v, want open error", err)
	}
}

func TestLayeredPrefersFirstSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTemplate(t, root, Protocol, "Протокол офиса")
	writeFile(t, filepath.Join(root, "pictures", EducationLogo+".png"), []byte("logo"))
	src := Layered{NewDir(root), NewBuiltin()}

	pkg, err := src.Template(Protocol)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := pkg.Paragraphs()[0].Text(); got != "Протокол офиса" {
		t.Fatalf("override paragraph = %q", got)
	}
	pkg, err = src.Template(StartOrder)
	if err != nil {
		t.Fatalf("Template() fallback error = %v", err)
	}
	if got := pkg.Paragraphs()[0].Text(); !strings.HasPrefix(got, "ПРИКАЗ") {
		t.Fatalf("fallback paragraph = %q", got)
	}
	if data, _ := src.Picture(EducationLogo); string(data) != "logo" {
		t.Fatalf("Picture() override = %q", data)
	}
	if _, err := src.Picture(GreenTractorBackground); err != nil {
		t.Fatalf("Picture() fallback error = %v", err)
	}
	if _, err := (Layered{nil, NewDir(root)}).Template(StartOrder); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Template() error = %v, want %v", err, ErrNotFound)
	}
}

func writeTemplate(t *testing.T, root, name, text string) {
	t.Helper()

	pkg := docx.New()
	pkg.AddParagraph(text)
	data, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	writeFile(t, filepath.Join(root, "templates", name+".docx"), data)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWithOverrides(t *testing.T) {
	t.Parallel()

	if _, ok := WithOverrides(" ").(*Builtin); !ok {
		t.Fatal("expected built-in source without a directory")
	}
	root := t.TempDir()
	writeTemplate(t, root, Protocol, "Протокол офиса")
	pkg, err := WithOverrides(root).Template(Protocol)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := pkg.Paragraphs()[0].Text(); got != "Протокол офиса" {
		t.Fatalf("paragraph = %q", got)
	}
}

package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/louisbranch/gradpack/internal/docx"
)

//go:embed builtin/*.xml
var builtinFS embed.FS

// Size the certificate background is drawn at.
var (
	CertificateBackgroundWidth  = docx.Inches(5.6)
	CertificateBackgroundHeight = docx.Inches(3.65)
)

// Builtin serves the templates and pictures bundled with the binary.
type Builtin struct {
	once     sync.Once
	pictures map[string][]byte
	err      error
}

// NewBuiltin returns the bundled source.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// Template implements Source.
func (b *Builtin) Template(name string) (*docx.Package, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := builtinFS.ReadFile("builtin/" + name + ".xml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: template %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	pkg, err := docx.NewFromDocument(data)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	if name == Certificate {
		if err := b.decorateCertificate(pkg); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

// decorateCertificate anchors the background behind the first certificate,
// as an office-made template carries it.
func (b *Builtin) decorateCertificate(pkg *docx.Package) error {
	background, err := b.Picture(CertificateBackground)
	if err != nil {
		return err
	}
	tables := pkg.Tables()
	if len(tables) == 0 {
		return fmt.Errorf("template %s: no table", Certificate)
	}
	cell, err := tables[0].Cell(0, 0)
	if err != nil {
		return fmt.Errorf("template %s: %w", Certificate, err)
	}
	paragraphs := cell.Paragraphs()
	if len(paragraphs) == 0 {
		return fmt.Errorf("template %s: empty cell", Certificate)
	}
	return paragraphs[0].AddFloatingPicture(CertificateBackground+".png", background, docx.FloatingPicture{
		Width:      CertificateBackgroundWidth,
		Height:     CertificateBackgroundHeight,
		BehindText: true,
	})
}

// Picture implements Source.
func (b *Builtin) Picture(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	b.once.Do(func() {
		b.pictures, b.err = drawPictures()
	})
	if b.err != nil {
		return nil, b.err
	}
	data, ok := b.pictures[name]
	if !ok {
		return nil, fmt.Errorf("%w: picture %q", ErrNotFound, name)
	}
	return bytes.Clone(data), nil
}

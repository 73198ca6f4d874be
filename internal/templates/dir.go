package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Dir reads templates from <root>/templates/<name>.docx and pictures from
// <root>/pictures/<name>.png.
type Dir struct {
	root string
}

// NewDir returns a directory source rooted at root.
func NewDir(root string) Dir {
	return Dir{root: root}
}

// Template implements Source.
func (d Dir) Template(name string) (*docx.Package, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, "templates", name+".docx")
	pkg, err := docx.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: template %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	return pkg, nil
}

// Picture implements Source.
func (d Dir) Picture(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, "pictures", name+".png")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: picture %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read picture %s: %w", path, err)
	}
	return data, nil
}

// Package templates supplies the Word templates and pictures used to build
// the document batch.
//
// The built-in source ships a body for every template and draws its pictures
// at startup, so the generator works without any files on disk. A directory
// source lets an office replace individual templates or pictures with their
// own; Layered combines the two.
package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Template names.
const (
	StartOrder         = "start_order"
	GraduationOrder    = "graduation_order"
	Protocol           = "protocol"
	Certificate        = "certificate"
	TractorCertificate = "certificate_tractor"
	ConfirmationPage   = "confirmation_page"
	LabourProtection   = "labour_protection"
)

// Picture names.
const (
	BlueTractorBackground  = "tractor-background-blue"
	GreenTractorBackground = "tractor-background-green"
	CertificateBackground  = "basic-cert-background"
	EducationLogo          = "professional-education-logo"
)

// ErrNotFound is returned when a source has no template or picture of the
// requested name.
var ErrNotFound = errors.New("templates: not found")

// Source opens templates and reads pictures by name. Every Template call
// returns a fresh package the caller may edit.
type Source interface {
	Template(name string) (*docx.Package, error)
	Picture(name string) ([]byte, error)
}

// Names lists every template the generator uses.
func Names() []string {
	return []string{
		StartOrder,
		GraduationOrder,
		Protocol,
		Certificate,
		TractorCertificate,
		ConfirmationPage,
		LabourProtection,
	}
}

// PictureNames lists every picture the generator uses.
func PictureNames() []string {
	return []string{
		BlueTractorBackground,
		GreenTractorBackground,
		CertificateBackground,
		EducationLogo,
	}
}

// validName rejects names that could escape a source directory.
func validName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("templates: name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("templates: invalid name %q", name)
	}
	return nil
}

// Layered tries each source in order and returns the first match. A source
// that reports ErrNotFound passes the lookup on to the next one.
type Layered []Source

// Template implements Source.
func (l Layered) Template(name string) (*docx.Package, error) {
	for _, src := range l {
		if src == nil {
			continue
		}
		pkg, err := src.Template(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return pkg, err
	}
	return nil, fmt.Errorf("%w: template %q", ErrNotFound, name)
}

// Picture implements Source.
func (l Layered) Picture(name string) ([]byte, error) {
	for _, src := range l {
		if src == nil {
			continue
		}
		data, err := src.Picture(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("%w: picture %q", ErrNotFound, name)
}

// WithOverrides returns the built-in source, overridden by dir when dir is
// set.
func WithOverrides(dir string) Source {
	if strings.TrimSpace(dir) == "" {
		return NewBuiltin()
	}
	return Layered{NewDir(dir), NewBuiltin()}
}

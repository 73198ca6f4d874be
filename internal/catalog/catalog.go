// Package catalog holds the reference lists picked on the generation form:
// training professions with their classifier codes and the instructors who
// sign the documents.
package catalog

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/gradpack/internal/ruformat"
)

var (
	// ErrNotFound indicates a requested catalog record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrInvalid indicates a record failed validation before storage.
	ErrInvalid = errors.New("invalid record")
)

// Profession is a training programme from the professions classifier.
type Profession struct {
	Name string
	// Codes are classifier codes, sorted and unique. Some professions have
	// none.
	Codes []int
	// Hours is the programme length; zero when unknown.
	Hours int
}

// Wording returns the profession as printed on documents:
// `19203 «Тракторист»`, or `«Name»` when the profession has no code.
func (p Profession) Wording() string {
	name := "«" + strings.TrimSpace(p.Name) + "»"
	if len(p.Codes) == 0 {
		return name
	}
	return strconv.Itoa(p.Codes[0]) + " " + name
}

// HoursText returns the programme length as printed, or "" when unknown.
func (p Profession) HoursText() string {
	if p.Hours <= 0 {
		return ""
	}
	return ruformat.Hours(p.Hours)
}

// CodesText joins the codes with ", ".
func (p Profession) CodesText() string {
	parts := make([]string, 0, len(p.Codes))
	for _, code := range p.Codes {
		parts = append(parts, strconv.Itoa(code))
	}
	return strings.Join(parts, ", ")
}

// Normalize trims the name and sorts and de-duplicates the codes.
func (p Profession) Normalize() Profession {
	p.Name = strings.TrimSpace(p.Name)
	codes := slices.Clone(p.Codes)
	slices.Sort(codes)
	p.Codes = slices.Compact(codes)
	return p
}

// Teacher is an instructor of a training group.
type Teacher struct {
	Name string
}

// DefaultTeachers seeds an empty catalog.
var DefaultTeachers = []Teacher{
	{Name: "А.И. Мамонтов"},
	{Name: "А.В. Перекрестов"},
	{Name: "Н.В. Клюшина"},
	{Name: "Л.А. Лапчук"},
}

// TractorProfession is printed on the green tractor-operator certificate
// whatever the group's own profession is.
var TractorProfession = Profession{Name: "Тракторист", Codes: []int{19203}}

// Store persists the catalog.
type Store interface {
	ListProfessions(ctx context.Context) ([]Profession, error)
	GetProfession(ctx context.Context, name string) (Profession, error)
	PutProfession(ctx context.Context, profession Profession) error
	DeleteProfession(ctx context.Context, name string) error
	ListTeachers(ctx context.Context) ([]Teacher, error)
	PutTeacher(ctx context.Context, teacher Teacher) error
	DeleteTeacher(ctx context.Context, name string) error
}

// Seed stores professions and teachers, replacing professions with the same
// name.
func Seed(ctx context.Context, store Store, professions []Profession, teachers []Teacher) error {
	for _, profession := range professions {
		if err := store.PutProfession(ctx, profession); err != nil {
			return err
		}
	}
	for _, teacher := range teachers {
		if err := store.PutTeacher(ctx, teacher); err != nil {
			return err
		}
	}
	return nil
}

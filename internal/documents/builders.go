package documents

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/gradpack/internal/assembly"
	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/docx"
	"github.com/louisbranch/gradpack/internal/roster"
	"github.com/louisbranch/gradpack/internal/templates"
)

// FontName is the default font of every generated document.
const FontName = "Times New Roman"

const (
	// gridColumns is the number of cards per row of a merged table.
	gridColumns = 2
	// frontAndBack is the number of tables a card template carries.
	frontAndBack = 2
)

var (
	FontSize      = docx.Pt(12)
	MergedMargins = docx.Inches(0.5)

	// Background sizes match the printed card stock.
	tractorWidth   = docx.Inches(8.04)
	tractorHeight  = docx.Inches(5.63)
	confirmWidth   = docx.Inches(7.85)
	confirmHeight  = docx.Inches(5.54)
	certificateBox = assembly.Picture{
		Width:  templates.CertificateBackgroundWidth,
		Height: templates.CertificateBackgroundHeight,
	}
)

// Builder renders each document kind from a template source.
type Builder struct {
	src templates.Source
}

// NewBuilder returns a builder reading from src.
func NewBuilder(src templates.Source) *Builder {
	return &Builder{src: src}
}

// StartOrder lists the enrolled students under the start order.
func (b *Builder) StartOrder(values Values, students []roster.Student) (*docx.Package, error) {
	rows := make([][]string, 0, len(students))
	for i, s := range students {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Name, values.String(KeyCompany)})
	}
	return b.listDocument(templates.StartOrder, values, rows)
}

// GraduationOrder lists the graduates with their certificate numbers.
func (b *Builder) GraduationOrder(values Values, students []roster.Student) (*docx.Package, error) {
	return b.listDocument(templates.GraduationOrder, values, graduateRows(values, students))
}

// Protocol lists the examined students with their certificate numbers.
func (b *Builder) Protocol(values Values, students []roster.Student) (*docx.Package, error) {
	return b.listDocument(templates.Protocol, values, graduateRows(values, students))
}

func graduateRows(values Values, students []roster.Student) [][]string {
	rows := make([][]string, 0, len(students))
	for i, s := range students {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			values.String(KeyCompany),
			strconv.Itoa(s.CertificateNumber),
		})
	}
	return rows
}

func (b *Builder) listDocument(name string, values Values, rows [][]string) (*docx.Package, error) {
	pkg, err := b.render(name, values)
	if err != nil {
		return nil, err
	}
	if err := pkg.SetDefaultFont(FontName, FontSize, false); err != nil {
		return nil, err
	}
	tables := pkg.Tables()
	if len(tables) == 0 {
		return nil, fmt.Errorf("template %s: no table", name)
	}
	assembly.AppendListRows(tables[0], rows)
	return pkg, nil
}

// Certificate stacks one certificate per student in the template table.
// The first student renders the template itself; every other student gets
// a new row with the certificate background.
func (b *Builder) Certificate(values Values, students []roster.Student) (*docx.Package, error) {
	if len(students) == 0 {
		return docx.New(), nil
	}
	sources := make([]*docx.Cell, 0, len(students)-1)
	for _, s := range students[1:] {
		pkg, err := b.render(templates.Certificate, values.ForStudent(s))
		if err != nil {
			return nil, err
		}
		cell, err := firstCell(pkg, templates.Certificate)
		if err != nil {
			return nil, err
		}
		sources = append(sources, cell)
	}

	final, err := b.render(templates.Certificate, values.ForStudent(students[0]))
	if err != nil {
		return nil, err
	}
	if err := final.SetDefaultFont(FontName, FontSize, true); err != nil {
		return nil, err
	}
	background, err := b.src.Picture(templates.CertificateBackground)
	if err != nil {
		return nil, err
	}
	picture := certificateBox
	picture.Name = templates.CertificateBackground + ".png"
	picture.Data = background
	tables := final.Tables()
	if len(tables) == 0 {
		return nil, fmt.Errorf("template %s: no table", templates.Certificate)
	}
	if err := assembly.AppendCertificateRows(tables[0], sources, picture); err != nil {
		return nil, err
	}
	return final, nil
}

func firstCell(pkg *docx.Package, name string) (*docx.Cell, error) {
	tables := pkg.Tables()
	if len(tables) == 0 {
		return nil, fmt.Errorf("template %s: no table", name)
	}
	return tables[0].Cell(0, 0)
}

// TractorCertificates returns the blue and the green tractor driver
// certificates. The green one always names the tractor driver profession.
func (b *Builder) TractorCertificates(values Values, students []roster.Student) (blue, green *docx.Package, err error) {
	blue, err = b.merged(templates.TractorCertificate, values, students, templates.BlueTractorBackground, tractorWidth, tractorHeight)
	if err != nil {
		return nil, nil, err
	}
	tractor := values.Clone()
	tractor[KeyProfession] = catalog.TractorProfession.Wording()
	green, err = b.merged(templates.TractorCertificate, tractor, students, templates.GreenTractorBackground, tractorWidth, tractorHeight)
	if err != nil {
		return nil, nil, err
	}
	return blue, green, nil
}

// ConfirmationPage merges the qualification certificate of every student
// over the green background.
func (b *Builder) ConfirmationPage(values Values, students []roster.Student) (*docx.Package, error) {
	return b.merged(templates.ConfirmationPage, values, students, templates.GreenTractorBackground, confirmWidth, confirmHeight)
}

// merged builds the two-table layout: the first template table of every
// student goes into the front table and the second into the back table,
// one student per row.
func (b *Builder) merged(name string, values Values, students []roster.Student, background string, width, height docx.Length) (*docx.Package, error) {
	if len(students) == 0 {
		return docx.New(), nil
	}
	pkg, err := newMergedDocument()
	if err != nil {
		return nil, err
	}
	logo, err := b.src.Picture(templates.EducationLogo)
	if err != nil {
		return nil, err
	}
	backgroundData, err := b.src.Picture(background)
	if err != nil {
		return nil, err
	}
	opts := assembly.MergeOptions{
		Logo: logo,
		Background: assembly.Picture{
			Name:   background + ".png",
			Data:   backgroundData,
			Width:  width,
			Height: height,
		},
	}

	merged := make([]*docx.Table, frontAndBack)
	cursors := make([]int, frontAndBack)
	for i := range merged {
		if i > 0 {
			pkg.AddParagraph("")
		}
		merged[i] = pkg.AddTable(len(students), gridColumns)
	}
	for n, s := range students {
		rendered, err := b.render(name, values.ForStudent(s))
		if err != nil {
			return nil, err
		}
		tables := rendered.Tables()
		if len(tables) < frontAndBack {
			return nil, fmt.Errorf("template %s: want %d tables, got %d", name, frontAndBack, len(tables))
		}
		for i := range merged {
			cursors[i], err = assembly.AppendRenderedTable(merged[i], tables[i], cursors[i], opts)
			if err != nil {
				return nil, fmt.Errorf("student %d: %w", n+1, err)
			}
		}
	}
	return pkg, nil
}

// LabourProtection lays the labour protection certificates out two per row,
// fronts in the first table and backs in the second.
func (b *Builder) LabourProtection(values Values, students []roster.Student) (*docx.Package, error) {
	if len(students) == 0 {
		return docx.New(), nil
	}
	pkg, err := newMergedDocument()
	if err != nil {
		return nil, err
	}
	logo, err := b.src.Picture(templates.EducationLogo)
	if err != nil {
		return nil, err
	}
	rows := assembly.GridRows(len(students), gridColumns)
	front := pkg.AddTable(rows, gridColumns)
	pkg.AddParagraph("")
	back := pkg.AddTable(rows, gridColumns)
	for n, s := range students {
		rendered, err := b.render(templates.LabourProtection, values.ForStudent(s))
		if err != nil {
			return nil, err
		}
		tables := rendered.Tables()
		if len(tables) < frontAndBack {
			return nil, fmt.Errorf("template %s: want %d tables, got %d", templates.LabourProtection, frontAndBack, len(tables))
		}
		row, col := assembly.GridPosition(n, gridColumns)
		if err := assembly.PlaceInGrid(front, row, col, tables[0], logo); err != nil {
			return nil, fmt.Errorf("student %d front: %w", n+1, err)
		}
		if err := assembly.PlaceInGrid(back, row, col, tables[1], logo); err != nil {
			return nil, fmt.Errorf("student %d back: %w", n+1, err)
		}
	}
	return pkg, nil
}

func newMergedDocument() (*docx.Package, error) {
	pkg := docx.New()
	pkg.SetPageMargins(MergedMargins)
	if err := pkg.SetDefaultFont(FontName, FontSize, false); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (b *Builder) render(name string, values Values) (*docx.Package, error) {
	pkg, err := b.src.Template(name)
	if err != nil {
		return nil, err
	}
	if err := pkg.Render(values); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return pkg, nil
}

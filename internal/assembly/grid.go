package assembly

import (
	"fmt"
	"strings"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Cell geometry of the two-column grid layout.
var (
	GridRowHeight = docx.Inches(2.76)
	GridCellWidth = docx.Inches(3.84)
)

// CopyCellContent copies the properties of src and the text of its non-blank
// paragraphs into target. Paragraph alignment and left indent are kept and
// spacing is removed; each run keeps its font name, size, bold, italic and
// underline. Runs containing LogoMarker become the logo picture.
func CopyCellContent(target, src *docx.Cell, logo []byte) error {
	target.ReplaceProperties(src.Properties())

	for i, paragraph := range src.Paragraphs() {
		if strings.TrimSpace(paragraph.Text()) == "" {
			continue
		}
		var p *docx.Paragraph
		if existing := target.Paragraphs(); i == 0 && len(existing) > 0 {
			p = existing[0]
		} else {
			p = target.AddParagraph()
		}
		p.SetSpacing(0, 0)
		p.SetAlignment(paragraph.Alignment())
		p.SetLeftIndent(paragraph.LeftIndent())

		for _, run := range paragraph.Runs() {
			text := run.Text()
			if strings.Contains(text, LogoMarker) {
				if len(logo) == 0 {
					return ErrMissingLogo
				}
				pictureRun := p.AddRun(strings.ReplaceAll(text, LogoMarker, ""))
				if err := pictureRun.AddInlinePicture(LogoName, logo, 0, 0); err != nil {
					return err
				}
				continue
			}
			p.AddRun(text).CopyFontFrom(run)
		}
	}
	return nil
}

// CopyNestedTable recreates the first table nested in src inside target,
// centred and with every nested cell copied by CopyCellContent. Cells
// without nested tables are left alone.
func CopyNestedTable(target, src *docx.Cell, logo []byte) error {
	tables := src.Tables()
	if len(tables) == 0 {
		return nil
	}
	if paragraphs := target.Paragraphs(); len(paragraphs) > 0 {
		paragraphs[len(paragraphs)-1].SetSpaceAfter(0)
	}

	nested := tables[0]
	rows := nested.Rows()
	cols := nested.ColumnCount()
	if cols == 0 {
		for _, row := range rows {
			cols = max(cols, len(row.Cells()))
		}
	}
	table := target.AddTable(len(rows), cols)
	table.SetAlignment(docx.AlignCenter)
	for r, row := range rows {
		for c, cell := range row.Cells() {
			if c >= cols {
				break
			}
			dst, err := table.Cell(r, c)
			if err != nil {
				return err
			}
			if err := CopyCellContent(dst, cell, logo); err != nil {
				return fmt.Errorf("nested cell %d,%d: %w", r, c, err)
			}
		}
	}
	return nil
}

// PlaceInGrid flattens every cell of src into the cell at (row, col) of
// grid. The grid row gets GridRowHeight and the cell GridCellWidth.
func PlaceInGrid(grid *docx.Table, row, col int, src *docx.Table, logo []byte) error {
	target, err := grid.Row(row)
	if err != nil {
		return err
	}
	cell, err := grid.Cell(row, col)
	if err != nil {
		return err
	}
	for _, srcRow := range src.Rows() {
		target.SetHeight(GridRowHeight)
		for _, srcCell := range srcRow.Cells() {
			if err := CopyCellContent(cell, srcCell, logo); err != nil {
				return err
			}
			if err := CopyNestedTable(cell, srcCell, logo); err != nil {
				return err
			}
		}
	}
	cell.SetWidth(GridCellWidth)
	return nil
}

// GridPosition returns the (row, col) of the n-th item in a grid with the
// given number of columns, filling rows left to right.
func GridPosition(n, cols int) (row, col int) {
	if cols <= 0 {
		return n, 0
	}
	return n / cols, n % cols
}

// GridRows returns how many rows a grid needs for n items.
func GridRows(n, cols int) int {
	if cols <= 0 {
		return n
	}
	return (n + cols - 1) / cols
}

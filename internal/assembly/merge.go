package assembly

import (
	"fmt"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Picture is an image with the size it is drawn at.
type Picture struct {
	Name   string
	Data   []byte
	Width  docx.Length
	Height docx.Length
}

// MergeOptions configures AppendRenderedTable.
type MergeOptions struct {
	// Background is anchored behind the text of every copied row.
	Background Picture
	// Logo replaces logo markers in copied runs.
	Logo []byte
}

// AppendRenderedTable copies every row of src into dst starting at row and
// returns the index of the next free row. Rows are appended to dst when it is
// too short. Source cells beyond the width of dst are dropped. When row is 0 the grid and properties of src replace those of
// dst, so the merged table takes the column widths and borders of the
// template.
func AppendRenderedTable(dst, src *docx.Table, row int, opts MergeOptions) (int, error) {
	if dst == nil || src == nil {
		return row, fmt.Errorf("append rendered table: nil table")
	}
	if row == 0 {
		dst.ReplaceProperty(src.Grid())
		dst.ReplaceProperty(src.Properties())
	}
	for _, srcRow := range src.Rows() {
		target := rowAt(dst, row)
		target.ReplaceProperties(srcRow.Properties())

		targetCells := target.Cells()
		for col, srcCell := range srcRow.Cells() {
			if col >= len(targetCells) {
				break
			}
			normalizeNestedTables(srcCell, srcRow.CantSplit())
			cell := targetCells[col]
			if cell.IsEmpty() {
				cell.Clear()
			}
			if err := cell.CopyContentFrom(srcCell); err != nil {
				return row, fmt.Errorf("copy row %d cell %d: %w", row, col, err)
			}
			ensureParagraph(cell)
		}
		for _, cell := range targetCells {
			if err := ReplaceMarkers(cell, opts.Logo); err != nil {
				return row, fmt.Errorf("row %d: %w", row, err)
			}
		}
		if len(opts.Background.Data) > 0 && len(targetCells) > 0 {
			p := targetCells[0].AddParagraph()
			err := p.AddFloatingPicture(opts.Background.Name, opts.Background.Data, docx.FloatingPicture{
				Width:      opts.Background.Width,
				Height:     opts.Background.Height,
				BehindText: true,
			})
			if err != nil {
				return row, fmt.Errorf("row %d background: %w", row, err)
			}
		}
		row++
	}
	return row, nil
}

// rowAt returns row index of t, appending rows until it exists. Appended
// rows take the cell count of the first row, not of the copied grid.
func rowAt(t *docx.Table, index int) *docx.Row {
	rows := t.Rows()
	width := 0
	if len(rows) > 0 {
		width = len(rows[0].Cells())
	}
	for len(rows) <= index {
		row := t.AddRow()
		if width > 0 {
			row.SetCellCount(width)
		}
		rows = append(rows, row)
	}
	return rows[index]
}

// normalizeNestedTables gives the tables nested in cell a fixed layout and
// propagates cantSplit of the enclosing row to their rows.
func normalizeNestedTables(cell *docx.Cell, cantSplit bool) {
	for _, table := range cell.Tables() {
		if table.Layout() == "" {
			table.SetFixedLayout()
		}
		for _, row := range table.Rows() {
			if cantSplit {
				row.SetCantSplit()
			}
			for _, nested := range row.Cells() {
				normalizeNestedTables(nested, cantSplit)
			}
		}
	}
}

// ensureParagraph adds the trailing paragraph a cell must end with.
func ensureParagraph(cell *docx.Cell) {
	children := cell.Element().ChildElements()
	if len(children) == 0 || children[len(children)-1].Tag != "p" {
		cell.AddParagraph()
	}
}

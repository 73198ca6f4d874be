package assembly

import (
	"fmt"

	"github.com/louisbranch/gradpack/internal/docx"
)

// AppendCertificateRows adds one row to table per source cell. Each row
// takes the properties of the template cell (0,0) and may not split across
// pages. Paragraphs of the source cell are copied run by run, pairing the
// rendered text with the formatting of the template paragraph at the same
// position. The background picture is anchored in the first paragraph.
func AppendCertificateRows(table *docx.Table, sources []*docx.Cell, background Picture) error {
	if len(sources) == 0 {
		return nil
	}
	template, err := table.Cell(0, 0)
	if err != nil {
		return fmt.Errorf("template cell: %w", err)
	}
	templateParagraphs := template.Paragraphs()

	for n, src := range sources {
		row := table.AddRow()
		row.SetCantSplit()
		cells := row.Cells()
		if len(cells) == 0 {
			return fmt.Errorf("certificate row %d has no cells", n)
		}
		target := cells[0]
		target.ReplaceProperties(template.Properties())

		for i, paragraph := range src.Paragraphs() {
			var p *docx.Paragraph
			if existing := target.Paragraphs(); i == 0 && len(existing) > 0 {
				p = existing[0]
			} else {
				p = target.AddParagraph()
			}
			if i == 0 && len(background.Data) > 0 {
				err := p.AddFloatingPicture(background.Name, background.Data, docx.FloatingPicture{
					Width:      background.Width,
					Height:     background.Height,
					BehindText: true,
				})
				if err != nil {
					return fmt.Errorf("certificate row %d background: %w", n, err)
				}
			}
			if i >= len(templateParagraphs) {
				for _, run := range paragraph.Runs() {
					p.AddRun(run.Text())
				}
				continue
			}
			format := templateParagraphs[i]
			p.SetAlignment(format.Alignment())
			p.SetLeftIndent(format.LeftIndent())
			formatRuns := format.Runs()
			for j, run := range paragraph.Runs() {
				if j >= len(formatRuns) {
					break
				}
				p.AddRun(run.Text()).CopyFontFrom(formatRuns[j])
			}
		}
	}
	return nil
}

// AppendListRows appends one row per entry with plain cell text. Values
// beyond the column count of the table are dropped.
func AppendListRows(table *docx.Table, rows [][]string) {
	for _, values := range rows {
		cells := table.AddRow().Cells()
		for i, value := range values {
			if i >= len(cells) {
				break
			}
			cells[i].SetText(value)
		}
	}
}

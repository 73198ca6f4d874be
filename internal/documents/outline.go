package documents

import (
	"strings"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Block is one previewable piece of a document: a paragraph of text or a
// table of cell texts.
type Block struct {
	Text string
	Rows [][]string
}

// IsTable reports whether the block is a table.
func (b Block) IsTable() bool {
	return b.Rows != nil
}

// Outline returns the paragraphs and tables of pkg in body order. Blank
// paragraphs are skipped.
func Outline(pkg *docx.Package) []Block {
	if pkg == nil {
		return nil
	}
	var blocks []Block
	for _, block := range pkg.Blocks() {
		switch block.Kind {
		case docx.BlockParagraph:
			text := strings.TrimSpace(block.Paragraph.Text())
			if text != "" {
				blocks = append(blocks, Block{Text: text})
			}
		case docx.BlockTable:
			rows := [][]string{}
			for _, row := range block.Table.Rows() {
				var cells []string
				for _, cell := range row.Cells() {
					cells = append(cells, strings.TrimSpace(cell.Text()))
				}
				rows = append(rows, cells)
			}
			blocks = append(blocks, Block{Rows: rows})
		}
	}
	return blocks
}

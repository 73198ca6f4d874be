package docx

import (
	"github.com/beevik/etree"
)

// BlockKind distinguishes body-level content.
type BlockKind int

const (
	BlockParagraph BlockKind = iota + 1
	BlockTable
)

// Block is one body-level element: a paragraph or a table.
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *Table
}

// Blocks returns the body paragraphs and tables in document order.
func (p *Package) Blocks() []Block {
	var blocks []Block
	for _, child := range p.Body().ChildElements() {
		switch {
		case isW(child, "p"):
			blocks = append(blocks, Block{Kind: BlockParagraph, Paragraph: newParagraph(p, child)})
		case isW(child, "tbl"):
			blocks = append(blocks, Block{Kind: BlockTable, Table: &Table{pkg: p, el: child}})
		}
	}
	return blocks
}

// Tables returns the body-level tables in document order.
func (p *Package) Tables() []*Table {
	var tables []*Table
	for _, el := range childrenW(p.Body(), "tbl") {
		tables = append(tables, &Table{pkg: p, el: el})
	}
	return tables
}

// Paragraphs returns the body-level paragraphs in document order.
func (p *Package) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range childrenW(p.Body(), "p") {
		out = append(out, newParagraph(p, el))
	}
	return out
}

// AddParagraph appends a paragraph before the section properties.
func (p *Package) AddParagraph(text string) *Paragraph {
	el := etree.NewElement(wTag("p"))
	p.appendToBody(el)
	para := newParagraph(p, el)
	if text != "" {
		para.AddRun(text)
	}
	return para
}

// AddTable appends a rows x cols table spanning the text width.
func (p *Package) AddTable(rows, cols int) *Table {
	table := buildTable(p, rows, cols, p.textWidth())
	p.appendToBody(table.el)
	return table
}

func (p *Package) appendToBody(el *etree.Element) {
	body := p.Body()
	if sectPr := childW(body, "sectPr"); sectPr != nil {
		body.InsertChildAt(sectPr.Index(), el)
		return
	}
	body.AddChild(el)
}

// textWidth is the page width minus left and right margins.
func (p *Package) textWidth() Length {
	sectPr := childW(p.Body(), "sectPr")
	pgSz := childW(sectPr, "pgSz")
	pgMar := childW(sectPr, "pgMar")
	width := Twips(atoiDefault(wAttr(pgSz, "w"), 11906))
	left := Twips(atoiDefault(wAttr(pgMar, "left"), 1701))
	right := Twips(atoiDefault(wAttr(pgMar, "right"), 850))
	if text := width - left - right; text > 0 {
		return text
	}
	return Inches(6)
}

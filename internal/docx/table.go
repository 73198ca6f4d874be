package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Table is a view over a w:tbl element.
type Table struct {
	pkg *Package
	el  *etree.Element
}

// Element returns the underlying w:tbl element.
func (t *Table) Element() *etree.Element {
	return t.el
}

// Package returns the package the table belongs to.
func (t *Table) Package() *Package {
	return t.pkg
}

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, el := range childrenW(t.el, "tr") {
		rows = append(rows, &Row{pkg: t.pkg, el: el})
	}
	return rows
}

// Row returns the row at index.
func (t *Table) Row(index int) (*Row, error) {
	rows := childrenW(t.el, "tr")
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", index, len(rows))
	}
	return &Row{pkg: t.pkg, el: rows[index]}, nil
}

// Cell returns the cell at (row, col). Horizontally merged cells count once.
func (t *Table) Cell(row, col int) (*Cell, error) {
	r, err := t.Row(row)
	if err != nil {
		return nil, err
	}
	cells := r.Cells()
	if col < 0 || col >= len(cells) {
		return nil, fmt.Errorf("cell %d out of range [0,%d) in row %d", col, len(cells), row)
	}
	return cells[col], nil
}

// ColumnCount returns the number of grid columns.
func (t *Table) ColumnCount() int {
	return len(childrenW(childW(t.el, "tblGrid"), "gridCol"))
}

// Grid returns the w:tblGrid element, creating it when missing.
func (t *Table) Grid() *etree.Element {
	return ensureChildW(t.el, "tblGrid", orderTbl)
}

// Properties returns the w:tblPr element, creating it when missing.
func (t *Table) Properties() *etree.Element {
	return ensureChildW(t.el, "tblPr", orderTbl)
}

// ReplaceProperty swaps the table-level element with the given local name
// (tblPr or tblGrid) for a deep copy of el.
func (t *Table) ReplaceProperty(el *etree.Element) {
	replaceChildW(t.el, el.Copy(), orderTbl)
}

// SetAlignment sets the horizontal alignment of the table on the page.
func (t *Table) SetAlignment(a Alignment) {
	jc := ensureChildW(t.Properties(), "jc", orderTblPr)
	setWAttr(jc, "val", string(a))
}

// SetStyle sets the table style id.
func (t *Table) SetStyle(styleID string) {
	style := ensureChildW(t.Properties(), "tblStyle", orderTblPr)
	setWAttr(style, "val", styleID)
}

// AddRow appends a row with one cell per grid column. Each cell takes the
// width of its grid column and holds one empty paragraph.
func (t *Table) AddRow() *Row {
	tr := t.el.CreateElement(wTag("tr"))
	gridCols := childrenW(childW(t.el, "tblGrid"), "gridCol")
	if len(gridCols) == 0 {
		gridCols = []*etree.Element{nil}
	}
	for _, gridCol := range gridCols {
		tc := tr.CreateElement(wTag("tc"))
		if width := wAttr(gridCol, "w"); width != "" {
			tcW := ensureChildW(ensureChildW(tc, "tcPr", orderTc), "tcW", orderTcPr)
			setWAttr(tcW, "w", width)
			setWAttr(tcW, "type", "dxa")
		}
		tc.CreateElement(wTag("p"))
	}
	return &Row{pkg: t.pkg, el: tr}
}

// Row is a view over a w:tr element.
type Row struct {
	pkg *Package
	el  *etree.Element
}

// Element returns the underlying w:tr element.
func (r *Row) Element() *etree.Element {
	return r.el
}

// Cells returns the row cells in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, el := range childrenW(r.el, "tc") {
		cells = append(cells, &Cell{pkg: r.pkg, el: el})
	}
	return cells
}

// Properties returns the w:trPr element, creating it when missing.
func (r *Row) Properties() *etree.Element {
	return ensureChildW(r.el, "trPr", orderTr)
}

// ReplaceProperties swaps w:trPr for a deep copy of trPr.
func (r *Row) ReplaceProperties(trPr *etree.Element) {
	replaceChildW(r.el, trPr.Copy(), orderTr)
}

// SetHeight sets the minimum row height.
func (r *Row) SetHeight(height Length) {
	trHeight := ensureChildW(r.Properties(), "trHeight", orderTrPr)
	setWAttr(trHeight, "val", height.twipsString())
}

// Height returns the explicit row height, or nil when auto.
func (r *Row) Height() *Length {
	value := wAttr(childW(childW(r.el, "trPr"), "trHeight"), "val")
	if value == "" {
		return nil
	}
	l := Twips(atoiDefault(value, 0))
	return &l
}

// SetCantSplit keeps the row on a single page.
func (r *Row) SetCantSplit() {
	ensureChildW(r.Properties(), "cantSplit", orderTrPr)
}

// CantSplit reports whether the row may not break across pages.
func (r *Row) CantSplit() bool {
	value := onOff(childW(childW(r.el, "trPr"), "cantSplit"))
	return value != nil && *value
}

// SetCellCount trims trailing cells or appends empty ones until the row
// has n cells.
func (r *Row) SetCellCount(n int) {
	cells := childrenW(r.el, "tc")
	for i := len(cells) - 1; i >= n && i >= 0; i-- {
		r.el.RemoveChild(cells[i])
	}
	for i := len(cells); i < n; i++ {
		r.el.CreateElement(wTag("tc")).CreateElement(wTag("p"))
	}
}

// Cell is a view over a w:tc element.
type Cell struct {
	pkg *Package
	el  *etree.Element
}

// Element returns the underlying w:tc element.
func (c *Cell) Element() *etree.Element {
	return c.el
}

// Paragraphs returns the direct paragraphs of the cell.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range childrenW(c.el, "p") {
		out = append(out, newParagraph(c.pkg, el))
	}
	return out
}

// Tables returns the tables nested directly in the cell.
func (c *Cell) Tables() []*Table {
	var out []*Table
	for _, el := range childrenW(c.el, "tbl") {
		out = append(out, &Table{pkg: c.pkg, el: el})
	}
	return out
}

// Text joins the text of the cell paragraphs with newlines.
func (c *Cell) Text() string {
	var lines []string
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the cell content with a single paragraph holding text.
func (c *Cell) SetText(text string) {
	for _, child := range c.el.ChildElements() {
		if isW(child, "tcPr") {
			continue
		}
		c.el.RemoveChild(child)
	}
	p := newParagraph(c.pkg, c.el.CreateElement(wTag("p")))
	if text != "" {
		p.AddRun(text)
	}
}

// AddParagraph appends an empty paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	return newParagraph(c.pkg, c.el.CreateElement(wTag("p")))
}

// AddTable appends a rows x cols table to the cell, followed by the empty
// paragraph a cell must end with.
func (c *Cell) AddTable(rows, cols int) *Table {
	width := c.Width()
	if width <= 0 {
		width = Inches(3)
	}
	tbl := buildTable(c.pkg, rows, cols, width)
	c.el.AddChild(tbl.el)
	c.el.CreateElement(wTag("p"))
	return tbl
}

// Properties returns the w:tcPr element, creating it when missing.
func (c *Cell) Properties() *etree.Element {
	return ensureChildW(c.el, "tcPr", orderTc)
}

// ReplaceProperties swaps w:tcPr for a deep copy of tcPr; nil removes it.
func (c *Cell) ReplaceProperties(tcPr *etree.Element) {
	if tcPr == nil {
		removeChildrenW(c.el, "tcPr")
		return
	}
	replaceChildW(c.el, tcPr.Copy(), orderTc)
}

// SetWidth sets the preferred cell width.
func (c *Cell) SetWidth(width Length) {
	tcW := ensureChildW(c.Properties(), "tcW", orderTcPr)
	setWAttr(tcW, "w", width.twipsString())
	setWAttr(tcW, "type", "dxa")
}

// Width returns the preferred width in dxa, or 0 when unset.
func (c *Cell) Width() Length {
	tcW := childW(childW(c.el, "tcPr"), "tcW")
	if tcW == nil || (wAttr(tcW, "type") != "dxa" && wAttr(tcW, "type") != "") {
		return 0
	}
	return Twips(atoiDefault(wAttr(tcW, "w"), 0))
}

// buildTable creates a detached rows x cols table of the given total width
// with the Table Grid style.
func buildTable(pkg *Package, rows, cols int, width Length) *Table {
	tbl := etree.NewElement(wTag("tbl"))
	tblPr := tbl.CreateElement(wTag("tblPr"))
	setWAttr(tblPr.CreateElement(wTag("tblStyle")), "val", "TableGrid")
	tblW := tblPr.CreateElement(wTag("tblW"))
	setWAttr(tblW, "w", "0")
	setWAttr(tblW, "type", "auto")
	look := tblPr.CreateElement(wTag("tblLook"))
	setWAttr(look, "val", "04A0")

	grid := tbl.CreateElement(wTag("tblGrid"))
	colWidth := Length(0)
	if cols > 0 {
		colWidth = width / Length(cols)
	}
	for i := 0; i < cols; i++ {
		setWAttr(grid.CreateElement(wTag("gridCol")), "w", strconv.FormatInt(colWidth.Twips(), 10))
	}
	table := &Table{pkg: pkg, el: tbl}
	for i := 0; i < rows; i++ {
		table.AddRow()
	}
	return table
}

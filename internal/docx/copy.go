package docx

import "github.com/beevik/etree"

// CopyContentFrom appends deep copies of the src cell children to c. The
// w:tcPr of src replaces the one of c, so the cell keeps a single property
// block. References to media in the source package are imported.
func (c *Cell) CopyContentFrom(src *Cell) error {
	for _, child := range src.el.ChildElements() {
		if isW(child, "tcPr") {
			c.ReplaceProperties(child)
			continue
		}
		copied := child.Copy()
		c.el.AddChild(copied)
		if err := c.pkg.ImportRelationships(src.pkg, copied); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every child of the cell except its properties. The cell is
// left without paragraphs; callers must add content before saving.
func (c *Cell) Clear() {
	for _, child := range c.el.ChildElements() {
		if !isW(child, "tcPr") {
			c.el.RemoveChild(child)
		}
	}
}

// IsEmpty reports whether the cell holds nothing but blank paragraphs.
func (c *Cell) IsEmpty() bool {
	for _, child := range c.el.ChildElements() {
		switch {
		case isW(child, "tcPr"):
		case isW(child, "p"):
			if len(paragraphTextElements(child)) > 0 || child.FindElement(".//w:drawing") != nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Runs returns every run in the cell, including runs of nested tables.
func (c *Cell) Runs() []*Run {
	var runs []*Run
	walk(c.el, func(el *etree.Element) {
		if isW(el, "r") {
			runs = append(runs, &Run{pkg: c.pkg, el: el})
		}
	})
	return runs
}

// Layout returns the table layout type ("fixed" or "autofit"), or "" when
// unset.
func (t *Table) Layout() string {
	return wAttr(childW(childW(t.el, "tblPr"), "tblLayout"), "type")
}

// SetFixedLayout stops Word from resizing the columns to their content.
func (t *Table) SetFixedLayout() {
	layout := ensureChildW(t.Properties(), "tblLayout", orderTblPr)
	setWAttr(layout, "type", "fixed")
}

// Package returns the package the cell belongs to.
func (c *Cell) Package() *Package {
	return c.pkg
}

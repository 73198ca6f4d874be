package docx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// SetDefaultFont sets the run properties of the Normal paragraph style.
func (p *Package) SetDefaultFont(name string, size Length, bold bool) error {
	if p.styles == nil {
		return fmt.Errorf("package has no styles part")
	}
	normal := p.normalStyle()
	rPr := ensureChildW(normal, "rPr", orderStyle)
	fonts := ensureChildW(rPr, "rFonts", orderRPr)
	for _, slot := range []string{"ascii", "hAnsi", "cs", "eastAsia"} {
		setWAttr(fonts, slot, name)
	}
	fonts.RemoveAttr(wTag("asciiTheme"))
	fonts.RemoveAttr(wTag("hAnsiTheme"))
	half := strconv.FormatInt(size.HalfPoints(), 10)
	setWAttr(ensureChildW(rPr, "sz", orderRPr), "val", half)
	setWAttr(ensureChildW(rPr, "szCs", orderRPr), "val", half)
	if bold {
		ensureChildW(rPr, "b", orderRPr)
	}
	return nil
}

// DefaultFont returns the font name and size of the Normal style.
func (p *Package) DefaultFont() (string, *Length) {
	if p.styles == nil {
		return "", nil
	}
	rPr := childW(p.normalStyle(), "rPr")
	name := wAttr(childW(rPr, "rFonts"), "ascii")
	value := wAttr(childW(rPr, "sz"), "val")
	if value == "" {
		return name, nil
	}
	size := Pt(float64(atoiDefault(value, 0)) / 2)
	return name, &size
}

func (p *Package) normalStyle() *etree.Element {
	root := p.styles.Root()
	for _, style := range childrenW(root, "style") {
		if wAttr(style, "type") == "paragraph" && wAttr(style, "styleId") == "Normal" {
			return style
		}
	}
	for _, style := range childrenW(root, "style") {
		if wAttr(style, "type") == "paragraph" && wAttr(style, "default") == "1" {
			return style
		}
	}
	style := root.CreateElement(wTag("style"))
	setWAttr(style, "type", "paragraph")
	setWAttr(style, "default", "1")
	setWAttr(style, "styleId", "Normal")
	setWAttr(style.CreateElement(wTag("name")), "val", "Normal")
	return style
}

// SetPageMargins sets all four page margins of the final section.
func (p *Package) SetPageMargins(margin Length) {
	body := p.Body()
	sectPr := childW(body, "sectPr")
	if sectPr == nil {
		sectPr = body.CreateElement(wTag("sectPr"))
	}
	pgMar := childW(sectPr, "pgMar")
	if pgMar == nil {
		pgMar = etree.NewElement(wTag("pgMar"))
		if pgSz := childW(sectPr, "pgSz"); pgSz != nil {
			sectPr.InsertChildAt(pgSz.Index()+1, pgMar)
		} else {
			sectPr.InsertChildAt(0, pgMar)
		}
	}
	value := margin.twipsString()
	for _, side := range []string{"top", "right", "bottom", "left"} {
		setWAttr(pgMar, side, value)
	}
}

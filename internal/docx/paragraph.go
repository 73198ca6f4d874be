package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph justification value (w:jc).
type Alignment string

const (
	AlignInherit Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignBoth    Alignment = "both"
)

// Paragraph is a view over a w:p element.
type Paragraph struct {
	pkg *Package
	el  *etree.Element
}

func newParagraph(pkg *Package, el *etree.Element) *Paragraph {
	return &Paragraph{pkg: pkg, el: el}
}

// Element returns the underlying w:p element.
func (p *Paragraph) Element() *etree.Element {
	return p.el
}

// Runs returns the direct w:r children.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, el := range childrenW(p.el, "r") {
		runs = append(runs, &Run{pkg: p.pkg, el: el})
	}
	return runs
}

// Text concatenates the text of the paragraph runs, including runs nested in
// hyperlinks and smart tags.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, t := range paragraphTextElements(p.el) {
		b.WriteString(t.Text())
	}
	return b.String()
}

// AddRun appends a run holding text.
func (p *Paragraph) AddRun(text string) *Run {
	el := p.el.CreateElement(wTag("r"))
	run := &Run{pkg: p.pkg, el: el}
	if text != "" {
		run.SetText(text)
	}
	return run
}

func (p *Paragraph) properties() *etree.Element {
	return ensureChildW(p.el, "pPr", orderP)
}

// Alignment returns the explicit justification, or AlignInherit.
func (p *Paragraph) Alignment() Alignment {
	return Alignment(wAttr(childW(childW(p.el, "pPr"), "jc"), "val"))
}

// SetAlignment sets or clears the justification.
func (p *Paragraph) SetAlignment(a Alignment) {
	if a == AlignInherit {
		removeChildrenW(childW(p.el, "pPr"), "jc")
		return
	}
	jc := ensureChildW(p.properties(), "jc", orderPPr)
	setWAttr(jc, "val", string(a))
}

// LeftIndent returns the explicit left indent, or nil when inherited.
func (p *Paragraph) LeftIndent() *Length {
	ind := childW(childW(p.el, "pPr"), "ind")
	if ind == nil {
		return nil
	}
	value := wAttr(ind, "left")
	if value == "" {
		value = wAttr(ind, "start")
	}
	if value == "" {
		return nil
	}
	l := Twips(atoiDefault(value, 0))
	return &l
}

// SetLeftIndent sets the left indent; nil removes it.
func (p *Paragraph) SetLeftIndent(l *Length) {
	if l == nil {
		if ind := childW(childW(p.el, "pPr"), "ind"); ind != nil {
			ind.RemoveAttr(wTag("left"))
			ind.RemoveAttr(wTag("start"))
		}
		return
	}
	ind := ensureChildW(p.properties(), "ind", orderPPr)
	setWAttr(ind, "left", l.twipsString())
}

// SetSpacing sets the space before and after the paragraph.
func (p *Paragraph) SetSpacing(before, after Length) {
	spacing := ensureChildW(p.properties(), "spacing", orderPPr)
	setWAttr(spacing, "before", before.twipsString())
	setWAttr(spacing, "after", after.twipsString())
}

// SetSpaceAfter sets only the space after the paragraph.
func (p *Paragraph) SetSpaceAfter(after Length) {
	spacing := ensureChildW(p.properties(), "spacing", orderPPr)
	setWAttr(spacing, "after", after.twipsString())
}

// SpaceAfter returns the explicit space after, or nil when inherited.
func (p *Paragraph) SpaceAfter() *Length {
	spacing := childW(childW(p.el, "pPr"), "spacing")
	value := wAttr(spacing, "after")
	if value == "" {
		return nil
	}
	l := Twips(atoiDefault(value, 0))
	return &l
}

// paragraphTextElements returns the w:t elements belonging to p, skipping
// paragraphs nested inside text boxes.
func paragraphTextElements(p *etree.Element) []*etree.Element {
	var out []*etree.Element
	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			switch {
			case isW(child, "p"), isW(child, "txbxContent"), isW(child, "pPr"), isW(child, "rPr"):
				continue
			case isW(child, "t"):
				out = append(out, child)
			default:
				visit(child)
			}
		}
	}
	visit(p)
	return out
}

// Run is a view over a w:r element.
type Run struct {
	pkg *Package
	el  *etree.Element
}

// Element returns the underlying w:r element.
func (r *Run) Element() *etree.Element {
	return r.el
}

// Text returns the run text; tabs and breaks are rendered as \t and \n.
func (r *Run) Text() string {
	var b strings.Builder
	for _, child := range r.el.ChildElements() {
		switch {
		case isW(child, "t"):
			b.WriteString(child.Text())
		case isW(child, "tab"):
			b.WriteByte('\t')
		case isW(child, "br"), isW(child, "cr"):
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SetText replaces the run content (keeping w:rPr) with text. \t becomes
// w:tab and \n becomes w:br, the inverse of Text.
func (r *Run) SetText(text string) {
	for _, child := range r.el.ChildElements() {
		if isW(child, "rPr") {
			continue
		}
		r.el.RemoveChild(child)
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.el.CreateElement(wTag("br"))
		}
		for j, segment := range strings.Split(line, "\t") {
			if j > 0 {
				r.el.CreateElement(wTag("tab"))
			}
			if segment != "" {
				setTextElement(r.el.CreateElement(wTag("t")), segment)
			}
		}
	}
}

func setTextElement(t *etree.Element, text string) {
	t.SetText(text)
	if text != strings.TrimSpace(text) {
		t.CreateAttr("xml:space", "preserve")
	} else {
		t.RemoveAttr("xml:space")
	}
}

func (r *Run) properties() *etree.Element {
	return ensureChildW(r.el, "rPr", orderR)
}

// FontName returns the ASCII font of the run, or "" when inherited.
func (r *Run) FontName() string {
	return wAttr(childW(childW(r.el, "rPr"), "rFonts"), "ascii")
}

// SetFontName sets every script slot of w:rFonts to name.
func (r *Run) SetFontName(name string) {
	fonts := ensureChildW(r.properties(), "rFonts", orderRPr)
	for _, slot := range []string{"ascii", "hAnsi", "cs", "eastAsia"} {
		setWAttr(fonts, slot, name)
	}
}

// FontSize returns the explicit font size, or nil when inherited.
func (r *Run) FontSize() *Length {
	value := wAttr(childW(childW(r.el, "rPr"), "sz"), "val")
	if value == "" {
		return nil
	}
	l := Pt(float64(atoiDefault(value, 0)) / 2)
	return &l
}

// SetFontSize sets the font size for complex and simple scripts.
func (r *Run) SetFontSize(size Length) {
	half := strconv.FormatInt(size.HalfPoints(), 10)
	setWAttr(ensureChildW(r.properties(), "sz", orderRPr), "val", half)
	setWAttr(ensureChildW(r.properties(), "szCs", orderRPr), "val", half)
}

// Bold returns the explicit bold toggle, or nil when inherited.
func (r *Run) Bold() *bool {
	return onOff(childW(childW(r.el, "rPr"), "b"))
}

// SetBold sets the bold toggle.
func (r *Run) SetBold(on bool) {
	setToggle(r.properties(), "b", on)
}

// Italic returns the explicit italic toggle, or nil when inherited.
func (r *Run) Italic() *bool {
	return onOff(childW(childW(r.el, "rPr"), "i"))
}

// SetItalic sets the italic toggle.
func (r *Run) SetItalic(on bool) {
	setToggle(r.properties(), "i", on)
}

// Underline returns the underline style, "" when inherited.
func (r *Run) Underline() string {
	return wAttr(childW(childW(r.el, "rPr"), "u"), "val")
}

// fontProperties lists the run properties carried by CopyFontFrom.
var fontProperties = []string{"rFonts", "sz", "szCs", "b", "bCs", "i", "iCs", "u"}

// CopyFontFrom replaces the font name, size, bold, italic and underline
// properties of r with those of src. Properties src inherits are removed
// from r so both runs inherit the same values.
func (r *Run) CopyFontFrom(src *Run) {
	srcProps := childW(src.el, "rPr")
	props := r.properties()
	for _, local := range fontProperties {
		removeChildrenW(props, local)
		if from := childW(srcProps, local); from != nil {
			insertInOrder(props, from.Copy(), orderRPr)
		}
	}
	if len(props.ChildElements()) == 0 {
		r.el.RemoveChild(props)
	}
}

func setToggle(props *etree.Element, local string, on bool) {
	el := ensureChildW(props, local, orderRPr)
	if on {
		el.RemoveAttr(wTag("val"))
		return
	}
	setWAttr(el, "val", "0")
}

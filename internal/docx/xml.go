package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// XML namespaces used by WordprocessingML parts.
const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	namespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	namespaceContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
)

var documentNamespaces = map[string]string{
	"w":   NamespaceW,
	"r":   NamespaceR,
	"wp":  NamespaceWP,
	"a":   NamespaceA,
	"pic": NamespacePic,
}

// Child element orders from the WordprocessingML schema. Only the elements
// this package writes need to be listed; unknown siblings keep their place.
var (
	orderPPr = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl",
		"numPr", "suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens",
		"kinsoku", "wordWrap", "overflowPunct", "topLinePunct", "autoSpaceDE", "autoSpaceDN",
		"bidi", "adjustRightInd", "snapToGrid", "spacing", "ind", "contextualSpacing",
		"mirrorIndents", "suppressOverlap", "jc", "textDirection", "textAlignment",
		"textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr", "sectPr", "pPrChange",
	}
	orderRPr = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike", "dstrike",
		"outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid", "vanish",
		"webHidden", "color", "spacing", "w", "kern", "position", "sz", "szCs", "highlight",
		"u", "effect", "bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang",
		"eastAsianLayout", "specVanish", "oMath",
	}
	orderTrPr = []string{
		"cnfStyle", "divId", "gridBefore", "gridAfter", "wBefore", "wAfter", "cantSplit",
		"trHeight", "tblHeader", "tblCellSpacing", "jc", "hidden", "ins", "del", "trPrChange",
	}
	orderTcPr = []string{
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd", "noWrap",
		"tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
	}
	orderTblPr = []string{
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual", "tblStyleRowBandSize",
		"tblStyleColBandSize", "tblW", "jc", "tblCellSpacing", "tblInd", "tblBorders",
		"shd", "tblLayout", "tblCellMar", "tblLook",
	}
	orderTbl   = []string{"tblPr", "tblGrid"}
	orderTr    = []string{"tblPrEx", "trPr"}
	orderTc    = []string{"tcPr"}
	orderP     = []string{"pPr"}
	orderR     = []string{"rPr"}
	orderStyle = []string{"name", "aliases", "basedOn", "next", "link", "autoRedefine", "hidden", "uiPriority", "semiHidden", "unhideWhenUsed", "qFormat", "locked", "personal", "personalCompose", "personalReply", "rsid", "pPr", "rPr", "tblPr", "trPr", "tcPr", "tblStylePr"}
)

// wTag returns the prefixed tag name of a w: element.
func wTag(local string) string {
	return "w:" + local
}

// isW reports whether el is the w: element with the given local name.
func isW(el *etree.Element, local string) bool {
	return el != nil && el.Space == "w" && el.Tag == local
}

// childW returns the first w: child with the given local name.
func childW(parent *etree.Element, local string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, child := range parent.ChildElements() {
		if isW(child, local) {
			return child
		}
	}
	return nil
}

// childrenW returns every w: child with the given local name.
func childrenW(parent *etree.Element, local string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if isW(child, local) {
			out = append(out, child)
		}
	}
	return out
}

// ensureChildW returns the w: child with the given local name, creating it in
// schema order when missing.
func ensureChildW(parent *etree.Element, local string, order []string) *etree.Element {
	if existing := childW(parent, local); existing != nil {
		return existing
	}
	child := etree.NewElement(wTag(local))
	insertInOrder(parent, child, order)
	return child
}

// replaceChildW removes any w: child with the same local name as child and
// inserts child in schema order.
func replaceChildW(parent *etree.Element, child *etree.Element, order []string) {
	for _, existing := range childrenW(parent, child.Tag) {
		parent.RemoveChild(existing)
	}
	insertInOrder(parent, child, order)
}

// removeChildrenW drops every w: child with the given local name.
func removeChildrenW(parent *etree.Element, local string) {
	for _, existing := range childrenW(parent, local) {
		parent.RemoveChild(existing)
	}
}

// insertInOrder places child before the first sibling that sorts after it in
// order. Children missing from order are appended.
func insertInOrder(parent *etree.Element, child *etree.Element, order []string) {
	rank := orderIndex(order, child.Tag)
	if rank < 0 {
		parent.AddChild(child)
		return
	}
	for _, sibling := range parent.ChildElements() {
		siblingRank := orderIndex(order, sibling.Tag)
		if sibling.Space == "w" && (siblingRank > rank || siblingRank < 0) {
			parent.InsertChildAt(sibling.Index(), child)
			return
		}
	}
	parent.AddChild(child)
}

func orderIndex(order []string, local string) int {
	for i, name := range order {
		if name == local {
			return i
		}
	}
	return -1
}

// wAttr reads a w: attribute.
func wAttr(el *etree.Element, local string) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(wTag(local), "")
}

// setWAttr writes a w: attribute.
func setWAttr(el *etree.Element, local, value string) {
	el.CreateAttr(wTag(local), value)
}

// onOff reads a boolean toggle element such as w:b. Nil means the property is
// inherited from the style.
func onOff(el *etree.Element) *bool {
	if el == nil {
		return nil
	}
	value := true
	switch strings.ToLower(wAttr(el, "val")) {
	case "0", "false", "off":
		value = false
	}
	return &value
}

func atoiDefault(value string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// walk visits el and all of its descendant elements depth first.
func walk(el *etree.Element, visit func(*etree.Element)) {
	if el == nil {
		return
	}
	visit(el)
	for _, child := range el.ChildElements() {
		walk(child, visit)
	}
}

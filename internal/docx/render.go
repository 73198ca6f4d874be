package docx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// placeholderPattern matches {{ name }} placeholders.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render substitutes {{ name }} placeholders in the main document, headers
// and footers. Word often splits a placeholder over several runs; the
// rendered value is written into the run holding the opening braces and the
// remaining pieces are removed. Names missing from values render as empty
// text.
func (p *Package) Render(values map[string]any) error {
	renderTree(p.document.Root(), values)
	for _, name := range p.names {
		if !isHeaderFooterPart(name) {
			continue
		}
		doc, err := parseXML(p.parts[name])
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		renderTree(doc.Root(), values)
		data, err := doc.WriteToBytes()
		if err != nil {
			return fmt.Errorf("serialise %s: %w", name, err)
		}
		p.setPart(name, data)
	}
	return nil
}

// RenderElement substitutes placeholders inside a single element tree.
func RenderElement(el *etree.Element, values map[string]any) {
	renderTree(el, values)
}

func isHeaderFooterPart(name string) bool {
	base := strings.TrimPrefix(name, "word/")
	if strings.Contains(base, "/") || !strings.HasSuffix(base, ".xml") {
		return false
	}
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

func renderTree(root *etree.Element, values map[string]any) {
	walk(root, func(el *etree.Element) {
		if isW(el, "p") {
			renderParagraph(el, values)
		}
	})
}

type textSegment struct {
	el         *etree.Element
	start, end int
}

func renderParagraph(p *etree.Element, values map[string]any) {
	texts := paragraphTextElements(p)
	if len(texts) == 0 {
		return
	}
	var full strings.Builder
	segments := make([]textSegment, 0, len(texts))
	for _, t := range texts {
		start := full.Len()
		full.WriteString(t.Text())
		segments = append(segments, textSegment{el: t, start: start, end: full.Len()})
	}
	text := full.String()
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return
	}
	for _, seg := range segments {
		var b strings.Builder
		pos := seg.start
		changed := false
		for _, m := range matches {
			matchStart, matchEnd := m[0], m[1]
			if matchEnd <= seg.start || matchStart >= seg.end {
				continue
			}
			changed = true
			if matchStart > pos {
				b.WriteString(text[pos:matchStart])
			}
			if matchStart >= seg.start {
				b.WriteString(lookupValue(values, text[m[2]:m[3]]))
			}
			pos = min(matchEnd, seg.end)
		}
		if !changed {
			continue
		}
		if pos < seg.end {
			b.WriteString(text[pos:seg.end])
		}
		setTextElement(seg.el, b.String())
	}
}

func lookupValue(values map[string]any, name string) string {
	value, ok := values[name]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

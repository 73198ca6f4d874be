package docx

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"
	defaultMainPart  = "word/document.xml"
)

// ErrNotWordDocument reports a ZIP container without a main document part.
var ErrNotWordDocument = errors.New("package has no main document part")

//go:embed skeleton/*
var skeletonFS embed.FS

var skeletonParts = []struct {
	name string
	file string
}{
	{name: contentTypesPart, file: "skeleton/content_types.xml"},
	{name: packageRelsPart, file: "skeleton/package.rels"},
	{name: "word/document.xml", file: "skeleton/document.xml"},
	{name: "word/_rels/document.xml.rels", file: "skeleton/document.xml.rels"},
	{name: "word/styles.xml", file: "skeleton/styles.xml"},
	{name: "word/settings.xml", file: "skeleton/settings.xml"},
}

// Package is an opened WordprocessingML package.
type Package struct {
	names []string
	parts map[string][]byte

	mainPart string
	document *etree.Document
	rels     *etree.Document
	types    *etree.Document
	styles   *etree.Document

	nextDrawingID int
	images        map[string]string
}

// Open reads a .docx container.
func Open(r io.ReaderAt, size int64) (*Package, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip container: %w", err)
	}
	pkg := &Package{parts: map[string][]byte{}}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(file)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", file.Name, err)
		}
		pkg.setPart(file.Name, data)
	}
	if err := pkg.load(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// OpenBytes reads a .docx container held in memory.
func OpenBytes(data []byte) (*Package, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

// OpenFile reads a .docx file from disk.
func OpenFile(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	pkg, err := OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	return pkg, nil
}

// New returns an empty document with A4 pages and a Normal style.
func New() *Package {
	pkg, err := newSkeleton(nil)
	if err != nil {
		panic(fmt.Sprintf("docx skeleton: %v", err))
	}
	return pkg
}

// NewFromDocument returns a package built from the blank skeleton with the
// supplied main document XML.
func NewFromDocument(documentXML []byte) (*Package, error) {
	if len(bytes.TrimSpace(documentXML)) == 0 {
		return nil, fmt.Errorf("document xml is required")
	}
	return newSkeleton(documentXML)
}

func newSkeleton(documentXML []byte) (*Package, error) {
	pkg := &Package{parts: map[string][]byte{}}
	for _, part := range skeletonParts {
		data, err := skeletonFS.ReadFile(part.file)
		if err != nil {
			return nil, err
		}
		if part.name == defaultMainPart && documentXML != nil {
			data = documentXML
		}
		pkg.setPart(part.name, data)
	}
	if err := pkg.load(); err != nil {
		return nil, err
	}
	return pkg, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) setPart(name string, data []byte) {
	name = strings.TrimPrefix(name, "/")
	if _, exists := p.parts[name]; !exists {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

func (p *Package) load() error {
	types, err := parseXML(p.parts[contentTypesPart])
	if err != nil {
		return fmt.Errorf("parse content types: %w", err)
	}
	p.types = types

	p.mainPart = defaultMainPart
	if packageRels, err := parseXML(p.parts[packageRelsPart]); err == nil {
		for _, rel := range packageRels.Root().SelectElements("Relationship") {
			if rel.SelectAttrValue("Type", "") == relTypeOfficeDocument {
				p.mainPart = strings.TrimPrefix(rel.SelectAttrValue("Target", defaultMainPart), "/")
			}
		}
	}
	if _, ok := p.parts[p.mainPart]; !ok {
		return ErrNotWordDocument
	}

	document, err := parseXML(p.parts[p.mainPart])
	if err != nil {
		return fmt.Errorf("parse %s: %w", p.mainPart, err)
	}
	if document.Root() == nil || childW(document.Root(), "body") == nil {
		return fmt.Errorf("parse %s: missing w:body", p.mainPart)
	}
	p.document = document
	ensureNamespaces(document.Root())

	relsName := p.relsPartName(p.mainPart)
	relsData, ok := p.parts[relsName]
	if !ok {
		relsData = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="` + namespaceRelationships + `"></Relationships>`)
		p.setPart(relsName, relsData)
	}
	rels, err := parseXML(relsData)
	if err != nil {
		return fmt.Errorf("parse %s: %w", relsName, err)
	}
	p.rels = rels

	if stylesName, ok := p.targetOfType(relTypeStyles); ok {
		styles, err := parseXML(p.parts[stylesName])
		if err != nil {
			return fmt.Errorf("parse %s: %w", stylesName, err)
		}
		p.styles = styles
	}

	p.images = map[string]string{}
	p.nextDrawingID = 1
	walk(document.Root(), func(el *etree.Element) {
		if el.Space == "wp" && el.Tag == "docPr" {
			if id := int(atoiDefault(el.SelectAttrValue("id", ""), 0)); id >= p.nextDrawingID {
				p.nextDrawingID = id + 1
			}
		}
	})
	return nil
}

func parseXML(data []byte) (*etree.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("part is empty")
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("part has no root element")
	}
	return doc, nil
}

// ensureNamespaces declares the drawing namespaces on the document root so
// pictures inserted later serialise with bound prefixes.
func ensureNamespaces(root *etree.Element) {
	for prefix, uri := range documentNamespaces {
		if root.SelectAttr("xmlns:"+prefix) == nil {
			root.CreateAttr("xmlns:"+prefix, uri)
		}
	}
}

func (p *Package) relsPartName(part string) string {
	dir, file := path.Split(part)
	return path.Join(dir, "_rels", file+".rels")
}

// resolveTarget maps a relationship target of the main document to a part name.
func (p *Package) resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(p.mainPart), target))
}

func (p *Package) targetOfType(relType string) (string, bool) {
	for _, rel := range p.rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == relType {
			return p.resolveTarget(rel.SelectAttrValue("Target", "")), true
		}
	}
	return "", false
}

// Part returns a copy of the raw bytes of a part that is not managed as a
// parsed tree.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// PartNames lists part names in container order.
func (p *Package) PartNames() []string {
	return append([]string(nil), p.names...)
}

// Body returns the w:body element of the main document.
func (p *Package) Body() *etree.Element {
	return childW(p.document.Root(), "body")
}

// Bytes serialises the package into a .docx container.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serialises the package into w as a ZIP container.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	if err := p.flush(); err != nil {
		return 0, err
	}
	counter := &countingWriter{w: w}
	zw := zip.NewWriter(counter)
	names := p.orderedNames()
	for _, name := range names {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return counter.n, fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return counter.n, fmt.Errorf("write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return counter.n, fmt.Errorf("close zip container: %w", err)
	}
	return counter.n, nil
}

func (p *Package) orderedNames() []string {
	names := make([]string, 0, len(p.names))
	names = append(names, contentTypesPart)
	for _, name := range p.names {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	return names
}

func (p *Package) flush() error {
	trees := []struct {
		name string
		doc  *etree.Document
	}{
		{name: contentTypesPart, doc: p.types},
		{name: p.mainPart, doc: p.document},
		{name: p.relsPartName(p.mainPart), doc: p.rels},
	}
	if p.styles != nil {
		if stylesName, ok := p.targetOfType(relTypeStyles); ok {
			trees = append(trees, struct {
				name string
				doc  *etree.Document
			}{name: stylesName, doc: p.styles})
		}
	}
	for _, tree := range trees {
		data, err := tree.doc.WriteToBytes()
		if err != nil {
			return fmt.Errorf("serialise %s: %w", tree.name, err)
		}
		p.setPart(tree.name, data)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

package docx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// defaultImageDPI applies when converting pixel sizes of pictures without
// explicit dimensions.
const defaultImageDPI = 72

// Image is a picture part registered in a package.
type Image struct {
	RelID  string
	Width  Length
	Height Length
}

// AddImage stores image data as a media part and relates it to the main
// document. Identical data is stored once per package.
func (p *Package) AddImage(name string, data []byte) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image %s: %w", name, err)
	}
	img := Image{
		Width:  Inches(float64(cfg.Width) / defaultImageDPI),
		Height: Inches(float64(cfg.Height) / defaultImageDPI),
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if relID, ok := p.images[key]; ok {
		img.RelID = relID
		return img, nil
	}

	ext := format
	if ext == "jpeg" && strings.HasSuffix(strings.ToLower(name), ".jpg") {
		ext = "jpg"
	}
	partName := p.uniqueMediaName(ext)
	p.setPart(partName, bytes.Clone(data))
	p.ensureContentTypeDefault(ext, "image/"+format)
	img.RelID = p.addRelationship(relTypeImage, relativeTarget(p.mainPart, partName), "")
	p.images[key] = img.RelID
	return img, nil
}

func (p *Package) uniqueMediaName(ext string) string {
	for i := 1; ; i++ {
		name := "word/media/image" + strconv.Itoa(i) + "." + ext
		if _, exists := p.parts[name]; !exists {
			return name
		}
	}
}

func relativeTarget(source, target string) string {
	dir := path.Dir(source) + "/"
	if strings.HasPrefix(target, dir) {
		return strings.TrimPrefix(target, dir)
	}
	return "/" + target
}

func (p *Package) ensureContentTypeDefault(ext, contentType string) {
	root := p.types.Root()
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	def := etree.NewElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
	if first := root.SelectElement("Override"); first != nil {
		root.InsertChildAt(first.Index(), def)
		return
	}
	root.AddChild(def)
}

func (p *Package) addRelationship(relType, target, targetMode string) string {
	root := p.rels.Root()
	next := 1
	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n >= next {
			next = n + 1
		}
	}
	id := "rId" + strconv.Itoa(next)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	if targetMode != "" {
		rel.CreateAttr("TargetMode", targetMode)
	}
	return id
}

func (p *Package) relationship(id string) *etree.Element {
	for _, rel := range p.rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			return rel
		}
	}
	return nil
}

// ImportRelationships makes the relationship references inside el, which was
// copied from src, valid in p. Internal targets (pictures, embedded objects)
// are copied as new parts; external targets become external relationships.
// Drawing ids inside el are renumbered so they stay unique in p.
func (p *Package) ImportRelationships(src *Package, el *etree.Element) error {
	if src == nil || el == nil || src == p {
		p.renumberDrawings(el)
		return nil
	}
	mapped := map[string]string{}
	var importErr error
	walk(el, func(node *etree.Element) {
		if importErr != nil {
			return
		}
		for i := range node.Attr {
			attr := &node.Attr[i]
			if attr.Space != "r" {
				continue
			}
			if newID, ok := mapped[attr.Value]; ok {
				attr.Value = newID
				continue
			}
			newID, err := p.importRelationship(src, attr.Value)
			if err != nil {
				importErr = err
				return
			}
			mapped[attr.Value] = newID
			attr.Value = newID
		}
	})
	if importErr != nil {
		return importErr
	}
	p.renumberDrawings(el)
	return nil
}

func (p *Package) importRelationship(src *Package, id string) (string, error) {
	rel := src.relationship(id)
	if rel == nil {
		return "", fmt.Errorf("relationship %s not found in source package", id)
	}
	relType := rel.SelectAttrValue("Type", "")
	target := rel.SelectAttrValue("Target", "")
	if strings.EqualFold(rel.SelectAttrValue("TargetMode", ""), "External") {
		return p.addRelationship(relType, target, "External"), nil
	}
	partName := src.resolveTarget(target)
	data, ok := src.parts[partName]
	if !ok {
		return "", fmt.Errorf("relationship %s targets missing part %s", id, partName)
	}
	if relType == relTypeImage {
		img, err := p.AddImage(partName, data)
		if err == nil {
			return img.RelID, nil
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	newName := p.uniqueSiblingName(partName)
	p.setPart(newName, bytes.Clone(data))
	if contentType := src.contentTypeOf(partName); contentType != "" {
		p.ensureContentTypeDefault(ext, contentType)
	}
	return p.addRelationship(relType, relativeTarget(p.mainPart, newName), ""), nil
}

func (p *Package) uniqueSiblingName(name string) string {
	if _, exists := p.parts[name]; !exists {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := stem + "_" + strconv.Itoa(i) + ext
		if _, exists := p.parts[candidate]; !exists {
			return candidate
		}
	}
}

func (p *Package) contentTypeOf(partName string) string {
	root := p.types.Root()
	for _, override := range root.SelectElements("Override") {
		if strings.TrimPrefix(override.SelectAttrValue("PartName", ""), "/") == partName {
			return override.SelectAttrValue("ContentType", "")
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return def.SelectAttrValue("ContentType", "")
		}
	}
	return mime.TypeByExtension("." + ext)
}

func (p *Package) renumberDrawings(el *etree.Element) {
	walk(el, func(node *etree.Element) {
		if node.Space == "wp" && node.Tag == "docPr" {
			node.CreateAttr("id", strconv.Itoa(p.nextDrawingID))
			p.nextDrawingID++
		}
	})
}

// AddInlinePicture appends an inline picture to the run. Zero width or
// height keeps the natural size of the image.
func (r *Run) AddInlinePicture(name string, data []byte, width, height Length) error {
	img, err := r.pkg.AddImage(name, data)
	if err != nil {
		return err
	}
	width, height = scaleToFit(img, width, height)
	id := r.pkg.nextDrawingID
	r.pkg.nextDrawingID++

	drawing := r.el.CreateElement(wTag("drawing"))
	inline := drawing.CreateElement("wp:inline")
	for _, side := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(side, "0")
	}
	setExtent(inline.CreateElement("wp:extent"), width, height)
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", "Picture "+strconv.Itoa(id))
	locks := inline.CreateElement("wp:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks")
	locks.CreateAttr("noChangeAspect", "1")
	inline.AddChild(pictureGraphic(name, img.RelID, width, height))
	return nil
}

// FloatingPicture positions a picture anchored to a paragraph.
type FloatingPicture struct {
	Width  Length
	Height Length
	// OffsetX and OffsetY are measured from the page corner.
	OffsetX Length
	OffsetY Length
	// BehindText places the picture under the text layer.
	BehindText bool
}

// AddFloatingPicture anchors a picture to the paragraph in a new run.
func (p *Paragraph) AddFloatingPicture(name string, data []byte, opts FloatingPicture) error {
	img, err := p.pkg.AddImage(name, data)
	if err != nil {
		return err
	}
	width, height := scaleToFit(img, opts.Width, opts.Height)
	id := p.pkg.nextDrawingID
	p.pkg.nextDrawingID++

	run := p.el.CreateElement(wTag("r"))
	anchor := run.CreateElement(wTag("drawing")).CreateElement("wp:anchor")
	behind := "0"
	if opts.BehindText {
		behind = "1"
	}
	for _, attr := range [][2]string{
		{"distT", "0"}, {"distB", "0"}, {"distL", "0"}, {"distR", "0"},
		{"simplePos", "0"}, {"relativeHeight", "0"}, {"behindDoc", behind},
		{"locked", "0"}, {"layoutInCell", "1"}, {"allowOverlap", "1"},
	} {
		anchor.CreateAttr(attr[0], attr[1])
	}
	simplePos := anchor.CreateElement("wp:simplePos")
	simplePos.CreateAttr("x", "0")
	simplePos.CreateAttr("y", "0")
	positionH := anchor.CreateElement("wp:positionH")
	positionH.CreateAttr("relativeFrom", "page")
	positionH.CreateElement("wp:posOffset").SetText(opts.OffsetX.emuString())
	positionV := anchor.CreateElement("wp:positionV")
	positionV.CreateAttr("relativeFrom", "page")
	positionV.CreateElement("wp:posOffset").SetText(opts.OffsetY.emuString())
	setExtent(anchor.CreateElement("wp:extent"), width, height)
	anchor.CreateElement("wp:wrapNone")
	docPr := anchor.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", "Picture "+strconv.Itoa(id))
	anchor.CreateElement("wp:cNvGraphicFramePr")
	anchor.AddChild(pictureGraphic(name, img.RelID, width, height))
	return nil
}

func scaleToFit(img Image, width, height Length) (Length, Length) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0 && img.Width > 0:
		return width, Length(int64(img.Height) * int64(width) / int64(img.Width))
	case height > 0 && img.Height > 0:
		return Length(int64(img.Width) * int64(height) / int64(img.Height)), height
	default:
		return img.Width, img.Height
	}
}

func setExtent(el *etree.Element, width, height Length) {
	el.CreateAttr("cx", width.emuString())
	el.CreateAttr("cy", height.emuString())
}

func pictureGraphic(name, relID string, width, height Length) *etree.Element {
	graphic := etree.NewElement("a:graphic")
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", NamespacePic)
	pic := data.CreateElement("pic:pic")
	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", "0")
	cNvPr.CreateAttr("name", path.Base(name))
	nv.CreateElement("pic:cNvPicPr")
	blipFill := pic.CreateElement("pic:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")
	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	setExtent(xfrm.CreateElement("a:ext"), width, height)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
	return graphic
}

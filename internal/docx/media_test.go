package docx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 80, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAddImageDeduplicatesData(t *testing.T) {
	t.Parallel()

	pkg := New()
	data := testPNG(t, 144, 72)
	first, err := pkg.AddImage("logo.png", data)
	if err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}
	second, err := pkg.AddImage("logo-again.png", data)
	if err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}
	if first.RelID != second.RelID {
		t.Fatalf("rel ids = %q and %q, want equal", first.RelID, second.RelID)
	}
	if first.Width != Inches(2) || first.Height != Inches(1) {
		t.Fatalf("natural size = %v x %v, want 2in x 1in", first.Width.Inches(), first.Height.Inches())
	}
	var media int
	for _, name := range pkg.PartNames() {
		if strings.HasPrefix(name, "word/media/") {
			media++
		}
	}
	if media != 1 {
		t.Fatalf("media parts = %d, want 1", media)
	}
}

func TestAddImageRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := New().AddImage("x.bin", []byte("nope")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestInlinePictureScalesToWidth(t *testing.T) {
	t.Parallel()

	pkg := New()
	run := pkg.AddParagraph("").AddRun("")
	if err := run.AddInlinePicture("logo.png", testPNG(t, 200, 100), Inches(1), 0); err != nil {
		t.Fatalf("AddInlinePicture() error = %v", err)
	}
	extent := run.Element().FindElement(".//wp:extent")
	if extent == nil {
		t.Fatal("expected wp:extent")
	}
	if got := extent.SelectAttrValue("cy", ""); got != Inches(0.5).emuString() {
		t.Fatalf("cy = %s, want %s", got, Inches(0.5).emuString())
	}
	blip := run.Element().FindElement(".//a:blip")
	if blip == nil || pkg.relationship(blip.SelectAttrValue("r:embed", "")) == nil {
		t.Fatal("expected blip bound to a relationship")
	}
}

func TestFloatingPictureAnchorsBehindText(t *testing.T) {
	t.Parallel()

	pkg := New()
	p := pkg.AddParagraph("")
	err := p.AddFloatingPicture("bg.png", testPNG(t, 10, 10), FloatingPicture{
		Width:      Inches(8.04),
		Height:     Inches(5.63),
		BehindText: true,
	})
	if err != nil {
		t.Fatalf("AddFloatingPicture() error = %v", err)
	}
	anchor := p.Element().FindElement(".//wp:anchor")
	if anchor == nil {
		t.Fatal("expected wp:anchor")
	}
	if got := anchor.SelectAttrValue("behindDoc", ""); got != "1" {
		t.Fatalf("behindDoc = %q, want 1", got)
	}
	if got := anchor.FindElement("./wp:positionH/wp:posOffset").Text(); got != "0" {
		t.Fatalf("posOffset = %q, want 0", got)
	}
	reopened := reopen(t, pkg)
	if reopened.Paragraphs()[0].Element().FindElement(".//wp:anchor") == nil {
		t.Fatal("anchor lost on round trip")
	}
}

func TestImportRelationshipsCopiesPictures(t *testing.T) {
	t.Parallel()

	src := New()
	srcCell, _ := src.AddTable(1, 1).Cell(0, 0)
	if err := srcCell.Paragraphs()[0].AddRun("").AddInlinePicture("logo.png", testPNG(t, 8, 8), 0, 0); err != nil {
		t.Fatalf("AddInlinePicture() error = %v", err)
	}

	dst := New()
	dst.AddParagraph("").AddRun("")
	if err := dst.Paragraphs()[0].AddFloatingPicture("bg.png", testPNG(t, 4, 4), FloatingPicture{}); err != nil {
		t.Fatalf("AddFloatingPicture() error = %v", err)
	}
	dstCell, _ := dst.AddTable(1, 1).Cell(0, 0)
	copied := srcCell.Paragraphs()[0].Element().Copy()
	dstCell.Element().AddChild(copied)
	if err := dst.ImportRelationships(src, copied); err != nil {
		t.Fatalf("ImportRelationships() error = %v", err)
	}

	blip := copied.FindElement(".//a:blip")
	rel := dst.relationship(blip.SelectAttrValue("r:embed", ""))
	if rel == nil {
		t.Fatal("copied picture has no relationship in destination")
	}
	target := dst.resolveTarget(rel.SelectAttrValue("Target", ""))
	if _, ok := dst.Part(target); !ok {
		t.Fatalf("destination missing media part %s", target)
	}

	ids := map[string]bool{}
	walk(dst.Body(), func(el *etree.Element) {
		if el.Space == "wp" && el.Tag == "docPr" {
			id := el.SelectAttrValue("id", "")
			if ids[id] {
				t.Fatalf("duplicate drawing id %s", id)
			}
			ids[id] = true
		}
	})
	if len(ids) != 2 {
		t.Fatalf("drawings = %d, want 2", len(ids))
	}
}

func TestImportRelationshipsReportsDanglingReference(t *testing.T) {
	t.Parallel()

	src := New()
	el := etree.NewElement("a:blip")
	el.CreateAttr("r:embed", "rId99")
	if err := New().ImportRelationships(src, el); err == nil {
		t.Fatal("expected missing relationship error")
	}
}

package assembly

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"testing"

	"github.com/beevik/etree"
	"github.com/louisbranch/gradpack/internal/docx"
)

const documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`

const documentTail = `<w:sectPr/></w:body></w:document>`

func render(t *testing.T, body string) *docx.Package {
	t.Helper()
	pkg, err := docx.NewFromDocument([]byte(documentHead + body + documentTail))
	if err != nil {
		t.Fatalf("NewFromDocument() error = %v", err)
	}
	return pkg
}

func pixel(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func count(el *etree.Element, path string) int {
	return len(el.FindElements(path))
}

const tractorTable = `<w:tbl>` +
	`<w:tblPr><w:tblW w:w="11000" w:type="dxa"/><w:tblBorders><w:top w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>` +
	`<w:tblGrid><w:gridCol w:w="5000"/><w:gridCol w:w="6000"/></w:tblGrid>` +
	`<w:tr><w:trPr><w:cantSplit/><w:trHeight w:val="8000"/></w:trPr>` +
	`<w:tc><w:tcPr><w:tcW w:w="5000" w:type="dxa"/><w:shd w:fill="DDEEFF"/></w:tcPr>` +
	`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Иванов Иван</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:tcPr><w:tcW w:w="6000" w:type="dxa"/></w:tcPr>` +
	`<w:tbl><w:tblGrid><w:gridCol w:w="3000"/></w:tblGrid><w:tr><w:tc><w:p><w:r><w:t>prof_educ_logo</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`<w:p/></w:tc></w:tr></w:tbl>`

func TestAppendRenderedTableCopiesLayout(t *testing.T) {
	t.Parallel()

	src := render(t, tractorTable)
	dst := docx.New()
	merged := dst.AddTable(1, 2)
	opts := MergeOptions{
		Background: Picture{Name: "bg.png", Data: pixel(t), Width: docx.Inches(8.04), Height: docx.Inches(5.63)},
		Logo:       pixel(t),
	}

	next, err := AppendRenderedTable(merged, src.Tables()[0], 0, opts)
	if err != nil {
		t.Fatalf("AppendRenderedTable() error = %v", err)
	}
	if next != 1 {
		t.Fatalf("next row = %d, want 1", next)
	}

	tbl := merged.Element()
	if got := count(tbl, "./w:tblGrid"); got != 1 {
		t.Fatalf("tblGrid count = %d, want 1", got)
	}
	if got := count(tbl, "./w:tblPr"); got != 1 {
		t.Fatalf("tblPr count = %d, want 1", got)
	}
	if tbl.FindElement("./w:tblPr/w:tblBorders") == nil {
		t.Fatal("expected borders copied from the rendered table")
	}
	if got := tbl.FindElement("./w:tblGrid/w:gridCol").SelectAttrValue("w:w", ""); got != "5000" {
		t.Fatalf("first grid column = %s, want 5000", got)
	}

	row := merged.Rows()[0]
	if !row.CantSplit() {
		t.Fatal("expected cantSplit on merged row")
	}
	if h := row.Height(); h == nil || h.Twips() != 8000 {
		t.Fatalf("row height = %v, want 8000 twips", h)
	}

	cells := row.Cells()
	if got := count(cells[0].Element(), "./w:tcPr"); got != 1 {
		t.Fatalf("tcPr count = %d, want 1", got)
	}
	if cells[0].Element().FindElement("./w:tcPr/w:shd") == nil {
		t.Fatal("expected shading copied to first cell")
	}
	if got := cells[0].Paragraphs()[0].Text(); got != "Иванов Иван" {
		t.Fatalf("first cell text = %q", got)
	}
	if cells[0].Element().FindElement(".//wp:anchor") == nil {
		t.Fatal("expected background anchored in first cell")
	}

	nested := cells[1].Tables()
	if len(nested) != 1 {
		t.Fatalf("nested tables = %d, want 1", len(nested))
	}
	if nested[0].Layout() != "fixed" {
		t.Fatalf("nested layout = %q, want fixed", nested[0].Layout())
	}
	if !nested[0].Rows()[0].CantSplit() {
		t.Fatal("expected nested row to inherit cantSplit")
	}
	if nested[0].Element().FindElement(".//wp:inline") == nil {
		t.Fatal("expected logo marker replaced by a picture")
	}
	if got := cells[1].Text(); got != "" {
		t.Fatalf("marker text left behind: %q", got)
	}
}

func TestAppendRenderedTableGrowsRows(t *testing.T) {
	t.Parallel()

	dst := docx.New()
	merged := dst.AddTable(1, 2)
	opts := MergeOptions{Logo: pixel(t)}
	row := 0
	for i := 0; i < 3; i++ {
		src := render(t, tractorTable)
		var err error
		row, err = AppendRenderedTable(merged, src.Tables()[0], row, opts)
		if err != nil {
			t.Fatalf("AppendRenderedTable(%d) error = %v", i, err)
		}
	}
	if got := len(merged.Rows()); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	if got := count(merged.Element(), "./w:tblGrid"); got != 1 {
		t.Fatalf("tblGrid count = %d, want 1", got)
	}
	ids := map[string]bool{}
	for _, docPr := range dst.Body().FindElements(".//wp:docPr") {
		id := docPr.SelectAttrValue("id", "")
		if ids[id] {
			t.Fatalf("duplicate drawing id %s", id)
		}
		ids[id] = true
	}
}

const wideTable = `<w:tbl><w:tblPr/>` +
	`<w:tblGrid><w:gridCol w:w="3000"/><w:gridCol w:w="3000"/><w:gridCol w:w="3000"/></w:tblGrid>` +
	`<w:tr><w:tc><w:p><w:r><w:t>лицевая</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:p><w:r><w:t>середина</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:p><w:r><w:t>лишняя</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`

func TestAppendRenderedTableTruncatesWideRows(t *testing.T) {
	t.Parallel()

	merged := docx.New().AddTable(1, 2)
	row := 0
	for i := 0; i < 3; i++ {
		src := render(t, wideTable)
		var err error
		row, err = AppendRenderedTable(merged, src.Tables()[0], row, MergeOptions{})
		if err != nil {
			t.Fatalf("AppendRenderedTable(%d) error = %v", i, err)
		}
	}
	rows := merged.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, r := range rows {
		cells := r.Cells()
		if len(cells) != 2 {
			t.Fatalf("row %d cells = %d, want 2", i, len(cells))
		}
		if got := cells[1].Text(); got != "середина" {
			t.Fatalf("row %d cell 1 = %q, want середина", i, got)
		}
	}
}

const nestedNestedTable = `<w:tbl><w:tblGrid><w:gridCol w:w="6000"/></w:tblGrid><w:tr><w:tc>` +
	`<w:tbl><w:tblGrid><w:gridCol w:w="5000"/></w:tblGrid><w:tr><w:tc>` +
	`<w:tbl><w:tblGrid><w:gridCol w:w="4000"/></w:tblGrid><w:tr><w:tc>` +
	`<w:p><w:r><w:t>prof_educ_logo</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`<w:p/></w:tc></w:tr></w:tbl>` +
	`<w:p/></w:tc></w:tr></w:tbl>`

func TestAppendRenderedTableReplacesDeeplyNestedMarkers(t *testing.T) {
	t.Parallel()

	src := render(t, nestedNestedTable)
	merged := docx.New().AddTable(1, 1)
	if _, err := AppendRenderedTable(merged, src.Tables()[0], 0, MergeOptions{Logo: pixel(t)}); err != nil {
		t.Fatalf("AppendRenderedTable() error = %v", err)
	}
	cell, err := merged.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell() error = %v", err)
	}
	innermost := cell.Element().FindElement("./w:tbl/w:tr/w:tc/w:tbl/w:tr/w:tc")
	if innermost == nil {
		t.Fatal("expected table nested two levels deep")
	}
	if got := count(innermost, ".//w:drawing"); got != 1 {
		t.Fatalf("innermost drawings = %d, want 1", got)
	}
	if got := cell.Text(); got != "" {
		t.Fatalf("marker text left behind: %q", got)
	}
}

func TestAppendRenderedTableRequiresLogo(t *testing.T) {
	t.Parallel()

	src := render(t, tractorTable)
	merged := docx.New().AddTable(1, 2)
	_, err := AppendRenderedTable(merged, src.Tables()[0], 0, MergeOptions{})
	if !errors.Is(err, ErrMissingLogo) {
		t.Fatalf("AppendRenderedTable() error = %v, want %v", err, ErrMissingLogo)
	}
}

func TestBiggerLogoMarkerUsesFixedSize(t *testing.T) {
	t.Parallel()

	pkg := render(t, `<w:tbl><w:tblGrid><w:gridCol w:w="4000"/></w:tblGrid><w:tr><w:tc>`+
		`<w:p><w:r><w:t>bigger_educ_logo</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)
	cell, err := pkg.Tables()[0].Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell() error = %v", err)
	}
	if err := ReplaceMarkers(cell, pixel(t)); err != nil {
		t.Fatalf("ReplaceMarkers() error = %v", err)
	}
	extent := cell.Element().FindElement(".//wp:extent")
	if extent == nil {
		t.Fatal("expected picture extent")
	}
	want := docx.Inches(1.53).EMU()
	if got := extent.SelectAttrValue("cx", ""); got != strconv.FormatInt(want, 10) {
		t.Fatalf("cx = %s, want %d", got, want)
	}
}

const labourTable = `<w:tbl><w:tblGrid><w:gridCol w:w="5500"/></w:tblGrid><w:tr><w:tc>` +
	`<w:tcPr><w:vAlign w:val="center"/></w:tcPr>` +
	`<w:p/>` +
	`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:sz w:val="28"/></w:rPr><w:t>Удостоверение № 7</w:t></w:r></w:p>` +
	`<w:tbl><w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/></w:tblGrid>` +
	`<w:tr><w:tc><w:p><w:r><w:t>Петров</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>prof_educ_logo</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`<w:p/></w:tc></w:tr></w:tbl>`

func TestPlaceInGrid(t *testing.T) {
	t.Parallel()

	src := render(t, labourTable)
	dst := docx.New()
	grid := dst.AddTable(1, 2)
	if err := PlaceInGrid(grid, 0, 1, src.Tables()[0], pixel(t)); err != nil {
		t.Fatalf("PlaceInGrid() error = %v", err)
	}

	row := grid.Rows()[0]
	if h := row.Height(); h == nil || h.Twips() != GridRowHeight.Twips() {
		t.Fatalf("row height = %v, want %d twips", h, GridRowHeight.Twips())
	}
	cell, _ := grid.Cell(0, 1)
	if got := cell.Width().Twips(); got != GridCellWidth.Twips() {
		t.Fatalf("cell width = %d, want %d", got, GridCellWidth.Twips())
	}
	if cell.Element().FindElement("./w:tcPr/w:vAlign") == nil {
		t.Fatal("expected cell properties copied")
	}

	var found *docx.Paragraph
	for _, p := range cell.Paragraphs() {
		if p.Text() == "Удостоверение № 7" {
			found = p
		}
	}
	if found == nil {
		t.Fatalf("copied paragraph missing, cell text %q", cell.Text())
	}
	if found.Alignment() != docx.AlignCenter {
		t.Fatalf("alignment = %q, want center", found.Alignment())
	}
	if sp := found.SpaceAfter(); sp == nil || *sp != 0 {
		t.Fatalf("space after = %v, want 0", sp)
	}
	if size := found.Runs()[0].FontSize(); size == nil || size.Points() != 14 {
		t.Fatalf("font size = %v, want 14pt", size)
	}

	nested := cell.Tables()
	if len(nested) != 1 {
		t.Fatalf("nested tables = %d, want 1", len(nested))
	}
	if got := nested[0].Element().FindElement("./w:tblPr/w:jc").SelectAttrValue("w:val", ""); got != "center" {
		t.Fatalf("nested alignment = %q, want center", got)
	}
	name, _ := nested[0].Cell(0, 0)
	if name.Text() != "Петров" {
		t.Fatalf("nested text = %q, want Петров", name.Text())
	}
	logo, _ := nested[0].Cell(0, 1)
	if logo.Element().FindElement(".//wp:inline") == nil {
		t.Fatal("expected nested logo picture")
	}
}

func TestGridPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, cols  int
		row, col int
	}{
		{n: 0, cols: 2, row: 0, col: 0},
		{n: 1, cols: 2, row: 0, col: 1},
		{n: 2, cols: 2, row: 1, col: 0},
		{n: 5, cols: 2, row: 2, col: 1},
	}
	for _, tc := range tests {
		row, col := GridPosition(tc.n, tc.cols)
		if row != tc.row || col != tc.col {
			t.Fatalf("GridPosition(%d, %d) = (%d, %d), want (%d, %d)", tc.n, tc.cols, row, col, tc.row, tc.col)
		}
	}
	for n, want := range map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 7: 4} {
		if got := GridRows(n, 2); got != want {
			t.Fatalf("GridRows(%d, 2) = %d, want %d", n, got, want)
		}
	}
}

const certificateTable = `<w:tbl><w:tblGrid><w:gridCol w:w="8000"/></w:tblGrid><w:tr><w:tc>` +
	`<w:tcPr><w:tcW w:w="8000" w:type="dxa"/><w:tcBorders><w:top w:val="dashed"/></w:tcBorders></w:tcPr>` +
	`<w:p><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t>Свидетельство № %s</w:t></w:r></w:p>` +
	`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>` +
	`</w:tc></w:tr></w:tbl>`

func certificate(t *testing.T, number, name string) *docx.Package {
	t.Helper()
	return render(t, fmt.Sprintf(certificateTable, number, name))
}

func TestAppendCertificateRows(t *testing.T) {
	t.Parallel()

	final := certificate(t, "1", "Иванов И.И.")
	var sources []*docx.Cell
	for _, s := range [][2]string{{"2", "Петров П.П."}, {"3", "Сидоров С.С."}} {
		cell, err := certificate(t, s[0], s[1]).Tables()[0].Cell(0, 0)
		if err != nil {
			t.Fatalf("Cell() error = %v", err)
		}
		sources = append(sources, cell)
	}
	table := final.Tables()[0]
	background := Picture{Name: "basic.png", Data: pixel(t), Width: docx.Inches(5.6), Height: docx.Inches(3.65)}
	if err := AppendCertificateRows(table, sources, background); err != nil {
		t.Fatalf("AppendCertificateRows() error = %v", err)
	}

	rows := table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	row := rows[2]
	if !row.CantSplit() {
		t.Fatal("expected cantSplit on appended row")
	}
	cell := row.Cells()[0]
	if got, want := cell.Text(), "Свидетельство № 3\nСидоров С.С."; got != want {
		t.Fatalf("cell text = %q, want %q", got, want)
	}
	if cell.Element().FindElement("./w:tcPr/w:tcBorders") == nil {
		t.Fatal("expected template borders on appended cell")
	}
	first := cell.Paragraphs()[0]
	if first.Element().FindElement(".//wp:anchor") == nil {
		t.Fatal("expected background anchored in first paragraph")
	}
	var textRun *docx.Run
	for _, run := range first.Runs() {
		if run.Text() != "" {
			textRun = run
		}
	}
	if bold := textRun.Bold(); bold == nil || !*bold {
		t.Fatal("expected template bold on copied run")
	}
	if cell.Paragraphs()[1].Alignment() != docx.AlignCenter {
		t.Fatal("expected template alignment on second paragraph")
	}
}

func TestAppendCertificateRowsWithoutStudents(t *testing.T) {
	t.Parallel()

	final := certificate(t, "1", "Иванов И.И.")
	if err := AppendCertificateRows(final.Tables()[0], nil, Picture{}); err != nil {
		t.Fatalf("AppendCertificateRows() error = %v", err)
	}
	if got := len(final.Tables()[0].Rows()); got != 1 {
		t.Fatalf("rows = %d, want 1", got)
	}
}

func TestAppendListRows(t *testing.T) {
	t.Parallel()

	table := docx.New().AddTable(1, 3)
	AppendListRows(table, [][]string{
		{"1", "Иванов И.И.", "заявление", "extra"},
		{"2", "Петров П.П."},
	})
	rows := table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	cell, _ := table.Cell(1, 2)
	if cell.Text() != "заявление" {
		t.Fatalf("company = %q, want заявление", cell.Text())
	}
	cell, _ = table.Cell(2, 2)
	if cell.Text() != "" {
		t.Fatalf("missing value = %q, want empty", cell.Text())
	}
}

package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/louisbranch/gradpack/internal/docx"
)

func TestProfessionWording(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		profession Profession
		want       string
	}{
		{name: "with code", profession: Profession{Name: "Тракторист", Codes: []int{19203}}, want: "19203 «Тракторист»"},
		{name: "first code", profession: Profession{Name: "Стропальщик", Codes: []int{18897, 18898}}, want: "18897 «Стропальщик»"},
		{name: "without code", profession: Profession{Name: "Охрана труда"}, want: "«Охрана труда»"},
	}
	for _, tc := range tests {
		if got := tc.profession.Wording(); got != tc.want {
			t.Fatalf("%s: Wording() = %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := TractorProfession.Wording(); got != "19203 «Тракторист»" {
		t.Fatalf("TractorProfession.Wording() = %q", got)
	}
}

func TestProfessionHoursText(t *testing.T) {
	t.Parallel()

	if got := (Profession{Hours: 72}).HoursText(); got != "72 часа" {
		t.Fatalf("HoursText() = %q, want 72 часа", got)
	}
	if got := (Profession{}).HoursText(); got != "" {
		t.Fatalf("HoursText() = %q, want empty", got)
	}
}

func TestParseProfessionTable(t *testing.T) {
	t.Parallel()

	row := func(name, code string) string {
		return `<w:tr><w:tc><w:p><w:r><w:t xml:space="preserve">` + name + `</w:t></w:r></w:p></w:tc>` +
			`<w:tc><w:p><w:r><w:t>` + code + `</w:t></w:r></w:p></w:tc></w:tr>`
	}
	body := `<w:tbl><w:tblGrid><w:gridCol w:w="5000"/><w:gridCol w:w="2000"/></w:tblGrid>` +
		row("Тракторист", "19203") +
		row(" Стропальщик ", "18897, 18898") +
		row("", "11111") +
		row("Стропальщик", "18897") +
		row("Охрана труда", "-") +
		row("Водитель погрузчика", "11453,") +
		`</w:tbl>`
	pkg, err := docx.NewFromDocument([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `<w:sectPr/></w:body></w:document>`))
	if err != nil {
		t.Fatalf("NewFromDocument() error = %v", err)
	}

	got, err := ParseProfessionTable(pkg)
	if err != nil {
		t.Fatalf("ParseProfessionTable() error = %v", err)
	}
	want := []Profession{
		{Name: "Водитель погрузчика", Codes: []int{11453}},
		{Name: "Охрана труда"},
		{Name: "Стропальщик", Codes: []int{18897, 18898}},
		{Name: "Тракторист", Codes: []int{19203}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("ParseProfessionTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProfessionTableRejectsBadCode(t *testing.T) {
	t.Parallel()

	pkg := docx.New()
	table := pkg.AddTable(1, 2)
	name, _ := table.Cell(0, 0)
	name.SetText("Сварщик")
	code, _ := table.Cell(0, 1)
	code.SetText("abc")
	if _, err := ParseProfessionTable(pkg); err == nil {
		t.Fatal("expected error for non-numeric code")
	}
}

func TestParseProfessionTableRequiresTable(t *testing.T) {
	t.Parallel()

	if _, err := ParseProfessionTable(docx.New()); err == nil {
		t.Fatal("expected error for document without table")
	}
}

package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/documents"
)

func TestTemplatesDefinePages(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"header", "footer", "form", "preview", "block", "catalog", "delete", "error"} {
		if pageTemplates.Lookup(name) == nil {
			t.Fatalf("template %q is not defined", name)
		}
	}
}

func TestCatalogPageEscapesNames(t *testing.T) {
	t.Parallel()

	p := newPage(httptest.NewRequest(http.MethodGet, "/catalog", nil))
	teachers := []catalog.Teacher{{Name: `<script>alert("x")</script>`}}
	professions := []catalog.Profession{{Name: "Сварщик", Codes: []int{19756}}}

	var buf bytes.Buffer
	if err := catalogPage(p, professions, teachers, nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := buf.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("body contains raw script tag:\n%s", body)
	}
	assertContains(t, body,
		"&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;",
		`<input type="hidden" name="name" value="&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;">`,
		"<td>Сварщик</td><td>19756</td><td></td>",
		`aria-current="true"`,
		"</main>",
	)
}

func TestBlockTemplateJoinsCellLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block documents.Block
		want  string
	}{
		{name: "paragraph", block: documents.Block{Text: "ПРИКАЗ & № 1"}, want: "<p>ПРИКАЗ &amp; № 1</p>"},
		{
			name:  "table",
			block: documents.Block{Rows: [][]string{{"первая\nвторая", "<b>"}}},
			want:  "<table><tr><td>первая<br>вторая</td><td>&lt;b&gt;</td></tr></table>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := pageTemplates.ExecuteTemplate(&buf, "block", tt.block); err != nil {
				t.Fatalf("ExecuteTemplate() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("block = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorPageRendersMessage(t *testing.T) {
	t.Parallel()

	p := newPage(httptest.NewRequest(http.MethodGet, "/missing", nil))
	var buf bytes.Buffer
	if err := errorPage(p, "boom").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertContains(t, buf.String(), `<html lang="ru">`, `<section class="error">`, "<p>boom</p>", `<a href="/">`)
}

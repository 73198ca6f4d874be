package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/documents"
	"github.com/louisbranch/gradpack/internal/services/shared/i18nhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("web").Funcs(template.FuncMap{
	"lines": func(text string) []string { return strings.Split(text, "\n") },
}).ParseFS(templatesFS, "templates/*.html"))

// page carries the request data every view needs.
type page struct {
	Locale   string
	Path     string
	RawQuery string
	printer  *message.Printer
}

func newPage(r *http.Request) page {
	tag := i18nhttp.FromRequest(r)
	return page{
		Locale:   i18nhttp.Locale(tag),
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		printer:  i18nhttp.Printer(tag),
	}
}

// T returns the localized message for key.
func (p page) T(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

type languageLink struct {
	URL    string
	Label  string
	Active bool
}

// layoutView is the data of the shared header and footer.
type layoutView struct {
	page
	Title     string
	Lang      string
	Languages []languageLink
}

func newLayout(p page, title string) layoutView {
	lang, _ := language.MustParse(p.Locale).Base()
	options := i18nhttp.BuildLanguageOptions(i18nhttp.Supported(), p.Locale, func(tag language.Tag) string {
		return p.T(i18nhttp.LanguageKeyLabel(tag))
	})
	links := make([]languageLink, 0, len(options))
	for _, option := range options {
		links = append(links, languageLink{
			URL:    i18nhttp.LanguageURL(p.Path, p.RawQuery, option.Tag),
			Label:  option.Label,
			Active: option.Active,
		})
	}
	return layoutView{page: p, Title: title, Lang: lang.String(), Languages: links}
}

type inputView struct {
	Type        string
	Name        string
	Label       string
	Value       string
	Placeholder string
}

type selectView struct {
	Name     string
	Label    string
	Prompt   string
	Selected string
	Options  []string
}

type buttonView struct {
	Name  string
	Value string
	Label string
}

type deleteView struct {
	Action string
	Field  string
	Name   string
	Button buttonView
}

// view executes the named template with data.
func view(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pageTemplates.ExecuteTemplate(w, name, data)
	})
}

type formView struct {
	layoutView
	Problems   []string
	Profession selectView
	Period     []inputView
	Teacher    selectView
	Company    inputView
	Students   inputView
}

func formPage(p page, form formValues, professions []catalog.Profession, teachers []catalog.Teacher, problems []string) templ.Component {
	return view("form", formView{
		layoutView: newLayout(p, p.T("web.nav.documents")),
		Problems:   problems,
		Profession: selectView{
			Name:     fieldProfession,
			Label:    p.T("web.form.profession"),
			Prompt:   p.T("web.form.profession_choose"),
			Selected: form.Profession,
			Options:  professionNames(professions),
		},
		Period: []inputView{
			{Type: "date", Name: fieldBeginDate, Label: p.T("web.form.begin_date"), Value: form.BeginDate},
			{Type: "date", Name: fieldEndDate, Label: p.T("web.form.end_date"), Value: form.EndDate},
			{Type: "number", Name: fieldBeginNumber, Label: p.T("web.form.begin_number"), Value: form.BeginNumber},
			{Type: "number", Name: fieldEndNumber, Label: p.T("web.form.end_number"), Value: form.EndNumber},
		},
		Teacher: selectView{
			Name:     fieldTeacher,
			Label:    p.T("web.form.teacher"),
			Prompt:   p.T("web.form.teacher_choose"),
			Selected: form.Teacher,
			Options:  teacherNames(teachers),
		},
		Company: inputView{
			Type:        "text",
			Name:        fieldCompany,
			Label:       p.T("web.form.company"),
			Value:       form.Company,
			Placeholder: p.T("web.form.company_placeholder"),
		},
		Students: inputView{Name: fieldStudents, Label: p.T("web.form.students"), Value: form.Students},
	})
}

func professionNames(professions []catalog.Profession) []string {
	names := make([]string, 0, len(professions))
	for _, profession := range professions {
		names = append(names, profession.Name)
	}
	return names
}

func teacherNames(teachers []catalog.Teacher) []string {
	names := make([]string, 0, len(teachers))
	for _, teacher := range teachers {
		names = append(names, teacher.Name)
	}
	return names
}

type documentView struct {
	Index  int
	Kind   documents.Kind
	Title  string
	Blocks []documents.Block
}

type previewView struct {
	layoutView
	Warnings  []string
	Hidden    [][2]string
	Documents []documentView
}

func previewPage(p page, form formValues, batch documents.Batch, warnings []string) templ.Component {
	docs := make([]documentView, 0, len(batch.Documents))
	for i, doc := range batch.Documents {
		docs = append(docs, documentView{
			Index:  i,
			Kind:   doc.Kind,
			Title:  doc.Title,
			Blocks: documents.Outline(doc.Package),
		})
	}
	return view("preview", previewView{
		layoutView: newLayout(p, p.T("web.preview.title")),
		Warnings:   warnings,
		Hidden:     form.fields(),
		Documents:  docs,
	})
}

type teacherRow struct {
	Name   string
	Delete deleteView
}

type professionRow struct {
	Name   string
	Codes  string
	Hours  int
	Delete deleteView
}

type catalogView struct {
	layoutView
	Problems         []string
	Teachers         []teacherRow
	Professions      []professionRow
	TeacherFields    []inputView
	ProfessionFields []inputView
	Add              buttonView
}

func catalogPage(p page, professions []catalog.Profession, teachers []catalog.Teacher, problems []string) templ.Component {
	data := catalogView{
		layoutView: newLayout(p, p.T("web.nav.catalog")),
		Problems:   problems,
		TeacherFields: []inputView{
			{Type: "text", Name: fieldName, Label: p.T("web.catalog.name")},
		},
		ProfessionFields: []inputView{
			{Type: "text", Name: fieldName, Label: p.T("web.catalog.name")},
			{Type: "text", Name: fieldCodes, Label: p.T("web.catalog.codes"), Placeholder: "19203, 11442"},
			{Type: "number", Name: fieldHours, Label: p.T("web.catalog.hours")},
		},
		Add: buttonView{Name: fieldAction, Value: actionAdd, Label: p.T("web.catalog.add")},
	}
	for _, teacher := range teachers {
		data.Teachers = append(data.Teachers, teacherRow{
			Name:   teacher.Name,
			Delete: deleteButton(p, "/catalog/teachers", teacher.Name),
		})
	}
	for _, profession := range professions {
		data.Professions = append(data.Professions, professionRow{
			Name:   profession.Name,
			Codes:  profession.CodesText(),
			Hours:  profession.Hours,
			Delete: deleteButton(p, "/catalog/professions", profession.Name),
		})
	}
	return view("catalog", data)
}

func deleteButton(p page, action, name string) deleteView {
	return deleteView{
		Action: action,
		Field:  fieldName,
		Name:   name,
		Button: buttonView{Name: fieldAction, Value: actionDelete, Label: p.T("web.catalog.delete")},
	}
}

type errorView struct {
	layoutView
	Message string
}

func errorPage(p page, message string) templ.Component {
	return view("error", errorView{layoutView: newLayout(p, p.T("web.error.title")), Message: message})
}

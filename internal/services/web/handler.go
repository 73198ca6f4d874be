package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/documents"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	"github.com/louisbranch/gradpack/internal/platform/requestctx"
	"github.com/louisbranch/gradpack/internal/platform/timeouts"
	"github.com/louisbranch/gradpack/internal/ruformat"
	"github.com/louisbranch/gradpack/internal/services/shared/i18nhttp"
	"github.com/louisbranch/gradpack/internal/services/shared/route"
	"github.com/louisbranch/gradpack/internal/services/web/httpx"
)

// handler serves every route of the web surface.
type handler struct {
	catalog   catalog.Store
	generator *documents.Generator
	logger    *log.Logger
	now       func() time.Time
}

// NewHandler returns the routed and instrumented HTTP handler.
func NewHandler(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	h := &handler{
		catalog:   cfg.Catalog,
		generator: newGenerator(cfg),
		logger:    cfg.Logger,
		now:       cfg.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.HandlerFunc(h.index))
	mux.Handle("/preview", httpx.RequireMethod(http.MethodPost, http.HandlerFunc(h.preview)))
	mux.Handle("/download", httpx.RequireMethod(http.MethodPost, http.HandlerFunc(h.download)))
	mux.Handle("/catalog", httpx.RequireMethod(http.MethodGet, http.HandlerFunc(h.catalogPage)))
	mux.Handle("/catalog/teachers", httpx.RequireMethod(http.MethodPost, http.HandlerFunc(h.updateTeachers)))
	mux.Handle("/catalog/professions", httpx.RequireMethod(http.MethodPost, http.HandlerFunc(h.updateProfessions)))
	mux.Handle("/healthz", http.HandlerFunc(h.healthz))

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.Logging(cfg.Logger),
		httpx.RecoverPanic(cfg.Logger),
		route.TrailingSlash,
		i18nhttp.Middleware,
	)
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.renderError(w, r, apperrors.WithMetadata(apperrors.CodeNotFound, "page not found", map[string]string{"Name": r.URL.Path}))
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.renderForm(w, r, http.StatusOK, defaultForm(h.now()), nil)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.ListTeachers(r.Context()); err != nil {
		h.logger.Printf("healthz: %v", err)
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	form, batch, ok := h.generate(w, r)
	if !ok {
		return
	}
	locale := requestctx.LocaleFromContext(r.Context())
	h.render(w, r, http.StatusOK, previewPage(newPage(r), form, batch, localizeAll(batch.Warnings, locale)))
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	_, batch, ok := h.generate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := documents.WriteArchive(&buf, batch.Documents); err != nil {
		h.renderError(w, r, apperrors.Wrap(apperrors.CodeUnknown, "write archive", err))
		return
	}
	end, _ := ruformat.ParseDate(strings.TrimSpace(r.PostFormValue(fieldEndDate)))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ruformat.ArchiveName(end)))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// generate parses the posted form and builds the batch. On failure it has
// already written the response.
func (h *handler) generate(w http.ResponseWriter, r *http.Request) (formValues, documents.Batch, bool) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.Wrap(apperrors.CodeUnknown, "parse form", err))
		return formValues{}, documents.Batch{}, false
	}
	form := formFromValues(r.PostForm)
	req, problems, err := form.request(r.Context(), h.catalog)
	if err != nil {
		h.renderError(w, r, err)
		return form, documents.Batch{}, false
	}
	if len(problems) > 0 {
		h.renderForm(w, r, http.StatusBadRequest, form, problems)
		return form, documents.Batch{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Generate)
	defer cancel()
	batch, err := h.generator.Generate(ctx, req)
	if err != nil {
		var blocking documents.Problems
		if errors.As(err, &blocking) {
			h.renderForm(w, r, http.StatusBadRequest, form, blocking)
			return form, documents.Batch{}, false
		}
		h.renderError(w, r, err)
		return form, documents.Batch{}, false
	}
	return form, batch, true
}

func (h *handler) renderForm(w http.ResponseWriter, r *http.Request, status int, form formValues, problems documents.Problems) {
	professions, err := h.catalog.ListProfessions(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	teachers, err := h.catalog.ListTeachers(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	locale := requestctx.LocaleFromContext(r.Context())
	h.render(w, r, status, formPage(newPage(r), form, professions, teachers, localizeAll(problems, locale)))
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	locale := requestctx.LocaleFromContext(r.Context())
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeUnknown, err.Error(), err)
	}
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Printf("request_id=%s error=%v", requestctx.RequestIDFromContext(r.Context()), err)
	}
	h.render(w, r, status, errorPage(newPage(r), appErr.Localize(locale)))
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		h.logger.Printf("render %s: %v", r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	_ = httpx.WriteHTML(w, status, buf.String())
}

func localizeAll(problems documents.Problems, locale string) []string {
	out := make([]string, 0, len(problems))
	for _, problem := range problems {
		out = append(out, problem.Localize(locale))
	}
	return out
}

package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/gradpack/internal/catalog"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	"github.com/louisbranch/gradpack/internal/platform/requestctx"
	"github.com/louisbranch/gradpack/internal/services/web/httpx"
)

const (
	fieldAction = "action"
	fieldName   = "name"
	fieldCodes  = "codes"
	fieldHours  = "hours"

	actionAdd    = "add"
	actionDelete = "delete"
)

func (h *handler) catalogPage(w http.ResponseWriter, r *http.Request) {
	h.renderCatalog(w, r, http.StatusOK, nil)
}

func (h *handler) renderCatalog(w http.ResponseWriter, r *http.Request, status int, problem *apperrors.Error) {
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
	var messages []string
	if problem != nil {
		messages = append(messages, problem.Localize(requestctx.LocaleFromContext(r.Context())))
	}
	h.render(w, r, status, catalogPage(newPage(r), professions, teachers, messages))
}

func (h *handler) updateTeachers(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue(fieldName))
	var err error
	switch r.PostFormValue(fieldAction) {
	case actionDelete:
		err = h.catalog.DeleteTeacher(r.Context(), name)
	default:
		err = h.catalog.PutTeacher(r.Context(), catalog.Teacher{Name: name})
	}
	h.finishCatalogUpdate(w, r, name, err, apperrors.CodeTeacherInvalid)
}

func (h *handler) updateProfessions(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue(fieldName))
	if r.PostFormValue(fieldAction) == actionDelete {
		h.finishCatalogUpdate(w, r, name, h.catalog.DeleteProfession(r.Context(), name), apperrors.CodeProfessionInvalid)
		return
	}
	profession := catalog.Profession{Name: name}
	codes, err := catalog.ParseCodes(r.PostFormValue(fieldCodes))
	if err != nil {
		h.finishCatalogUpdate(w, r, name, errors.Join(catalog.ErrInvalid, err), apperrors.CodeProfessionInvalid)
		return
	}
	profession.Codes = codes
	if hours := strings.TrimSpace(r.PostFormValue(fieldHours)); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil {
			h.finishCatalogUpdate(w, r, name, errors.Join(catalog.ErrInvalid, err), apperrors.CodeProfessionInvalid)
			return
		}
		profession.Hours = n
	}
	h.finishCatalogUpdate(w, r, name, h.catalog.PutProfession(r.Context(), profession), apperrors.CodeProfessionInvalid)
}

// finishCatalogUpdate redirects back to the catalog page, or re-renders it
// with the localized problem.
func (h *handler) finishCatalogUpdate(w http.ResponseWriter, r *http.Request, name string, err error, invalid apperrors.Code) {
	switch {
	case err == nil:
		httpx.WriteRedirect(w, r, "/catalog")
	case errors.Is(err, catalog.ErrNotFound):
		h.renderCatalog(w, r, http.StatusNotFound, apperrors.WithMetadata(apperrors.CodeNotFound, err.Error(), map[string]string{"Name": name}))
	case errors.Is(err, catalog.ErrInvalid):
		h.renderCatalog(w, r, http.StatusBadRequest, apperrors.WrapWithMetadata(invalid, err.Error(), map[string]string{"Name": name, "Reason": invalidReason(err)}, err))
	default:
		h.renderError(w, r, err)
	}
}

// invalidReason strips the sentinel prefix from validation errors.
func invalidReason(err error) string {
	reason := err.Error()
	reason = strings.TrimPrefix(reason, catalog.ErrInvalid.Error())
	return strings.TrimLeft(reason, ":\n ")
}

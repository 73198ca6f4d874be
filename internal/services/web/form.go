package web

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/documents"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	"github.com/louisbranch/gradpack/internal/roster"
	"github.com/louisbranch/gradpack/internal/ruformat"
)

// Form field names.
const (
	fieldProfession  = "profession"
	fieldTeacher     = "teacher"
	fieldBeginDate   = "begin_date"
	fieldEndDate     = "end_date"
	fieldBeginNumber = "begin_number"
	fieldEndNumber   = "end_number"
	fieldCompany     = "company"
	fieldStudents    = "students"
)

// formValues is the generation form as typed by the user.
type formValues struct {
	Profession  string
	Teacher     string
	BeginDate   string
	EndDate     string
	BeginNumber string
	EndNumber   string
	Company     string
	Students    string
}

// defaultForm prefills today's dates, order number 1 and the self-enrolment
// company.
func defaultForm(now time.Time) formValues {
	today := now.Format(time.DateOnly)
	return formValues{
		BeginDate:   today,
		EndDate:     today,
		BeginNumber: "1",
		EndNumber:   "1",
		Company:     documents.DefaultCompany,
	}
}

func formFromValues(values url.Values) formValues {
	get := func(key string) string {
		return strings.TrimSpace(values.Get(key))
	}
	return formValues{
		Profession:  get(fieldProfession),
		Teacher:     get(fieldTeacher),
		BeginDate:   get(fieldBeginDate),
		EndDate:     get(fieldEndDate),
		BeginNumber: get(fieldBeginNumber),
		EndNumber:   get(fieldEndNumber),
		Company:     get(fieldCompany),
		Students:    values.Get(fieldStudents),
	}
}

// fields returns the form as ordered name/value pairs.
func (f formValues) fields() [][2]string {
	return [][2]string{
		{fieldProfession, f.Profession},
		{fieldTeacher, f.Teacher},
		{fieldBeginDate, f.BeginDate},
		{fieldEndDate, f.EndDate},
		{fieldBeginNumber, f.BeginNumber},
		{fieldEndNumber, f.EndNumber},
		{fieldCompany, f.Company},
		{fieldStudents, f.Students},
	}
}

// request converts the form. Malformed values and missing fields come back
// as problems; err is only set when the catalog fails.
func (f formValues) request(ctx context.Context, store catalog.Store) (documents.Request, documents.Problems, error) {
	var problems documents.Problems
	req := documents.Request{
		Teacher: f.Teacher,
		Company: f.Company,
	}

	if f.Profession != "" {
		profession, err := store.GetProfession(ctx, f.Profession)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			problems = append(problems, apperrors.WithMetadata(apperrors.CodeNotFound, "profession not found", map[string]string{"Name": f.Profession}))
		case err != nil:
			return documents.Request{}, nil, err
		default:
			req.Profession = profession
		}
	}

	parseDate := func(value string, dst *time.Time) {
		if value == "" {
			return
		}
		t, err := ruformat.ParseDate(value)
		if err != nil {
			problems = append(problems, apperrors.WrapWithMetadata(apperrors.CodeDateInvalid, err.Error(), map[string]string{"Value": value}, err))
			return
		}
		*dst = t
	}
	parseDate(f.BeginDate, &req.BeginDate)
	parseDate(f.EndDate, &req.EndDate)

	parseNumber := func(value string, dst *int) {
		if value == "" {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			problems = append(problems, apperrors.WithMetadata(apperrors.CodeNumberInvalid, "order number must be a positive integer", map[string]string{"Value": value}))
			return
		}
		*dst = n
	}
	parseNumber(f.BeginNumber, &req.BeginNumber)
	parseNumber(f.EndNumber, &req.EndNumber)

	students, err := roster.Parse(f.Students)
	if err != nil {
		var lineErr *roster.LineError
		if !errors.As(err, &lineErr) {
			return documents.Request{}, nil, err
		}
		problems = append(problems, apperrors.WrapWithMetadata(apperrors.CodeRosterLineInvalid, err.Error(), map[string]string{
			"Line":   strconv.Itoa(lineErr.Line),
			"Reason": lineErr.Reason,
		}, err))
	}
	req.Students = students

	if len(problems) > 0 {
		return req, problems, nil
	}
	return req, nil, nil
}

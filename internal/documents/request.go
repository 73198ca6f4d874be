package documents

import (
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/gradpack/internal/catalog"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	"github.com/louisbranch/gradpack/internal/roster"
	"github.com/louisbranch/gradpack/internal/ruformat"
)

// Replacement value names understood by the templates.
const (
	KeyBeginDate         = "beginning_date"
	KeyBeginNumber       = "beginning_number"
	KeyEndDate           = "end_date"
	KeyEndNumber         = "end_number"
	KeyCompany           = "student_company"
	KeyTeacher           = "teacher_name"
	KeyNumStudents       = "num_students"
	KeyClass             = "class"
	KeyYear              = "year"
	KeyHours             = "hours"
	KeyProfession        = "student_profession"
	KeyStudentName       = "student_name"
	KeyCertificateNumber = "certificate_number"
	KeyMachineCategory   = "machine_category"
)

// QualificationClass is the class printed on every document.
const QualificationClass = "4"

// DefaultCompany is the company used when students enrol on their own
// application.
const DefaultCompany = "заявление"

// Request is the data for one training group.
type Request struct {
	Profession  catalog.Profession
	BeginDate   time.Time
	EndDate     time.Time
	BeginNumber int
	EndNumber   int
	Teacher     string
	Company     string
	Students    []roster.Student
}

// Validate reports every missing field in form order.
func (r Request) Validate() Problems {
	var problems Problems
	if strings.TrimSpace(r.Profession.Name) == "" {
		problems = append(problems, apperrors.New(apperrors.CodeProfessionMissing, "profession is required"))
	}
	if strings.TrimSpace(r.Teacher) == "" {
		problems = append(problems, apperrors.New(apperrors.CodeTeacherMissing, "teacher is required"))
	}
	if r.BeginDate.IsZero() {
		problems = append(problems, apperrors.New(apperrors.CodeBeginDateMissing, "begin date is required"))
	}
	if r.EndDate.IsZero() {
		problems = append(problems, apperrors.New(apperrors.CodeEndDateMissing, "end date is required"))
	}
	if r.BeginNumber == 0 {
		problems = append(problems, apperrors.New(apperrors.CodeBeginNumberMissing, "begin order number is required"))
	}
	if r.EndNumber == 0 {
		problems = append(problems, apperrors.New(apperrors.CodeEndNumberMissing, "end order number is required"))
	}
	if len(r.Students) == 0 {
		problems = append(problems, apperrors.New(apperrors.CodeStudentsMissing, "at least one student is required"))
	}
	return problems
}

// Values returns the replacement values shared by every student.
func (r Request) Values() Values {
	values := Values{
		KeyBeginDate:   formatDate(r.BeginDate),
		KeyBeginNumber: r.BeginNumber,
		KeyEndDate:     formatDate(r.EndDate),
		KeyEndNumber:   r.EndNumber,
		KeyCompany:     r.Company,
		KeyTeacher:     r.Teacher,
		KeyNumStudents: len(r.Students),
		KeyClass:       QualificationClass,
		KeyYear:        r.BeginDate.Year(),
	}
	if hours := r.Profession.HoursText(); hours != "" {
		values[KeyHours] = hours
	}
	if strings.TrimSpace(r.Profession.Name) != "" {
		values[KeyProfession] = r.Profession.Wording()
	}
	return values
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return ruformat.LongDate(t)
}

// Values maps template placeholders to their replacements.
type Values map[string]any

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// ForStudent returns a copy with the per-student values set.
func (v Values) ForStudent(s roster.Student) Values {
	out := v.Clone()
	out[KeyStudentName] = s.Name
	out[KeyCertificateNumber] = s.CertificateNumber
	out[KeyMachineCategory] = s.MachineCategory
	return out
}

// String returns the value of key as text.
func (v Values) String(key string) string {
	switch value := v[key].(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

// Problems collects the validation errors of a request.
type Problems []*apperrors.Error

// Error implements error.
func (p Problems) Error() string {
	messages := make([]string, 0, len(p))
	for _, problem := range p {
		messages = append(messages, problem.Message)
	}
	return strings.Join(messages, "; ")
}

// Unwrap exposes each problem to errors.Is and errors.As.
func (p Problems) Unwrap() []error {
	out := make([]error, 0, len(p))
	for _, problem := range p {
		out = append(out, problem)
	}
	return out
}

// Blocking returns the problems that prevent generation. A missing student
// list only warns: the documents are still produced, empty.
func (p Problems) Blocking() Problems {
	var out Problems
	for _, problem := range p {
		if problem.Code != apperrors.CodeStudentsMissing {
			out = append(out, problem)
		}
	}
	return out
}

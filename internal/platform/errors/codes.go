// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeProfessionMissing  Code = "PROFESSION_MISSING"
	CodeTeacherMissing     Code = "TEACHER_MISSING"
	CodeBeginDateMissing   Code = "BEGIN_DATE_MISSING"
	CodeEndDateMissing     Code = "END_DATE_MISSING"
	CodeBeginNumberMissing Code = "BEGIN_NUMBER_MISSING"
	CodeEndNumberMissing   Code = "END_NUMBER_MISSING"
	CodeStudentsMissing    Code = "STUDENTS_MISSING"
	CodeDateInvalid        Code = "DATE_INVALID"
	CodeNumberInvalid      Code = "NUMBER_INVALID"
	CodeRosterLineInvalid  Code = "ROSTER_LINE_INVALID"

	// Catalog errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeProfessionInvalid Code = "PROFESSION_INVALID"
	CodeTeacherInvalid    Code = "TEACHER_INVALID"

	// Generation errors
	CodeTemplateUnavailable Code = "TEMPLATE_UNAVAILABLE"
	CodeGenerationFailed    Code = "GENERATION_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeProfessionMissing,
		CodeTeacherMissing,
		CodeBeginDateMissing,
		CodeEndDateMissing,
		CodeBeginNumberMissing,
		CodeEndNumberMissing,
		CodeStudentsMissing,
		CodeDateInvalid,
		CodeNumberInvalid,
		CodeRosterLineInvalid,
		CodeProfessionInvalid,
		CodeTeacherInvalid:
		return http.StatusBadRequest

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// ServiceUnavailable - template files missing or unreadable
	case CodeTemplateUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// Codes lists every defined code except CodeUnknown.
func Codes() []Code {
	return []Code{
		CodeProfessionMissing,
		CodeTeacherMissing,
		CodeBeginDateMissing,
		CodeEndDateMissing,
		CodeBeginNumberMissing,
		CodeEndNumberMissing,
		CodeStudentsMissing,
		CodeDateInvalid,
		CodeNumberInvalid,
		CodeRosterLineInvalid,
		CodeNotFound,
		CodeProfessionInvalid,
		CodeTeacherInvalid,
		CodeTemplateUnavailable,
		CodeGenerationFailed,
	}
}

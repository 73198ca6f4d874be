// Package roster parses student rows pasted from a spreadsheet.
//
// Each non-empty line describes one student. Fields are separated by tabs and
// empty fields are dropped, so a row copied from a sheet with blank columns
// still lines up. The layout is:
//
//	certificate <TAB> _ <TAB> _ <TAB> name [<TAB> machine category]
//
// The two skipped columns hold data the documents do not use (course and
// group in the source sheet).
package roster

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Student is one graduate of the training group.
type Student struct {
	Name              string
	CertificateNumber int
	MachineCategory   string
}

// LineError reports a malformed roster line.
type LineError struct {
	Line   int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("roster line %d: %s", e.Line, e.Reason)
}

const minFields = 4

// Parse reads one student per non-empty line of text.
func Parse(text string) ([]Student, error) {
	var students []Student
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		student, err := parseLine(raw)
		if err != nil {
			return nil, &LineError{Line: line, Reason: err.Error()}
		}
		students = append(students, student)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return students, nil
}

func parseLine(raw string) (Student, error) {
	var fields []string
	for _, field := range strings.Split(raw, "\t") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	if len(fields) < minFields {
		return Student{}, fmt.Errorf("want at least %d fields, got %d", minFields, len(fields))
	}
	number, err := ParseCertificateNumber(fields[0])
	if err != nil {
		return Student{}, err
	}
	student := Student{Name: fields[3], CertificateNumber: number}
	if len(fields) > minFields {
		student.MachineCategory = fields[4]
	}
	return student, nil
}

// ParseCertificateNumber accepts integers and decimals ("12", "12.0",
// "12,0") and truncates them to an integer.
func ParseCertificateNumber(value string) (int, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("certificate number %q is not a number", value)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("certificate number %q is out of range", value)
	}
	return int(f), nil
}

// Lines formats students back into roster text, one tab separated line per
// student.
func Lines(students []Student) string {
	var b strings.Builder
	for _, s := range students {
		fields := []string{strconv.Itoa(s.CertificateNumber), "-", "-", s.Name}
		if s.MachineCategory != "" {
			fields = append(fields, s.MachineCategory)
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

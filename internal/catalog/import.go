package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/gradpack/internal/docx"
)

// ParseProfessionTable reads the professions classifier from the first table
// of a Word document. Column 0 holds the profession name and column 1 its
// code: a number, "-" for none, or a comma separated list. Rows with a blank
// name are skipped; repeated names merge their codes. Professions are
// returned sorted by name.
func ParseProfessionTable(pkg *docx.Package) ([]Profession, error) {
	tables := pkg.Tables()
	if len(tables) == 0 {
		return nil, fmt.Errorf("professions document has no table")
	}
	byName := map[string][]int{}
	for i, row := range tables[0].Rows() {
		cells := row.Cells()
		if len(cells) < 2 {
			continue
		}
		name := strings.TrimSpace(cells[0].Text())
		if name == "" {
			continue
		}
		codes, err := ParseCodes(cells[1].Text())
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, name, err)
		}
		byName[name] = append(byName[name], codes...)
	}

	out := make([]Profession, 0, len(byName))
	for name, codes := range byName {
		out = append(out, Profession{Name: name, Codes: codes}.Normalize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ParseCodes parses a classifier code cell.
func ParseCodes(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil, nil
	}
	var codes []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("code %q is not a number", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Package ruformat formats dates the way Russian official documents print
// them.
package ruformat

import (
	"fmt"
	"time"
)

var genitiveMonths = [...]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// GenitiveMonth returns the month name as used after a day number.
func GenitiveMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return genitiveMonths[m]
}

// LongDate returns "02 марта 2025 г.".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d г.", t.Day(), GenitiveMonth(t.Month()), t.Year())
}

// ShortDate returns "02.03.2025".
func ShortDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// ArchiveName returns the download name of a document batch ending on end.
func ArchiveName(end time.Time) string {
	return ShortDate(end) + ".zip"
}

// ParseDate reads an ISO date ("2025-03-02") as sent by HTML date inputs, or
// a short Russian date ("02.03.2025").
func ParseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "02.01.2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD or DD.MM.YYYY", value)
}

// Hours returns n with the matching form of "час": "1 час", "3 часа",
// "72 часа", "11 часов".
func Hours(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "час", "часа", "часов"))
}

func plural(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return many
	case n%10 == 1:
		return one
	case n%10 >= 2 && n%10 <= 4:
		return few
	default:
		return many
	}
}

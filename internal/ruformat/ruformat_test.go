package ruformat

import (
	"testing"
	"time"
)

func TestLongDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date time.Time
		want string
	}{
		{date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), want: "02 марта 2025 г."},
		{date: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), want: "31 декабря 2024 г."},
		{date: time.Date(2026, time.May, 9, 15, 4, 0, 0, time.UTC), want: "09 мая 2026 г."},
	}
	for _, tc := range tests {
		if got := LongDate(tc.date); got != tc.want {
			t.Fatalf("LongDate(%s) = %q, want %q", tc.date.Format(time.DateOnly), got, tc.want)
		}
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	if got := ArchiveName(end); got != "02.03.2025.zip" {
		t.Fatalf("ArchiveName() = %q, want 02.03.2025.zip", got)
	}
}

func TestGenitiveMonthOutOfRange(t *testing.T) {
	t.Parallel()

	if got := GenitiveMonth(0); got != "" {
		t.Fatalf("GenitiveMonth(0) = %q, want empty", got)
	}
	if got := GenitiveMonth(13); got != "" {
		t.Fatalf("GenitiveMonth(13) = %q, want empty", got)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2025-03-02", "02.03.2025"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseDate("March 2"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestHours(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]string{
		1:   "1 час",
		3:   "3 часа",
		5:   "5 часов",
		11:  "11 часов",
		21:  "21 час",
		72:  "72 часа",
		112: "112 часов",
		160: "160 часов",
	} {
		if got := Hours(n); got != want {
			t.Fatalf("Hours(%d) = %q, want %q", n, got, want)
		}
	}
}

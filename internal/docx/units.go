package docx

import "strconv"

// Length is a distance in English Metric Units (914400 per inch).
type Length int64

const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	emuPerTwip  = 635
)

// Inches converts inches to a Length.
func Inches(v float64) Length {
	return Length(v * emuPerInch)
}

// Pt converts points to a Length.
func Pt(v float64) Length {
	return Length(v * emuPerPoint)
}

// Twips converts twentieths of a point to a Length.
func Twips(v int64) Length {
	return Length(v * emuPerTwip)
}

// EMU returns the length in English Metric Units.
func (l Length) EMU() int64 {
	return int64(l)
}

// Twips returns the length in twentieths of a point, the unit of most
// WordprocessingML measurements.
func (l Length) Twips() int64 {
	return int64(l) / emuPerTwip
}

// HalfPoints returns the length in half points, the unit of w:sz.
func (l Length) HalfPoints() int64 {
	return int64(l) / (emuPerPoint / 2)
}

// Inches returns the length in inches.
func (l Length) Inches() float64 {
	return float64(l) / emuPerInch
}

// Points returns the length in points.
func (l Length) Points() float64 {
	return float64(l) / emuPerPoint
}

func (l Length) twipsString() string {
	return strconv.FormatInt(l.Twips(), 10)
}

func (l Length) emuString() string {
	return strconv.FormatInt(int64(l), 10)
}

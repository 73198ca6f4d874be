package assembly

import (
	"errors"
	"strings"

	"github.com/louisbranch/gradpack/internal/docx"
)

// Text markers that template authors place where the education logo goes.
const (
	LogoMarker       = "prof_educ_logo"
	BiggerLogoMarker = "bigger_educ_logo"
)

// LogoName is the media file name used for the education logo.
const LogoName = "professional-education-logo.png"

// Size of the logo drawn for BiggerLogoMarker.
var (
	BiggerLogoWidth  = docx.Inches(1.53)
	BiggerLogoHeight = docx.Inches(1.09)
)

// ErrMissingLogo is returned when a template contains a logo marker but no
// logo picture was supplied.
var ErrMissingLogo = errors.New("assembly: logo marker found but no logo picture")

// ReplaceMarkers swaps logo markers in every run of the cell, nested tables
// included, for the logo picture.
func ReplaceMarkers(cell *docx.Cell, logo []byte) error {
	for _, run := range cell.Runs() {
		if err := replaceRunMarkers(run, logo); err != nil {
			return err
		}
	}
	return nil
}

func replaceRunMarkers(run *docx.Run, logo []byte) error {
	text := run.Text()
	if strings.Contains(text, LogoMarker) {
		if len(logo) == 0 {
			return ErrMissingLogo
		}
		text = strings.ReplaceAll(text, LogoMarker, "")
		run.SetText(text)
		if err := run.AddInlinePicture(LogoName, logo, 0, 0); err != nil {
			return err
		}
	}
	if strings.Contains(text, BiggerLogoMarker) {
		if len(logo) == 0 {
			return ErrMissingLogo
		}
		run.SetText(strings.ReplaceAll(text, BiggerLogoMarker, ""))
		if err := run.AddInlinePicture(LogoName, logo, BiggerLogoWidth, BiggerLogoHeight); err != nil {
			return err
		}
	}
	return nil
}

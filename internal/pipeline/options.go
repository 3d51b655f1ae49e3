package pipeline

import (
	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// DefaultDPI matches the resolution pdf2image-era outputs were produced at.
const DefaultDPI = 300

// ConvertOptions controls rendering and recognition. The zero LastPage means
// "to the end of the document".
type ConvertOptions struct {
	DPI          int
	FirstPage    int
	LastPage     int
	PopplerPath  string
	TesseractCmd string
	OCRLang      string
}

// DefaultOptions returns options for the whole document at DefaultDPI.
func DefaultOptions() ConvertOptions {
	return ConvertOptions{DPI: DefaultDPI, FirstPage: 1}
}

// Validate checks settings that do not depend on a concrete document.
func (o ConvertOptions) Validate() error {
	if o.DPI <= 0 {
		return &apperr.ConfigError{Field: "dpi", Msg: "must be a positive integer"}
	}
	return nil
}

// ResolveRange returns the inclusive page range against a document with total
// pages. A missing last page becomes total; an explicit one past the end is an
// error rather than a clamp.
func (o ConvertOptions) ResolveRange(total int) (first, last int, err error) {
	first, last = o.FirstPage, o.LastPage
	if last < 0 {
		return 0, 0, &apperr.RangeError{First: first, Last: last, Total: total, Msg: "last page must be positive"}
	}
	if last == 0 {
		last = total
	}
	switch {
	case first < 1:
		return 0, 0, &apperr.RangeError{First: first, Last: last, Total: total, Msg: "first page must be at least 1"}
	case last < first:
		return 0, 0, &apperr.RangeError{First: first, Last: last, Total: total, Msg: "last page before first page"}
	case last > total:
		return 0, 0, &apperr.RangeError{First: first, Last: last, Total: total, Msg: "last page beyond document end"}
	}
	return first, last, nil
}

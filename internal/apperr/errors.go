// Package apperr defines the error taxonomy shared by the conversion pipeline,
// the corrector and the CLI.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one.
var (
	ErrDocument = errors.New("document error")
	ErrRange    = errors.New("range error")
	ErrRender   = errors.New("render error")
	ErrOCR      = errors.New("ocr error")
	ErrConfig   = errors.New("config error")
	ErrService  = errors.New("service error")
)

// DocumentError reports an unreadable or corrupt PDF.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("open document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() []error { return []error{ErrDocument, e.Err} }

// RangeError reports page bounds that do not fit the document.
type RangeError struct {
	First int
	Last  int
	Total int
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid page range %d-%d (document has %d pages): %s", e.First, e.Last, e.Total, e.Msg)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// RenderError reports a failure to rasterize a page.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }

// OCRError reports a recognition failure on one of a page's images.
type OCRError struct {
	Page  int
	Image int
	Err   error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("ocr page %d image %d: %v", e.Page, e.Image, e.Err)
}

func (e *OCRError) Unwrap() []error { return []error{ErrOCR, e.Err} }

// ConfigError reports a missing or invalid setting.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s: %s", e.Field, e.Msg)
	}
	return "config: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// ServiceError reports a failed call to the correction service. Page is zero
// when the caller did not attach one.
type ServiceError struct {
	Page int
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("correction service (page %d): %v", e.Page, e.Err)
	}
	return fmt.Sprintf("correction service: %v", e.Err)
}

func (e *ServiceError) Unwrap() []error { return []error{ErrService, e.Err} }

// Stage names the pipeline stage an error came from, for user-facing
// messages. Unknown errors report "run".
func Stage(err error) string {
	switch {
	case errors.Is(err, ErrDocument):
		return "document"
	case errors.Is(err, ErrRange):
		return "range"
	case errors.Is(err, ErrRender):
		return "render"
	case errors.Is(err, ErrOCR):
		return "ocr"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrService):
		return "correction"
	}
	return "run"
}

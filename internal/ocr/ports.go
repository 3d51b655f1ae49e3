package ocr

import "context"

// Input is a single encoded image submitted for recognition.
type Input struct {
	// Image is the encoded payload (PNG from the renderer).
	Image []byte
	// Page is the 1-indexed source page, used for logging only.
	Page int
	// DPI is the resolution the page was rendered at; zero means unknown.
	DPI int
	// Language is a tesseract language code such as "eng" or "deu+eng".
	// Empty lets the engine use its default.
	Language string
}

// InputOption mutates an Input before recognition.
type InputOption func(*Input)

// WithLanguage sets the language code.
func WithLanguage(lang string) InputOption {
	return func(in *Input) { in.Language = lang }
}

// WithDPI sets the rendering resolution hint.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPage records the source page.
func WithPage(page int) InputOption {
	return func(in *Input) { in.Page = page }
}

// NewInput builds an Input for image with opts applied in order.
func NewInput(image []byte, opts ...InputOption) Input {
	in := Input{Image: image}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// Engine turns one image into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (string, error)
}

package pdf

import "context"

// PageImage is one raster produced for a page.
type PageImage struct {
	Bytes    []byte
	FileName string
	MimeType string
}

// Renderer rasterizes a single 1-indexed page of the PDF at path.
type Renderer interface {
	RenderPage(ctx context.Context, path string, page, dpi int) ([]PageImage, error)
}

// Document is an open, read-only PDF handle.
type Document interface {
	PageCount() int
	Close() error
}

// DocumentSource opens documents for page counting.
type DocumentSource interface {
	Open(path string) (Document, error)
}

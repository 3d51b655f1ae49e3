package pipeline

import (
	"context"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
	"github.com/Vovarama1992/pdfocr/internal/ocr"
	"github.com/Vovarama1992/pdfocr/internal/pdf"
)

// PageResult is the OCR text of one 1-indexed page.
type PageResult struct {
	Number int
	Text   string
}

// ProgressFunc receives the number of pages handed to and released by the
// caller, and the size of the requested range.
type ProgressFunc func(done, total int)

type Service struct {
	docs   pdf.DocumentSource
	render pdf.Renderer
	engine ocr.Engine
	log    *zap.Logger
}

func NewService(docs pdf.DocumentSource, render pdf.Renderer, engine ocr.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{docs: docs, render: render, engine: engine, log: log}
}

// Produce opens the document, resolves the page range and returns an iterator
// positioned before the first page. Nothing is rendered until Next is called.
// The document stays open until the iterator is exhausted, fails, or is
// closed.
func (s *Service) Produce(ctx context.Context, path string, opts ConvertOptions, progress ProgressFunc) (*Iterator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.docs.Open(path)
	if err != nil {
		return nil, &apperr.DocumentError{Path: path, Err: err}
	}

	total := doc.PageCount()
	first, last, err := opts.ResolveRange(total)
	if err != nil {
		return nil, multierr.Append(err, doc.Close())
	}

	s.log.Info("document opened",
		zap.String("path", path),
		zap.Int("pages", total),
		zap.Int("first_page", first),
		zap.Int("last_page", last),
		zap.String("ocr_engine", s.engine.Name()),
	)

	return &Iterator{
		ctx:      ctx,
		svc:      s,
		path:     path,
		opts:     opts,
		progress: progress,
		doc:      doc,
		total:    total,
		first:    first,
		last:     last,
		next:     first,
	}, nil
}

// Convert drives a fresh iterator to completion, calling fn for every page in
// order. It stops at the first error from the pipeline or from fn.
func (s *Service) Convert(ctx context.Context, path string, opts ConvertOptions, progress ProgressFunc, fn func(PageResult) error) (err error) {
	it, err := s.Produce(ctx, path, opts, progress)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, it.Close()) }()

	for it.Next() {
		if err := fn(it.Page()); err != nil {
			return err
		}
	}
	return it.Err()
}

// Iterator yields pages lazily in ascending order. It is single-use: once
// Next returns false it keeps returning false.
type Iterator struct {
	ctx      context.Context
	svc      *Service
	path     string
	opts     ConvertOptions
	progress ProgressFunc

	doc         pdf.Document
	total       int
	first, last int
	next        int

	cur     PageResult
	pending bool
	err     error
	done    bool
}

// Range reports the resolved inclusive page range.
func (it *Iterator) Range() (first, last int) { return it.first, it.last }

// DocumentPages reports the page count of the whole document.
func (it *Iterator) DocumentPages() int { return it.total }

// Next renders and recognizes the next page. Progress for the previous page
// is reported here, once the caller has come back for more.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	it.reportPending()

	if it.next > it.last {
		it.finish(nil)
		return false
	}

	page := it.next
	text, err := it.convertPage(page)
	if err != nil {
		it.finish(err)
		return false
	}

	it.cur = PageResult{Number: page, Text: text}
	it.next++
	it.pending = true
	return true
}

func (it *Iterator) convertPage(page int) (string, error) {
	log := it.svc.log.With(zap.Int("page", page))

	images, err := it.svc.render.RenderPage(it.ctx, it.path, page, it.opts.DPI)
	if err != nil {
		return "", &apperr.RenderError{Page: page, Err: err}
	}
	log.Debug("page rendered", zap.Int("images", len(images)))

	var sb strings.Builder
	for i, img := range images {
		in := ocr.NewInput(img.Bytes,
			ocr.WithPage(page),
			ocr.WithDPI(it.opts.DPI),
			ocr.WithLanguage(it.opts.OCRLang),
		)
		text, err := it.svc.engine.Recognize(it.ctx, in)
		if err != nil {
			return "", &apperr.OCRError{Page: page, Image: i + 1, Err: err}
		}
		sb.WriteString(text)
	}
	log.Debug("page recognized", zap.Int("chars", sb.Len()))
	return sb.String(), nil
}

func (it *Iterator) reportPending() {
	if !it.pending {
		return
	}
	it.pending = false
	if it.progress != nil {
		it.progress(it.cur.Number-it.first+1, it.last-it.first+1)
	}
}

func (it *Iterator) finish(err error) {
	it.done = true
	it.err = multierr.Append(err, it.Close())
}

// Page returns the page produced by the last successful Next.
func (it *Iterator) Page() PageResult { return it.cur }

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error { return it.err }

// Close releases the document. It is safe to call more than once and after
// the iterator finished on its own.
func (it *Iterator) Close() error {
	it.done = true
	if it.doc == nil {
		return nil
	}
	err := it.doc.Close()
	it.doc = nil
	return err
}

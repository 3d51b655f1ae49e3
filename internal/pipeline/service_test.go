package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
	"github.com/Vovarama1992/pdfocr/internal/ocr"
	"github.com/Vovarama1992/pdfocr/internal/pdf"
)

type fakeDoc struct {
	pages  int
	closed int
}

func (d *fakeDoc) PageCount() int { return d.pages }
func (d *fakeDoc) Close() error   { d.closed++; return nil }

type fakeSource struct {
	doc *fakeDoc
	err error
}

func (s *fakeSource) Open(path string) (pdf.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

type fakeRenderer struct {
	perPage  int
	failPage int
	calls    []int
	dpis     []int
}

func (r *fakeRenderer) RenderPage(ctx context.Context, path string, page, dpi int) ([]pdf.PageImage, error) {
	r.calls = append(r.calls, page)
	r.dpis = append(r.dpis, dpi)
	if page == r.failPage {
		return nil, errors.New("pdftoppm: exit status 99")
	}
	n := r.perPage
	if n == 0 {
		n = 1
	}
	images := make([]pdf.PageImage, n)
	for i := range images {
		images[i] = pdf.PageImage{Bytes: []byte(fmt.Sprintf("p%d-i%d", page, i+1))}
	}
	return images, nil
}

// fakeEngine echoes the image payload so concatenation order is visible.
type fakeEngine struct {
	failOn string
	inputs []ocr.Input
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, in ocr.Input) (string, error) {
	e.inputs = append(e.inputs, in)
	if string(in.Image) == e.failOn {
		return "", errors.New("engine crashed")
	}
	return "[" + string(in.Image) + "]", nil
}

func newTestService(pages int) (*Service, *fakeDoc, *fakeRenderer, *fakeEngine) {
	doc := &fakeDoc{pages: pages}
	r := &fakeRenderer{}
	e := &fakeEngine{}
	return NewService(&fakeSource{doc: doc}, r, e, nil), doc, r, e
}

func collect(t *testing.T, it *Iterator) []PageResult {
	t.Helper()
	var out []PageResult
	for it.Next() {
		out = append(out, it.Page())
	}
	return out
}

func TestProduceYieldsContiguousAscendingRange(t *testing.T) {
	cases := []struct {
		name        string
		pages       int
		first, last int
		wantFirst   int
		wantLast    int
	}{
		{"whole document", 5, 1, 0, 1, 5},
		{"explicit full", 5, 1, 5, 1, 5},
		{"middle", 10, 3, 6, 3, 6},
		{"single page", 4, 4, 4, 4, 4},
		{"open end from middle", 7, 5, 0, 5, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, doc, _, _ := newTestService(tc.pages)
			opts := ConvertOptions{DPI: 300, FirstPage: tc.first, LastPage: tc.last}

			it, err := svc.Produce(context.Background(), "doc.pdf", opts, nil)
			require.NoError(t, err)
			got := collect(t, it)
			require.NoError(t, it.Err())

			require.Len(t, got, tc.wantLast-tc.wantFirst+1)
			for i, r := range got {
				assert.Equal(t, tc.wantFirst+i, r.Number)
			}
			assert.Equal(t, 1, doc.closed)
		})
	}
}

func TestProduceRangeErrors(t *testing.T) {
	cases := []struct {
		name        string
		first, last int
	}{
		{"first page zero", 0, 2},
		{"first after last", 3, 2},
		{"last beyond total", 1, 6},
		{"first beyond open end", 6, 0},
		{"negative last page", 1, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, doc, r, _ := newTestService(5)
			_, err := svc.Produce(context.Background(), "doc.pdf", ConvertOptions{DPI: 300, FirstPage: tc.first, LastPage: tc.last}, nil)

			var rerr *apperr.RangeError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, 5, rerr.Total)
			assert.Empty(t, r.calls, "range must be rejected before rendering")
			assert.Equal(t, 1, doc.closed)
		})
	}
}

func TestNegativeLastPageReportsDocumentSize(t *testing.T) {
	svc, _, _, _ := newTestService(5)
	_, err := svc.Produce(context.Background(), "doc.pdf", ConvertOptions{DPI: 300, FirstPage: 1, LastPage: -1}, nil)

	require.ErrorIs(t, err, apperr.ErrRange)
	assert.Contains(t, err.Error(), "document has 5 pages")
}

func TestProduceRejectsBadDPI(t *testing.T) {
	svc, _, _, _ := newTestService(1)
	_, err := svc.Produce(context.Background(), "doc.pdf", ConvertOptions{DPI: 0, FirstPage: 1}, nil)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestProduceDocumentError(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("not a PDF file: invalid header")}, &fakeRenderer{}, &fakeEngine{}, nil)
	_, err := svc.Produce(context.Background(), "broken.pdf", DefaultOptions(), nil)

	var derr *apperr.DocumentError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "broken.pdf", derr.Path)
	assert.Contains(t, err.Error(), "invalid header")
}

func TestIteratorConcatenatesImagesInRenderOrder(t *testing.T) {
	svc, _, r, e := newTestService(2)
	r.perPage = 3

	it, err := svc.Produce(context.Background(), "doc.pdf", ConvertOptions{DPI: 150, FirstPage: 2, OCRLang: "deu"}, nil)
	require.NoError(t, err)
	got := collect(t, it)
	require.NoError(t, it.Err())

	assert.Equal(t, []PageResult{{Number: 2, Text: "[p2-i1][p2-i2][p2-i3]"}}, got)
	assert.Equal(t, []int{150}, r.dpis)
	for _, in := range e.inputs {
		assert.Equal(t, "deu", in.Language)
		assert.Equal(t, 150, in.DPI)
		assert.Equal(t, 2, in.Page)
	}
}

func TestIteratorIsLazy(t *testing.T) {
	svc, _, r, _ := newTestService(3)
	it, err := svc.Produce(context.Background(), "doc.pdf", DefaultOptions(), nil)
	require.NoError(t, err)
	defer it.Close()

	assert.Empty(t, r.calls)
	require.True(t, it.Next())
	assert.Equal(t, []int{1}, r.calls)
}

func TestRenderErrorAbortsRemainingPages(t *testing.T) {
	svc, doc, r, _ := newTestService(4)
	r.failPage = 2

	it, err := svc.Produce(context.Background(), "doc.pdf", DefaultOptions(), nil)
	require.NoError(t, err)
	got := collect(t, it)

	assert.Equal(t, []PageResult{{Number: 1, Text: "[p1-i1]"}}, got)
	var rerr *apperr.RenderError
	require.ErrorAs(t, it.Err(), &rerr)
	assert.Equal(t, 2, rerr.Page)
	assert.Equal(t, []int{1, 2}, r.calls)
	assert.Equal(t, 1, doc.closed)
	assert.False(t, it.Next(), "iterator is not restartable")
}

func TestOCRErrorNamesPageAndImage(t *testing.T) {
	svc, doc, r, e := newTestService(3)
	r.perPage = 2
	e.failOn = "p3-i2"

	it, err := svc.Produce(context.Background(), "doc.pdf", DefaultOptions(), nil)
	require.NoError(t, err)
	got := collect(t, it)

	assert.Len(t, got, 2)
	var oerr *apperr.OCRError
	require.ErrorAs(t, it.Err(), &oerr)
	assert.Equal(t, 3, oerr.Page)
	assert.Equal(t, 2, oerr.Image)
	assert.Equal(t, 1, doc.closed)
}

func TestProgressReportedPerPage(t *testing.T) {
	svc, _, _, _ := newTestService(6)
	type call struct{ done, total int }
	var calls []call

	err := svc.Convert(context.Background(), "doc.pdf", ConvertOptions{DPI: 300, FirstPage: 2, LastPage: 4},
		func(done, total int) { calls = append(calls, call{done, total}) },
		func(PageResult) error { return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []call{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestProgressDoesNotChangeOutput(t *testing.T) {
	run := func(progress ProgressFunc) []PageResult {
		svc, _, _, _ := newTestService(3)
		var out []PageResult
		require.NoError(t, svc.Convert(context.Background(), "doc.pdf", DefaultOptions(), progress, func(r PageResult) error {
			out = append(out, r)
			return nil
		}))
		return out
	}
	assert.Equal(t, run(nil), run(func(int, int) {}))
}

func TestConvertStopsOnCallbackError(t *testing.T) {
	svc, doc, r, _ := newTestService(5)
	stop := errors.New("disk full")

	err := svc.Convert(context.Background(), "doc.pdf", DefaultOptions(), nil, func(p PageResult) error {
		if p.Number == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{1, 2}, r.calls)
	assert.Equal(t, 1, doc.closed)
}

func TestCloseIsIdempotent(t *testing.T) {
	svc, doc, _, _ := newTestService(2)
	it, err := svc.Produce(context.Background(), "doc.pdf", DefaultOptions(), nil)
	require.NoError(t, err)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
	assert.False(t, it.Next())
	assert.Equal(t, 1, doc.closed)
}

func TestEmptyPageTextIsKept(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	svc := NewService(&fakeSource{doc: doc}, &fakeRenderer{}, emptyEngine{}, nil)

	var got []PageResult
	require.NoError(t, svc.Convert(context.Background(), "doc.pdf", DefaultOptions(), nil, func(p PageResult) error {
		got = append(got, p)
		return nil
	}))
	assert.Equal(t, []PageResult{{Number: 1, Text: ""}}, got)
}

type emptyEngine struct{}

func (emptyEngine) Name() string { return "empty" }
func (emptyEngine) Recognize(context.Context, ocr.Input) (string, error) {
	return "", nil
}

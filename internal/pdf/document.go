package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/multierr"
	rpdf "rsc.io/pdf"
)

// FileSource opens PDFs from the local filesystem. Pages are counted with
// rsc.io/pdf; files it rejects (PDF 2.0 headers, bytes after %%EOF) are
// retried with pdfcpu in relaxed validation mode.
type FileSource struct {
	conf *model.Configuration
}

func NewFileSource() *FileSource {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &FileSource{conf: conf}
}

type fileDocument struct {
	f     *os.File
	pages int
}

func (d *fileDocument) PageCount() int { return d.pages }

func (d *fileDocument) Close() error { return d.f.Close() }

// Open keeps the file open until the returned Document is closed.
func (s *FileSource) Open(path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	n, err := countPages(f, st.Size())
	if err != nil {
		var rerr error
		n, rerr = s.countPagesRelaxed(f)
		if rerr != nil {
			return nil, multierr.Append(err, rerr)
		}
	}
	if n < 1 {
		return nil, errors.New("no pages found")
	}

	return &fileDocument{f: f, pages: n}, nil
}

// countPages guards against rsc.io/pdf panicking on malformed cross-reference
// data.
func countPages(f *os.File, size int64) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := rpdf.NewReader(f, size)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

func (s *FileSource) countPagesRelaxed(f *os.File) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return api.PageCount(f, s.conf)
}

package output

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// Opener resolves destination paths: "-" is stdout, "s3://bucket/key" is an
// object upload, anything else a local file that is truncated on open.
type Opener struct {
	Stdout io.Writer
	// NewS3 is called at most once, on the first s3:// path.
	NewS3 func() (*S3Uploader, error)

	s3 *S3Uploader
}

func (o *Opener) Open(ctx context.Context, path string) (io.WriteCloser, error) {
	switch {
	case path == "-":
		w := o.Stdout
		if w == nil {
			w = os.Stdout
		}
		return nopCloser{w}, nil

	case strings.HasPrefix(path, "s3://"):
		bucket, key, err := ParseS3URL(path)
		if err != nil {
			return nil, &apperr.ConfigError{Field: "output", Msg: err.Error()}
		}
		if o.s3 == nil {
			if o.NewS3 == nil {
				return nil, &apperr.ConfigError{Field: "output", Msg: "s3 destinations are not configured"}
			}
			up, err := o.NewS3()
			if err != nil {
				return nil, &apperr.ConfigError{Field: "s3", Msg: err.Error()}
			}
			o.s3 = up
		}
		return o.s3.Create(ctx, bucket, key), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

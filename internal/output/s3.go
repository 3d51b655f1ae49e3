package output

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the connection settings for s3:// destinations.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Insecure  bool
}

type objectPutter interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Uploader streams outputs into an S3-compatible bucket.
type S3Uploader struct {
	client objectPutter
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is not set")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}
	return &S3Uploader{client: client}, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs a bucket and a key: %s", raw)
	}
	return u.Host, key, nil
}

// Create starts an upload of unknown size. Bytes written are streamed to the
// object; Close finishes the upload and reports its result.
func (u *S3Uploader) Create(ctx context.Context, bucket, key string) io.WriteCloser {
	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		_, err := u.client.PutObject(ctx, bucket, key, pr, -1, minio.PutObjectOptions{
			ContentType:  "text/plain; charset=utf-8",
			PartSize:     5 << 20,
			UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
		})
		if err != nil {
			err = fmt.Errorf("upload failed: %w", err)
		}
		// Unblocks the writer when the upload stops early.
		pr.CloseWithError(err)
		done <- err
	}()

	return &s3Writer{pw: pw, done: done}
}

type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) { return w.pw.Write(p) }

func (w *s3Writer) Close() error {
	w.pw.Close()
	return <-w.done
}

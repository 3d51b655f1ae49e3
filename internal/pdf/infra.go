package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PopplerRenderer renders pages with poppler's pdftoppm.
type PopplerRenderer struct {
	bin string
	log *zap.Logger
}

// NewPopplerRenderer returns a renderer that runs pdftoppm from binDir, or
// from PATH when binDir is empty.
func NewPopplerRenderer(binDir string, log *zap.Logger) *PopplerRenderer {
	bin := "pdftoppm"
	if binDir != "" {
		bin = filepath.Join(binDir, bin)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PopplerRenderer{bin: bin, log: log}
}

func (c *PopplerRenderer) RenderPage(
	ctx context.Context,
	path string,
	page, dpi int,
) ([]PageImage, error) {

	tmpDir, err := os.MkdirTemp("", "pdfocr-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	outBase := filepath.Join(tmpDir, "page")

	cmd := exec.CommandContext(
		ctx,
		c.bin,
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-png",
		path,
		outBase,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Debug("pdftoppm", zap.Int("page", page), zap.Int("dpi", dpi))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pdftoppm: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm zero-pads the page suffix to the width of the page count,
	// so page-7.png and page-007.png are both possible.
	files, err := filepath.Glob(outBase + "-*.png")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var images []PageImage
	for _, fn := range files {
		b, err := os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		images = append(images, PageImage{
			Bytes:    b,
			FileName: fmt.Sprintf("page-%d-%d.png", page, len(images)+1),
			MimeType: "image/png",
		})
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no images generated for page %d", page)
	}

	return images, nil
}

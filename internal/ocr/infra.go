package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CLIEngine runs the tesseract binary once per image, piping the image on
// stdin and reading text from stdout.
type CLIEngine struct {
	cmd string
	log *zap.Logger
}

// NewCLIEngine returns an engine for the tesseract binary at cmd, or the one
// on PATH when cmd is empty.
func NewCLIEngine(cmd string, log *zap.Logger) *CLIEngine {
	if cmd == "" {
		cmd = "tesseract"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CLIEngine{cmd: cmd, log: log}
}

func (e *CLIEngine) Name() string { return "tesseract-cli" }

func (e *CLIEngine) Recognize(ctx context.Context, in Input) (string, error) {
	args := []string{"stdin", "stdout"}
	if in.Language != "" {
		args = append(args, "-l", in.Language)
	}
	if in.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(in.DPI))
	}

	cmd := exec.CommandContext(ctx, e.cmd, args...)
	cmd.Stdin = bytes.NewReader(in.Image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug("tesseract", zap.Int("page", in.Page), zap.Int("bytes", len(in.Image)))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	// tesseract terminates every page with a form feed.
	return strings.TrimSuffix(stdout.String(), "\f"), nil
}

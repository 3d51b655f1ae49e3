package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// inTempDir runs the test from an empty directory so a developer's
// pdfocr.yaml or .env cannot leak in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, 1, cfg.FirstPage)
	assert.Equal(t, 0, cfg.LastPage)
	assert.Equal(t, "raw", cfg.Mode)
	assert.Equal(t, "cli", cfg.OCREngine)
	assert.Equal(t, "output_raw.txt", cfg.RawOut)
	assert.Equal(t, "output_corrected.txt", cfg.CorrectedOut)
	assert.Equal(t, "output_diff.txt", cfg.DiffOut)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-9)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadEnvironment(t *testing.T) {
	inTempDir(t)
	t.Setenv("PDFOCR_DPI", "150")
	t.Setenv("PDFOCR_OCR_LANG", "deu")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("S3_ENDPOINT", "minio.local:9000")
	t.Setenv("S3_INSECURE", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "987654")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, "deu", cfg.OCRLang)
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
	assert.Equal(t, "minio.local:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.Insecure)
	assert.Equal(t, int64(987654), cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.Enabled())
}

func TestLoadFileThenOverrides(t *testing.T) {
	dir := inTempDir(t)
	yaml := "dpi: 200\nmode: all\nraw_out: book_raw.txt\nlast_page: 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdfocr.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("", map[string]any{"dpi": 600, "first_page": 2})
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.DPI)
	assert.Equal(t, 2, cfg.FirstPage)
	assert.Equal(t, 9, cfg.LastPage)
	assert.Equal(t, "all", cfg.Mode)
	assert.Equal(t, "book_raw.txt", cfg.RawOut)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := inTempDir(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestValidate(t *testing.T) {
	inTempDir(t)
	cases := map[string]map[string]any{
		"mode":       {"mode": "everything"},
		"ocr_engine": {"ocr_engine": "easyocr"},
		"dpi":        {"dpi": 0},
		"max_tokens": {"max_tokens": -1},
	}
	for field, overrides := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Load("", overrides)
			var cerr *apperr.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, field, cerr.Field)
		})
	}
}

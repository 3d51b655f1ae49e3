package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is the command line. Flags left unset fall through to the environment,
// pdfocr.yaml and the built-in defaults, so valued flags are pointers.
type CLI struct {
	Input string `arg:"" optional:"" help:"PDF to convert. When omitted the path is read from stdin." type:"path"`

	Config string `name:"config" short:"c" help:"Config file (default: ./pdfocr.yaml if present)." type:"path"`

	DPI          *int    `name:"dpi" help:"Rendering resolution (default: 300)."`
	FirstPage    *int    `name:"first-page" help:"First page to process, 1-indexed."`
	LastPage     *int    `name:"last-page" help:"Last page to process, 1-indexed (default: last page)."`
	PopplerPath  *string `name:"poppler-path" help:"Directory holding pdftoppm."`
	TesseractCmd *string `name:"tesseract-cmd" help:"Tesseract executable."`
	OCRLang      *string `name:"ocr-lang" help:"Tesseract language, e.g. eng or eng+deu."`
	OCREngine    *string `name:"ocr-engine" help:"OCR engine: cli or gosseract (needs a build with -tags gosseract)."`

	Mode         *string `name:"mode" short:"m" help:"Output mode: raw, corrected, diff or all."`
	RawOut       *string `name:"raw-out" help:"Raw text destination (file, - or s3://bucket/key)."`
	CorrectedOut *string `name:"corrected-out" help:"Corrected text destination."`
	DiffOut      *string `name:"diff-out" help:"Diff destination."`
	Summary      *string `name:"summary" help:"Write a JSON run summary to this file."`

	Model       *string  `name:"model" help:"Correction model."`
	MaxTokens   *int     `name:"max-tokens" help:"Completion token limit."`
	Temperature *float64 `name:"temperature" help:"Sampling temperature."`

	NoProgress bool `name:"no-progress" help:"Disable the terminal progress bar."`
	Verbose    bool `name:"verbose" short:"v" help:"Enable debug logs."`

	Version kong.VersionFlag `name:"version" help:"Print version and exit."`
}

// overrides returns the flags that were given, keyed like the config file.
func (c *CLI) overrides() map[string]any {
	out := map[string]any{}
	put(out, "dpi", c.DPI)
	put(out, "first_page", c.FirstPage)
	put(out, "last_page", c.LastPage)
	put(out, "poppler_path", c.PopplerPath)
	put(out, "tesseract_cmd", c.TesseractCmd)
	put(out, "ocr_lang", c.OCRLang)
	put(out, "ocr_engine", c.OCREngine)
	put(out, "mode", c.Mode)
	put(out, "raw_out", c.RawOut)
	put(out, "corrected_out", c.CorrectedOut)
	put(out, "diff_out", c.DiffOut)
	put(out, "summary", c.Summary)
	put(out, "model", c.Model)
	put(out, "max_tokens", c.MaxTokens)
	put(out, "temperature", c.Temperature)
	if c.NoProgress {
		out["no_progress"] = true
	}
	if c.Verbose {
		out["verbose"] = true
	}
	return out
}

func put[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

func parseCLI(args []string, opts ...kong.Option) (*CLI, *kong.Context, error) {
	var cli CLI
	opts = append([]kong.Option{
		kong.Name("pdfocr"),
		kong.Description("Convert a PDF to text with OCR, optionally correct it and diff the correction."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}, opts...)
	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return nil, nil, err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return nil, nil, err
	}
	return &cli, kctx, nil
}

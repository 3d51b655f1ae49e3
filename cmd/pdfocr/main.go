package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
	"github.com/Vovarama1992/pdfocr/internal/config"
	"github.com/Vovarama1992/pdfocr/internal/correct"
	"github.com/Vovarama1992/pdfocr/internal/notify"
	"github.com/Vovarama1992/pdfocr/internal/output"
	"github.com/Vovarama1992/pdfocr/internal/pdf"
	"github.com/Vovarama1992/pdfocr/internal/pipeline"
	"github.com/Vovarama1992/pdfocr/internal/progress"
	"github.com/Vovarama1992/pdfocr/internal/runner"
)

const serviceName = "pdfocr"

func main() {
	cli, _, err := parseCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfocr: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) int {

	// =========================================================================
	// CONFIG
	// =========================================================================

	dotenv := config.LoadDotEnv()

	cfg, err := config.Load(cli.Config, cli.overrides())
	if err != nil {
		fmt.Fprintf(stderr, "pdfocr: %v\n", err)
		return 1
	}
	mode, err := runner.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "pdfocr: %v\n", err)
		return 1
	}

	baseLogger, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(stderr, "pdfocr: init logger: %v\n", err)
		return 1
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	baseLogger.Debug("config loaded",
		zap.Bool("dotenv", dotenv),
		zap.String("mode", cfg.Mode),
		zap.Int("dpi", cfg.DPI),
		zap.String("ocr_engine", cfg.OCREngine),
		zap.String("model", cfg.Model),
		zap.Bool("api_key_set", cfg.OpenAIAPIKey != ""),
		zap.Bool("s3", cfg.S3.Endpoint != ""),
		zap.Bool("telegram", cfg.Telegram.Enabled()),
	)

	input, err := resolveInput(cli.Input, stdin, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "pdfocr: %v\n", err)
		return 1
	}

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	renderer := pdf.NewPopplerRenderer(cfg.PopplerPath, baseLogger)
	engine, err := newEngine(cfg, baseLogger)
	if err != nil {
		fmt.Fprintf(stderr, "pdfocr: %v\n", err)
		return 1
	}

	opener := &output.Opener{
		Stdout: stdout,
		NewS3: func() (*output.S3Uploader, error) {
			return output.NewS3Uploader(output.S3Config{
				Endpoint:  cfg.S3.Endpoint,
				AccessKey: cfg.S3.AccessKey,
				SecretKey: cfg.S3.SecretKey,
				Region:    cfg.S3.Region,
				Insecure:  cfg.S3.Insecure,
			})
		},
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			baseLogger.Warn("telegram notifications disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	var onProgress pipeline.ProgressFunc
	if f, ok := stderr.(*os.File); ok && !cfg.NoProgress && progress.IsTerminal(f) {
		bar := progress.NewBar(f)
		onProgress = bar.Update
		defer bar.Finish()
	}

	// =========================================================================
	// SERVICES
	// =========================================================================

	pageService := pipeline.NewService(pdf.NewFileSource(), renderer, engine, baseLogger)
	correctService := correct.NewService(
		correct.OpenAIFactory(cfg.OpenAIBaseURL),
		correct.Options{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
		},
		baseLogger,
	)
	notifyService := notify.NewService(notifier, baseLogger)

	r := runner.New(pageService, correctService, opener, notifyService, onProgress, baseLogger)

	// =========================================================================
	// RUN
	// =========================================================================

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "converting " + input,
		Service: serviceName,
	})

	_, err = r.Run(ctx, runner.Options{
		Input: input,
		Convert: pipeline.ConvertOptions{
			DPI:          cfg.DPI,
			FirstPage:    cfg.FirstPage,
			LastPage:     cfg.LastPage,
			PopplerPath:  cfg.PopplerPath,
			TesseractCmd: cfg.TesseractCmd,
			OCRLang:      cfg.OCRLang,
		},
		Mode:         mode,
		RawOut:       cfg.RawOut,
		CorrectedOut: cfg.CorrectedOut,
		DiffOut:      cfg.DiffOut,
		APIKey:       cfg.OpenAIAPIKey,
		SummaryPath:  cfg.Summary,
	})
	if err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: apperr.Stage(err) + " failed",
			Error:   err,
			Service: serviceName,
		})
		fmt.Fprintf(stderr, "pdfocr: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

//go:build !gosseract

package main

import (
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
	"github.com/Vovarama1992/pdfocr/internal/config"
	"github.com/Vovarama1992/pdfocr/internal/ocr"
)

func newEngine(cfg *config.AppConfig, log *zap.Logger) (ocr.Engine, error) {
	if cfg.OCREngine == "gosseract" {
		return nil, &apperr.ConfigError{Field: "ocr_engine", Msg: "gosseract is not compiled in; rebuild with -tags gosseract"}
	}
	return ocr.NewCLIEngine(cfg.TesseractCmd, log), nil
}

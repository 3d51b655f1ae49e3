//go:build gosseract

package main

import (
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/config"
	"github.com/Vovarama1992/pdfocr/internal/ocr"
	"github.com/Vovarama1992/pdfocr/internal/ocr/gosseract"
)

func newEngine(cfg *config.AppConfig, log *zap.Logger) (ocr.Engine, error) {
	if cfg.OCREngine == "gosseract" {
		return gosseract.NewEngine(), nil
	}
	return ocr.NewCLIEngine(cfg.TesseractCmd, log), nil
}

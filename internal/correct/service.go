package correct

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

const promptPrefix = "Please correct the following text for grammar, punctuation, and capitalization:\n\n"

// Options tunes the completion request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

func DefaultOptions() Options {
	return Options{
		Model:       "gpt-4o-mini",
		MaxTokens:   2048,
		Temperature: 0.5,
	}
}

// BuildPrompt embeds text verbatim after the fixed instruction.
func BuildPrompt(text string) string {
	return promptPrefix + text
}

type Service struct {
	newClient ClientFactory
	opts      Options
	log       *zap.Logger
}

func NewService(newClient ClientFactory, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{newClient: newClient, opts: opts, log: log}
}

// Correct sends text to the service once and returns the trimmed revision.
// An empty apiKey fails before any client exists.
func (s *Service) Correct(ctx context.Context, text, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &apperr.ConfigError{Field: "OPENAI_API_KEY", Msg: "an API key is required for correction"}
	}

	client := s.newClient(apiKey)
	out, err := client.Complete(ctx, Request{
		Prompt:      BuildPrompt(text),
		Model:       s.opts.Model,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		return "", &apperr.ServiceError{Err: err}
	}

	out = strings.TrimSpace(out)
	s.log.Debug("text corrected",
		zap.String("model", s.opts.Model),
		zap.Int("in_chars", len(text)),
		zap.Int("out_chars", len(out)),
	)
	return out, nil
}

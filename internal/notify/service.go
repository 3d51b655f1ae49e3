package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// Report is what a run tells the notifier.
type Report struct {
	Input    string
	Mode     string
	Pages    int
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Message renders r as a short plain-text message.
func Message(r Report) string {
	name := filepath.Base(r.Input)
	took := strings.TrimSpace(humanize.RelTime(r.Started, r.Started.Add(r.Duration), "", ""))
	if r.Err != nil {
		return fmt.Sprintf("❗ pdfocr failed\n\nFile: %s\nMode: %s\nStage: %s\nPages done: %d\nAfter: %s\n\n%v",
			name, r.Mode, apperr.Stage(r.Err), r.Pages, took, r.Err)
	}
	return fmt.Sprintf("✅ pdfocr finished\n\nFile: %s\nMode: %s\nPages: %d\nTook: %s",
		name, r.Mode, r.Pages, took)
}

type Service struct {
	n   Notifier
	log *zap.Logger
}

func NewService(n Notifier, log *zap.Logger) *Service {
	if n == nil {
		n = Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{n: n, log: log}
}

// RunFinished sends the report. Delivery problems are logged only; they never
// change the outcome of the run.
func (s *Service) RunFinished(ctx context.Context, r Report) {
	if err := s.n.Notify(ctx, Message(r)); err != nil {
		s.log.Warn("notification not delivered", zap.Error(err))
	}
}

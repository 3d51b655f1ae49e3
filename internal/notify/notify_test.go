package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

type recorder struct {
	texts []string
	err   error
}

func (r *recorder) Notify(ctx context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

func TestMessageSuccess(t *testing.T) {
	msg := Message(Report{
		Input:    "/scans/book.pdf",
		Mode:     "all",
		Pages:    12,
		Started:  time.Now(),
		Duration: 3 * time.Minute,
	})
	assert.Contains(t, msg, "pdfocr finished")
	assert.Contains(t, msg, "File: book.pdf")
	assert.Contains(t, msg, "Pages: 12")
	assert.Contains(t, msg, "3 minutes")
}

func TestMessageFailureNamesStage(t *testing.T) {
	msg := Message(Report{
		Input:   "book.pdf",
		Mode:    "raw",
		Pages:   4,
		Started: time.Now(),
		Err:     &apperr.OCRError{Page: 5, Image: 1, Err: errors.New("crash")},
	})
	assert.Contains(t, msg, "pdfocr failed")
	assert.Contains(t, msg, "Stage: ocr")
	assert.Contains(t, msg, "ocr page 5 image 1: crash")
}

func TestRunFinishedSwallowsDeliveryErrors(t *testing.T) {
	rec := &recorder{err: errors.New("network down")}
	NewService(rec, nil).RunFinished(context.Background(), Report{Input: "a.pdf"})
	assert.Len(t, rec.texts, 1)
}

func TestNilNotifierIsNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewService(nil, nil).RunFinished(context.Background(), Report{Input: "a.pdf"})
	})
}

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramSendsToChat(t *testing.T) {
	s := &fakeSender{}
	tg := &Telegram{bot: s, chatID: 42}

	require.NoError(t, tg.Notify(context.Background(), "done"))
	require.Len(t, s.sent, 1)
	msg, ok := s.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "done", msg.Text)
}

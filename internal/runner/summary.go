package runner

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/pdfocr/internal/output"
)

// Summary describes a finished run, successful or not.
type Summary struct {
	RunID      string        `json:"run_id"`
	Input      string        `json:"input"`
	Mode       Mode          `json:"mode"`
	FirstPage  int           `json:"first_page,omitempty"`
	LastPage   int           `json:"last_page,omitempty"`
	Pages      int           `json:"pages_done"`
	Streams    []output.Stat `json:"streams"`
	StartedAt  time.Time     `json:"started_at"`
	DurationMS int64         `json:"duration_ms"`
	Error      string        `json:"error,omitempty"`
	Stage      string        `json:"failed_stage,omitempty"`
}

// WriteSummary stores s as indented JSON at path.
func WriteSummary(path string, s Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

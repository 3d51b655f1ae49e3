package runner

import (
	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// Mode selects which output streams a run produces.
type Mode string

const (
	ModeRaw       Mode = "raw"
	ModeCorrected Mode = "corrected"
	ModeDiff      Mode = "diff"
	ModeAll       Mode = "all"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRaw, ModeCorrected, ModeDiff, ModeAll:
		return m, nil
	}
	return "", &apperr.ConfigError{Field: "mode", Msg: "must be one of raw, corrected, diff, all"}
}

func (m Mode) WantRaw() bool       { return m == ModeRaw || m == ModeAll }
func (m Mode) WantCorrected() bool { return m == ModeCorrected || m == ModeAll }
func (m Mode) WantDiff() bool      { return m == ModeDiff || m == ModeAll }

// NeedsCorrection reports whether the run calls the correction service.
func (m Mode) NeedsCorrection() bool { return m.WantCorrected() || m.WantDiff() }

// Package progress draws a single-line terminal progress bar.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Bar redraws itself in place with a carriage return.
type Bar struct {
	w      io.Writer
	Prefix string
	Suffix string
	Length int
	Fill   string
	drawn  bool
}

func NewBar(w io.Writer) *Bar {
	return &Bar{
		w:      w,
		Prefix: "Processing:",
		Suffix: "Complete",
		Length: 50,
		Fill:   "█",
	}
}

// Update draws done out of total. A non-positive total draws nothing.
func (b *Bar) Update(done, total int) {
	if total <= 0 {
		return
	}
	filled := b.Length * done / total
	if filled > b.Length {
		filled = b.Length
	}
	bar := strings.Repeat(b.Fill, filled) + strings.Repeat("-", b.Length-filled)
	percent := 100 * float64(done) / float64(total)
	fmt.Fprintf(b.w, "\r%s |%s| %.1f%% %s", b.Prefix, bar, percent, b.Suffix)
	b.drawn = true
}

// Finish ends the bar's line if anything was drawn.
func (b *Bar) Finish() {
	if b.drawn {
		fmt.Fprintln(b.w)
		b.drawn = false
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Package diff reports the lines a correction pass added or removed.
//
// The edit script follows the classic ndiff algorithm: lines are aligned with
// a longest-matching-block SequenceMatcher, and inside replaced blocks the
// most similar pair of lines is used as a synchronisation point so that a
// lightly edited line shows up as "- old" directly followed by "+ new".
// Unchanged lines and intraline hints are never reported.
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind tags a reported line.
type Kind int

const (
	Removed Kind = iota
	Added
)

// Line is one added or removed line.
type Line struct {
	Kind Kind
	Text string
}

// String renders the line with its "+ " or "- " marker.
func (l Line) String() string {
	if l.Kind == Added {
		return "+ " + l.Text
	}
	return "- " + l.Text
}

// Report is the ordered change list for one page.
type Report []Line

// Strings renders every line with its marker.
func (r Report) Strings() []string {
	out := make([]string, len(r))
	for i, l := range r {
		out[i] = l.String()
	}
	return out
}

// Lines compares raw and corrected text line by line.
func Lines(raw, corrected string) Report {
	a, b := SplitLines(raw), SplitLines(corrected)
	d := &differ{}

	m := difflib.NewMatcher(a, b)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'r':
			d.fancyReplace(a, op.I1, op.I2, b, op.J1, op.J2)
		case 'd':
			d.dump(Removed, a, op.I1, op.I2)
		case 'i':
			d.dump(Added, b, op.J1, op.J2)
		}
	}
	return d.out
}

// SplitLines splits on the same boundaries as Python's str.splitlines:
// \n, \r, \r\n, \v, \f, \x1c-\x1e, U+0085, U+2028 and U+2029. A trailing
// break does not start an empty final line.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if i < start || !isLineBreak(r) {
			continue
		}
		lines = append(lines, s[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && strings.HasPrefix(s[start:], "\n") {
			start++
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

const (
	cutoff    = 0.75
	bestFloor = 0.74
)

type differ struct {
	out Report
}

func (d *differ) dump(kind Kind, lines []string, lo, hi int) {
	for _, l := range lines[lo:hi] {
		d.out = append(d.out, Line{Kind: kind, Text: l})
	}
}

// plainReplace dumps the shorter block first.
func (d *differ) plainReplace(a []string, alo, ahi int, b []string, blo, bhi int) {
	if bhi-blo < ahi-alo {
		d.dump(Added, b, blo, bhi)
		d.dump(Removed, a, alo, ahi)
		return
	}
	d.dump(Removed, a, alo, ahi)
	d.dump(Added, b, blo, bhi)
}

func (d *differ) fancyReplace(a []string, alo, ahi int, b []string, blo, bhi int) {
	bestRatio := bestFloor
	bestI, bestJ := -1, -1
	eqI, eqJ := -1, -1

	cruncher := difflib.NewMatcherWithJunk(nil, nil, true, isCharJunk)
	for j := blo; j < bhi; j++ {
		bj := chars(b[j])
		cruncher.SetSeq2(bj)
		for i := alo; i < ahi; i++ {
			if a[i] == b[j] {
				if eqI < 0 {
					eqI, eqJ = i, j
				}
				continue
			}
			cruncher.SetSeq1(chars(a[i]))
			if cruncher.RealQuickRatio() > bestRatio &&
				cruncher.QuickRatio() > bestRatio &&
				cruncher.Ratio() > bestRatio {
				bestRatio, bestI, bestJ = cruncher.Ratio(), i, j
			}
		}
	}

	identical := false
	if bestRatio < cutoff {
		if eqI < 0 {
			d.plainReplace(a, alo, ahi, b, blo, bhi)
			return
		}
		bestI, bestJ, identical = eqI, eqJ, true
	}

	d.fancyHelper(a, alo, bestI, b, blo, bestJ)
	if !identical {
		d.out = append(d.out,
			Line{Kind: Removed, Text: a[bestI]},
			Line{Kind: Added, Text: b[bestJ]},
		)
	}
	d.fancyHelper(a, bestI+1, ahi, b, bestJ+1, bhi)
}

func (d *differ) fancyHelper(a []string, alo, ahi int, b []string, blo, bhi int) {
	switch {
	case alo < ahi && blo < bhi:
		d.fancyReplace(a, alo, ahi, b, blo, bhi)
	case alo < ahi:
		d.dump(Removed, a, alo, ahi)
	case blo < bhi:
		d.dump(Added, b, blo, bhi)
	}
}

func isCharJunk(s string) bool {
	return s == " " || s == "\t"
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

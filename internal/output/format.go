// Package output writes page blocks to the raw, corrected and diff streams.
//
// Every block is a blank line, the page header and the payload, so each page
// can be located by scanning for its header:
//
//	\n*********** PAGE 3 ***********\n<payload>
package output

import (
	"fmt"
	"io"
	"strings"
)

// FormatPageHeader returns the header line for a 1-indexed page, without
// surrounding whitespace.
func FormatPageHeader(page int) string {
	return fmt.Sprintf("*********** PAGE %d ***********", page)
}

// WritePageText writes a header followed by text as-is.
func WritePageText(w io.Writer, page int, text string) error {
	_, err := io.WriteString(w, "\n"+FormatPageHeader(page)+"\n"+text)
	return err
}

// WritePageLines writes a header followed by each line and a newline.
func WritePageLines(w io.Writer, page int, lines []string) error {
	var sb strings.Builder
	sb.WriteString("\n" + FormatPageHeader(page) + "\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

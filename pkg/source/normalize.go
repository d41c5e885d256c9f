package source

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var lineCleaner = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\f", "\n", // pdftotext page break
	"\u00a0", " ",
)

// Normalize prepares extracted text for the parsers: NFC composition, LF line
// endings, page breaks as line breaks, no-break spaces as spaces and no
// trailing whitespace. The number and order of lines are otherwise unchanged.
func Normalize(text string) string {
	text = lineCleaner.Replace(norm.NFC.String(text))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minParentheticalRun is the shortest (...) operand worth keeping; shorter
// runs are almost always kerning fragments or operator noise.
const minParentheticalRun = 10

// minPrintableRatio gates the raw-buffer fallback so binary PDFs without
// literal string operands fail loudly instead of returning garbage.
const minPrintableRatio = 0.6

// Operand content is escaped pairs or plain non-paren characters, so
// literal \( and \) inside a string do not terminate the run.
var reParenthetical = regexp.MustCompile(`\(((?:\\.|[^()\\]){10,})\)`)

var escapeReplacer = strings.NewReplacer(
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\(`, "(",
	`\)`, ")",
	`\\`, `\`,
)

// ParentheticalStrings scans raw bytes for parenthesis-delimited runs of 10+
// characters (literal string operands in PDF content streams) and decodes
// common backslash escapes. Returns "" when nothing non-trivial was found.
func ParentheticalStrings(data []byte) string {
	matches := reParenthetical.FindAllStringSubmatch(string(data), -1)
	if len(matches) == 0 {
		return ""
	}
	var parts []string
	for _, m := range matches {
		s := escapeReplacer.Replace(m[1])
		if strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, s)
	}
	out := strings.TrimSpace(strings.Join(parts, "\n"))
	if len(out) < 2*minParentheticalRun {
		return ""
	}
	return out
}

// RawBufferText decodes the raw buffer as text, stripped of null bytes and
// invalid UTF-8. It returns "" unless the result is mostly printable; this
// is the final, deliberately bounded fallback. Invalid bytes count against
// the printable ratio, so high-bit binary does not slip through as a wall
// of replacement characters.
func RawBufferText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data))
	var printable, total int
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		i += size
		if r == 0 {
			continue
		}
		total++
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
		b.WriteRune(r)
	}
	if total == 0 || float64(printable)/float64(total) < minPrintableRatio {
		return ""
	}
	return strings.TrimSpace(b.String())
}

// Package preprocess produces the condensed, noise-reduced rendering of
// extracted text used for template matching. Its output is advisory only:
// it never replaces the original text for field extraction or display.
package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// minStructuralLen is the floor below which structural analysis is
	// pointless; shorter inputs are passed through wrapped.
	minStructuralLen = 50

	// maxOutputLen bounds the preprocessed text handed to the matcher.
	maxOutputLen = 4000

	// minStreamPayload is how much readable stream content a PDF container
	// must yield before we treat it as the working text.
	minStreamPayload = 100

	previewLines = 20
)

var (
	reWhitespace  = regexp.MustCompile(`[ \t]+`)
	reBlankLines  = regexp.MustCompile(`\n{3,}`)
	reLoneDigits  = regexp.MustCompile(`(?m)^\s*\d{1,2}\s*$`)
	reDocNoise    = regexp.MustCompile(`(?i)\b(?:page|document|confidential)\s*\d+\b`)
	reDate        = regexp.MustCompile(`\b\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}\b`)
	reEmail       = regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.-]+\b`)
	rePhone       = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	reDataPattern = regexp.MustCompile(`[:\d/-]`)

	reStreamBlock = regexp.MustCompile(`(?s)\bstream\r?\n(.*?)\bendstream\b`)
	reFontDef     = regexp.MustCompile(`/(?:Font|BaseFont)\b`)
)

var pdfMetadataKeys = []string{
	"Creator", "Producer", "CreationDate", "ModDate",
	"Subject", "Title", "Author", "Keywords",
}

// ForMatching transforms extracted text into the lossy form the template
// matcher compares against. Pure and deterministic.
func ForMatching(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minStructuralLen {
		return "Minimal content document:\n" + trimmed
	}

	if isPDFContainer(trimmed) {
		meta := extractPDFMetadata(trimmed)
		payload := extractStreamPayload(trimmed)
		if len(payload) >= minStreamPayload {
			return clip(summarize(cleanText(payload)))
		}
		return clip(pdfAnalysisReport(trimmed, meta))
	}

	return clip(summarize(cleanText(trimmed)))
}

func isPDFContainer(text string) bool {
	return strings.Contains(text, "%PDF-") && strings.Contains(text, "/Type")
}

// cleanText normalizes whitespace and substitutes PII-like patterns with
// placeholder tokens so matching compares structure, not particulars.
func cleanText(text string) string {
	text = reWhitespace.ReplaceAllString(text, " ")
	text = collapseRepeats(text)
	text = reLoneDigits.ReplaceAllString(text, "")
	text = reDocNoise.ReplaceAllString(text, "")
	text = reDate.ReplaceAllString(text, "[DATE]")
	text = reEmail.ReplaceAllString(text, "[EMAIL]")
	text = rePhone.ReplaceAllString(text, "[PHONE]")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// collapseRepeats shortens any run of 10 or more identical runes to a single
// occurrence. Decorative separators and filler padding carry no matching
// signal.
func collapseRepeats(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= 10 {
			b.WriteRune(runes[i])
		} else {
			b.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return b.String()
}

// summarize emits the structural summary plus a bounded content preview.
func summarize(text string) string {
	lines := strings.Split(text, "\n")
	var nonEmpty, headers, dataLines []string
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		if t == "" {
			continue
		}
		nonEmpty = append(nonEmpty, t)
		if isHeaderLine(t) {
			headers = append(headers, t)
		}
		if len(t) > 10 && reDataPattern.MatchString(t) {
			dataLines = append(dataLines, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Document structure: %d characters, %d lines (%d non-empty)\n", len(text), len(lines), len(nonEmpty))
	fmt.Fprintf(&b, "Header-like lines: %d\n", len(headers))
	if len(headers) > 0 {
		max := len(headers)
		if max > 5 {
			max = 5
		}
		fmt.Fprintf(&b, "Headers: %s\n", strings.Join(headers[:max], " | "))
	}
	fmt.Fprintf(&b, "Data-pattern lines: %d\n", len(dataLines))
	b.WriteString("Content preview:\n")
	max := len(nonEmpty)
	if max > previewLines {
		max = previewLines
	}
	b.WriteString(strings.Join(nonEmpty[:max], "\n"))
	return b.String()
}

// isHeaderLine marks short all-uppercase lines as probable section headers.
func isHeaderLine(line string) bool {
	if len(strings.Fields(line)) > 10 {
		return false
	}
	var letters, upper int
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters > 0 && letters == upper
}

// extractPDFMetadata pulls labeled metadata values out of raw PDF syntax.
func extractPDFMetadata(text string) map[string]string {
	meta := map[string]string{}
	for _, key := range pdfMetadataKeys {
		re := regexp.MustCompile(`/` + key + `\s*\(([^)]*)\)`)
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			if v != "" {
				meta[key] = v
			}
		}
	}
	return meta
}

// extractStreamPayload collects the readable portions of stream blocks.
func extractStreamPayload(text string) string {
	var parts []string
	for _, m := range reStreamBlock.FindAllStringSubmatch(text, -1) {
		var b strings.Builder
		for _, r := range m[1] {
			if unicode.IsPrint(r) || r == '\n' {
				b.WriteRune(r)
			}
		}
		candidate := strings.TrimSpace(b.String())
		if len(candidate) >= 20 && hasReadableWords(candidate) {
			parts = append(parts, candidate)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

var reWord = regexp.MustCompile(`[a-zA-Z]{3,}`)

func hasReadableWords(s string) bool {
	return reWord.MatchString(s)
}

// pdfAnalysisReport synthesizes a structured description of a content-free
// PDF so the matcher always receives something informative.
func pdfAnalysisReport(text string, meta map[string]string) string {
	var b strings.Builder
	b.WriteString("PDF Document Analysis\n")
	if len(meta) > 0 {
		b.WriteString("Metadata:\n")
		for _, key := range pdfMetadataKeys {
			if v, ok := meta[key]; ok {
				fmt.Fprintf(&b, "  %s: %s\n", key, v)
			}
		}
	}
	fmt.Fprintf(&b, "Font definitions: %d\n", len(reFontDef.FindAllString(text, -1)))

	var printable strings.Builder
	for _, r := range text {
		if unicode.IsPrint(r) {
			printable.WriteRune(r)
		}
		if printable.Len() >= 300 {
			break
		}
	}
	b.WriteString("Content preview: ")
	b.WriteString(printable.String())
	return b.String()
}

func clip(s string) string {
	if len(s) <= maxOutputLen {
		return s
	}
	cut := maxOutputLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

package extract

import (
	"regexp"
	"strings"
)

var (
	reReadableRun = regexp.MustCompile(`[a-zA-Z]{3,}|\d{3,}`)
	reObjMarker   = regexp.MustCompile(`\d+\s+\d+\s+obj\b`)
	reStreamPair  = regexp.MustCompile(`(?s)\bstream\r?\n.*?\bendstream\b`)
	reXrefTable   = regexp.MustCompile(`xref\s+\d+\s+\d+`)
)

// IsFullyDigital reports whether directly-extracted PDF text is complete and
// readable enough to skip OCR: non-empty, more than 10 lines, and containing
// readable alphabetic or numeric runs. Text carrying raw PDF container
// syntax never qualifies, regardless of the other signals: extracting the
// container's own bytes as "text" is the failure mode this guards against.
func IsFullyDigital(text string) bool {
	if len(text) == 0 {
		return false
	}
	if LooksLikePDFSource(text) {
		return false
	}
	if len(strings.Split(text, "\n")) <= 10 {
		return false
	}
	return reReadableRun.MatchString(text)
}

// LooksLikePDFSource detects raw PDF container syntax: the %PDF- header
// together with a /Type key, object markers, stream/endstream pairs, or an
// xref table.
func LooksLikePDFSource(text string) bool {
	if strings.Contains(text, "%PDF-") && strings.Contains(text, "/Type") {
		return true
	}
	if reObjMarker.MatchString(text) {
		return true
	}
	if reStreamPair.MatchString(text) {
		return true
	}
	return reXrefTable.MatchString(text)
}

package language

import (
	"log/slog"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// Detection is the outcome of language detection. Language is an ISO 639-3
// code, Score is in 0..1.
type Detection struct {
	Language string
	Score    float64
}

// Unknown is the recoverable default: language is an enrichment signal, not
// a correctness requirement, so detection failures map here instead of
// propagating.
var Unknown = Detection{Language: "unknown", Score: 0}

// Detector detects the dominant language of a raw byte buffer.
type Detector interface {
	Detect(buf []byte) Detection
}

// TrigramDetector is the whatlanggo-backed Detector. It never fails the
// caller.
type TrigramDetector struct {
	log *slog.Logger
}

func NewTrigramDetector(logger *slog.Logger) *TrigramDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrigramDetector{log: logger}
}

func (d *TrigramDetector) Detect(buf []byte) Detection {
	if len(buf) == 0 {
		return Unknown
	}

	// Binary buffers (raw PDFs, images) are mostly invalid UTF-8; trigram
	// detection over them is noise. Keep only the valid runes.
	text := string(buf)
	if !utf8.ValidString(text) {
		text = string([]rune(text))
	}

	info := whatlanggo.Detect(text)
	if info.Lang == -1 || !info.IsReliable() {
		d.log.Debug("language detection unreliable", "confidence", info.Confidence)
		return Unknown
	}

	return Detection{
		Language: info.Lang.Iso6393(),
		Score:    info.Confidence,
	}
}

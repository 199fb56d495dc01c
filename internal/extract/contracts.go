package extract

import (
	"context"
	"time"

	"github.com/tochi-dev/docmatch/constants"
)

// PDFTextReader pulls embedded text objects out of a PDF without rendering.
type PDFTextReader interface {
	ExtractText(data []byte) (string, error)
}

// PageCounter reports the number of pages in a PDF.
type PageCounter interface {
	PageCount(data []byte) (int, error)
}

// PageRenderer rasterizes one page of a PDF to image bytes. Page numbers are
// 1-based. A failure for one page must not poison subsequent pages.
type PageRenderer interface {
	RenderPage(ctx context.Context, data []byte, page int) (imageData []byte, mimeType string, err error)
}

// Result carries everything extraction produced for one document.
// CombinedText is the authoritative output; DirectText and OCRText are
// retained for diagnostics.
type Result struct {
	DirectText    string
	OCRText       string
	CombinedText  string
	Language      string
	LanguageScore float64
	Type          constants.DocumentType
	Pages         int
	Method        string // "pdf-text" | "pdf-ocr" | "pdf-fallback" | "image-ocr" | "blind"
	Duration      time.Duration
}

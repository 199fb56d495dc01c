package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DirectReader implements PDFTextReader and PageCounter over the embedded
// text objects of a PDF.
type DirectReader struct {
	log *slog.Logger
}

var _ PDFTextReader = (*DirectReader)(nil)
var _ PageCounter = (*DirectReader)(nil)

func NewDirectReader(logger *slog.Logger) *DirectReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectReader{log: logger}
}

// ExtractText concatenates the plain text of every page in document order.
// Pages that fail to decode are skipped rather than failing the document.
func (d *DirectReader) ExtractText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf content")
	}
	var b strings.Builder
	// The pdf library panics on some malformed content streams; degrade to
	// whatever pages decoded before the panic.
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("pdf text extraction panicked", "panic", rec)
			text = strings.TrimSpace(b.String())
			err = nil
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			d.log.Debug("direct extraction skipped page", "page", i, "error", err)
			continue
		}
		pageText = strings.TrimSpace(normalizeLineBreaks(pageText))
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}
	return strings.TrimSpace(b.String()), nil
}

// PageCount reads the page count from the PDF structure. Malformed or
// encrypted files degrade to a count of 1 so that OCR still attempts the
// first page instead of aborting the document.
func (d *DirectReader) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil || n < 1 {
		d.log.Warn("page count failed, assuming single page", "error", err)
		return 1, nil
	}
	return n, nil
}

func normalizeLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

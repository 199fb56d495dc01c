package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tochi-dev/docmatch/internal/llm"
)

// OCRPages renders each page and sends it to the vision model, returning one
// entry per page that yielded text, in page order. Pages are processed
// sequentially: one in-flight vision call at a time keeps us under provider
// rate limits. A single bad page is logged and skipped; total failure yields
// an empty slice, never an error.
func (e *Extractor) OCRPages(ctx context.Context, data []byte, language string, totalPages int) []string {
	if totalPages < 1 {
		totalPages = 1
	}
	if e.cfg.MaxPages > 0 && totalPages > e.cfg.MaxPages {
		e.log.Warn("capping ocr pages", "total", totalPages, "max", e.cfg.MaxPages)
		totalPages = e.cfg.MaxPages
	}

	var results []string
	for page := 1; page <= totalPages; page++ {
		e.log.Info("processing page", "page", page, "total", totalPages)

		img, mimeType, err := e.renderer.RenderPage(ctx, data, page)
		if err != nil {
			e.log.Error("failed to render page", "page", page, "error", err)
			continue
		}

		pageText, err := e.chat.Complete(ctx, llm.CompletionRequest{
			System:        ocrPageSystemPrompt(language),
			User:          ocrPageUserPrompt(page, totalPages, language),
			ImageBase64:   base64.StdEncoding.EncodeToString(img),
			ImageMIMEType: mimeType,
		})
		if err != nil {
			e.log.Error("failed to ocr page", "page", page, "error", err)
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		results = append(results, fmt.Sprintf("=== Page %d ===\n%s", page, pageText))
		e.log.Info("extracted text from page", "page", page, "chars", len(pageText))
	}
	return results
}

package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tochi-dev/docmatch/constants"
	"github.com/tochi-dev/docmatch/internal/common"
	"github.com/tochi-dev/docmatch/internal/language"
	"github.com/tochi-dev/docmatch/internal/llm"
	"github.com/tochi-dev/docmatch/internal/preprocess"
)

// blindBase64Limit bounds how much raw base64 the blind extractor feeds a
// text-only completion for office/markup/other formats.
const blindBase64Limit = 4000

// Config tunes the orchestrator.
type Config struct {
	MaxPages int // 0 = no limit on OCR page count
}

// Extractor composes classification, direct text extraction, the
// fully-digital heuristic, page OCR and the fallback chain into a single
// entry point per uploaded document.
type Extractor struct {
	cfg      Config
	direct   PDFTextReader
	pages    PageCounter
	renderer PageRenderer
	chat     llm.ChatCompleter
	detector language.Detector
	log      *slog.Logger
}

func NewExtractor(cfg Config, direct PDFTextReader, pages PageCounter, renderer PageRenderer, chat llm.ChatCompleter, detector language.Detector, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:      cfg,
		direct:   direct,
		pages:    pages,
		renderer: renderer,
		chat:     chat,
		detector: detector,
		log:      logger,
	}
}

// ExtractDoc extracts text from an arbitrary uploaded file and returns the
// combined text. It errors only when every strategy came up empty.
func (e *Extractor) ExtractDoc(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	res, err := e.Extract(ctx, data, fileName, mimeType)
	if err != nil {
		return "", err
	}
	return res.CombinedText, nil
}

// ExtractWithPreprocessing extracts text and additionally produces the
// lossy, matching-only rendering of it. The preprocessed text must never
// replace the original for downstream field extraction.
func (e *Extractor) ExtractWithPreprocessing(ctx context.Context, data []byte, fileName, mimeType string) (originalText, preprocessedText string, err error) {
	res, err := e.Extract(ctx, data, fileName, mimeType)
	if err != nil {
		return "", "", err
	}
	return res.CombinedText, preprocess.ForMatching(res.CombinedText), nil
}

// Extract runs the full per-type pipeline and returns the detailed result.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileName, mimeType string) (Result, error) {
	start := time.Now()
	docType := Classify(fileName, mimeType)

	// Language first: it parameterizes every extraction prompt. Failure is
	// tolerated and defaults to unknown/0.
	det := e.detector.Detect(data)
	e.log.Info("starting extraction",
		"file", fileName,
		"type", string(docType),
		"bytes", len(data),
		"language", det.Language,
		"language_score", det.Score,
	)

	var res Result
	var err error
	switch docType {
	case constants.PDF:
		res, err = e.extractPDF(ctx, data, fileName, det)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, data, fileName, det)
	default:
		res, err = e.extractBlind(ctx, data, det)
	}
	if err != nil {
		return Result{}, err
	}

	res.Type = docType
	res.Language = det.Language
	res.LanguageScore = det.Score
	res.Duration = time.Since(start)

	e.log.Info("extraction complete",
		"file", fileName,
		"method", res.Method,
		"direct_chars", len(res.DirectText),
		"ocr_chars", len(res.OCRText),
		"combined_chars", len(res.CombinedText),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte, fileName string, det language.Detection) (Result, error) {
	totalPages, _ := e.pages.PageCount(data)
	e.log.Info("pdf page count", "pages", totalPages)

	directText := ""
	if text, err := e.direct.ExtractText(data); err != nil {
		e.log.Error("direct text extraction failed", "error", err)
	} else {
		directText = text
		e.log.Info("direct text extraction complete", "chars", len(directText))
	}

	// OCR is expensive; skip it entirely when the embedded text already
	// reads as a complete digital document.
	if IsFullyDigital(directText) {
		e.log.Info("pdf appears fully digital, skipping ocr")
		return Result{
			DirectText:   directText,
			CombinedText: directText,
			Pages:        totalPages,
			Method:       "pdf-text",
		}, nil
	}

	e.log.Info("starting ocr for potentially scanned content")
	ocrText := strings.Join(e.OCRPages(ctx, data, det.Language, totalPages), "\n\n")

	combined := combineSections(directText, ocrText, det.Language)

	// A combined result that is nothing but PDF container noise (direct
	// extraction caught raw syntax and OCR yielded nothing) is as good as
	// empty; fall through to the last-resort strategies.
	usable := combined != "" && !(ocrText == "" && LooksLikePDFSource(directText))
	if usable {
		method := "pdf-ocr"
		if ocrText == "" {
			method = "pdf-text"
		}
		return Result{
			DirectText:   directText,
			OCRText:      ocrText,
			CombinedText: combined,
			Pages:        totalPages,
			Method:       method,
		}, nil
	}

	// Ordered last-resort strategies; the first non-empty result wins.
	fallbacks := []struct {
		name string
		run  func() string
	}{
		{"parenthetical", func() string { return ParentheticalStrings(data) }},
		{"raw-buffer", func() string { return RawBufferText(data) }},
	}
	var attempted []string
	for _, fb := range fallbacks {
		attempted = append(attempted, fb.name)
		if text := fb.run(); text != "" {
			e.log.Warn("using fallback extraction", "strategy", fb.name, "chars", len(text))
			return Result{
				CombinedText: text,
				Pages:        totalPages,
				Method:       "pdf-fallback",
			}, nil
		}
	}

	// Better noisy text than a hard failure on a non-empty buffer.
	if combined != "" {
		e.log.Warn("returning unverified combined text, all fallbacks empty")
		return Result{
			DirectText:   directText,
			OCRText:      ocrText,
			CombinedText: combined,
			Pages:        totalPages,
			Method:       "pdf-text",
		}, nil
	}

	return Result{}, common.NewAppError("EXTRACTION_FAILED",
		fmt.Sprintf("no strategy extracted text from %q (tried direct, ocr, %s)",
			fileName, strings.Join(attempted, ", ")),
		common.ErrNoText)
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, fileName string, det language.Detection) (Result, error) {
	mimeType := "image/jpeg"
	if constants.ExtOf(fileName) == "png" {
		mimeType = "image/png"
	}
	text, err := e.chat.Complete(ctx, llm.CompletionRequest{
		System:        imageSystemPrompt(det.Language),
		User:          imageUserPrompt(det.Language),
		ImageBase64:   base64.StdEncoding.EncodeToString(data),
		ImageMIMEType: mimeType,
	})
	if err != nil {
		return Result{}, common.WrapError(err, "image ocr")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, common.NewAppError("EXTRACTION_FAILED",
			fmt.Sprintf("image ocr produced no text for %q", fileName),
			common.ErrNoText)
	}
	return Result{
		OCRText:      text,
		CombinedText: text,
		Pages:        1,
		Method:       "image-ocr",
	}, nil
}

// extractBlind feeds a truncated base64 slice of the raw bytes to a
// text-only completion. Deliberately degraded: office and markup formats
// are rare in this pipeline and do not justify a format-specific parser.
func (e *Extractor) extractBlind(ctx context.Context, data []byte, det language.Detection) (Result, error) {
	b64 := base64.StdEncoding.EncodeToString(data)
	if len(b64) > blindBase64Limit {
		b64 = b64[:blindBase64Limit]
	}
	text, err := e.chat.Complete(ctx, llm.CompletionRequest{
		System: blindSystemPrompt(det.Language),
		User:   blindUserPrompt(b64),
	})
	if err != nil {
		return Result{}, common.WrapError(err, "blind extraction")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, common.NewAppError("EXTRACTION_FAILED",
			"blind extraction produced no text", common.ErrNoText)
	}
	return Result{
		CombinedText: text,
		Pages:        1,
		Method:       "blind",
	}, nil
}

// combineSections assembles the authoritative combined text from the
// non-empty extraction sections.
func combineSections(directText, ocrText, language string) string {
	var sections []string
	if directText != "" {
		sections = append(sections, fmt.Sprintf("=== Direct Text Extraction (%s) ===\n%s", language, directText))
	}
	if ocrText != "" {
		sections = append(sections, fmt.Sprintf("=== OCR Extracted Text (%s) ===\n%s", language, ocrText))
	}
	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tochi-dev/docmatch/internal/common"
	"github.com/tochi-dev/docmatch/internal/language"
	"github.com/tochi-dev/docmatch/internal/llm"
)

type stubDetector struct {
	det language.Detection
}

func (s stubDetector) Detect([]byte) language.Detection {
	if s.det.Language == "" {
		return language.Unknown
	}
	return s.det
}

type fakeReader struct {
	text string
	err  error
}

func (f fakeReader) ExtractText([]byte) (string, error) { return f.text, f.err }

type fakeCounter struct {
	pages int
}

func (f fakeCounter) PageCount([]byte) (int, error) { return f.pages, nil }

type fakeRenderer struct {
	failPages map[int]bool
	calls     []int
}

func (f *fakeRenderer) RenderPage(_ context.Context, _ []byte, page int) ([]byte, string, error) {
	f.calls = append(f.calls, page)
	if f.failPages[page] {
		return nil, "", errors.New("render failed")
	}
	return []byte(fmt.Sprintf("png-bytes-%d", page)), "image/png", nil
}

// fakeChat replies with a fixed response per call, or echoes the page via
// pageEcho, and counts invocations.
type fakeChat struct {
	response string
	pageEcho bool
	calls    int
	lastReq  llm.CompletionRequest
}

func (f *fakeChat) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.pageEcho {
		return fmt.Sprintf("ocr content %d", f.calls), nil
	}
	return f.response, nil
}

func newTestExtractor(direct PDFTextReader, pages PageCounter, renderer PageRenderer, chat llm.ChatCompleter) *Extractor {
	return NewExtractor(Config{}, direct, pages, renderer, chat, stubDetector{}, nil)
}

func TestExtractDigitalPDFSkipsOCR(t *testing.T) {
	digital := strings.Repeat("Quarterly revenue summary for the region\n", 15)
	chat := &fakeChat{}
	renderer := &fakeRenderer{}
	e := newTestExtractor(fakeReader{text: digital}, fakeCounter{pages: 4}, renderer, chat)

	got, err := e.ExtractDoc(context.Background(), []byte("%PDF-fake"), "report.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("ExtractDoc: %v", err)
	}
	if got != digital {
		t.Errorf("expected the direct text verbatim, got %d chars", len(got))
	}
	if chat.calls != 0 {
		t.Errorf("expected zero chat calls for a fully digital PDF, got %d", chat.calls)
	}
	if len(renderer.calls) != 0 {
		t.Errorf("expected zero render calls, got %v", renderer.calls)
	}
}

func TestExtractScannedPDFRunsPageOCR(t *testing.T) {
	chat := &fakeChat{pageEcho: true}
	renderer := &fakeRenderer{}
	e := newTestExtractor(fakeReader{text: ""}, fakeCounter{pages: 3}, renderer, chat)

	got, err := e.ExtractDoc(context.Background(), []byte("%PDF-fake"), "scan.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("ExtractDoc: %v", err)
	}
	if chat.calls != 3 {
		t.Errorf("expected one chat call per page, got %d", chat.calls)
	}
	for page := 1; page <= 3; page++ {
		marker := fmt.Sprintf("=== Page %d ===", page)
		if !strings.Contains(got, marker) {
			t.Errorf("missing %q in output", marker)
		}
	}
	if !strings.Contains(got, "=== OCR Extracted Text (unknown) ===") {
		t.Errorf("missing OCR section header in %q", got)
	}
	// Markers must appear in ascending page order.
	p1 := strings.Index(got, "=== Page 1 ===")
	p2 := strings.Index(got, "=== Page 2 ===")
	p3 := strings.Index(got, "=== Page 3 ===")
	if !(p1 < p2 && p2 < p3) {
		t.Errorf("page markers out of order: %d %d %d", p1, p2, p3)
	}
}

func TestOCRPagesSkipsFailedRender(t *testing.T) {
	chat := &fakeChat{pageEcho: true}
	renderer := &fakeRenderer{failPages: map[int]bool{2: true}}
	e := newTestExtractor(fakeReader{}, fakeCounter{pages: 3}, renderer, chat)

	results := e.OCRPages(context.Background(), []byte("%PDF-fake"), "unknown", 3)
	if len(results) != 2 {
		t.Fatalf("expected 2 page results, got %d", len(results))
	}
	if !strings.HasPrefix(results[0], "=== Page 1 ===") {
		t.Errorf("first result = %q", results[0])
	}
	if !strings.HasPrefix(results[1], "=== Page 3 ===") {
		t.Errorf("second result = %q", results[1])
	}
	if chat.calls != 2 {
		t.Errorf("expected 2 chat calls (page 2 never rendered), got %d", chat.calls)
	}
}

func TestOCRPagesEmptyPagesAreDropped(t *testing.T) {
	chat := &fakeChat{response: "   "}
	renderer := &fakeRenderer{}
	e := newTestExtractor(fakeReader{}, fakeCounter{pages: 2}, renderer, chat)

	results := e.OCRPages(context.Background(), []byte("%PDF-fake"), "unknown", 2)
	if len(results) != 0 {
		t.Errorf("whitespace-only pages should be dropped, got %v", results)
	}
}

func TestExtractPDFFallsBackToParentheticals(t *testing.T) {
	// Direct extraction yields nothing, OCR yields nothing: the literal
	// string operands in the buffer are the last usable signal.
	data := []byte("%PDF-1.4\n1 0 obj\nstream\nBT (Payment due within thirty days) Tj ET\nendstream")
	chat := &fakeChat{response: ""}
	renderer := &fakeRenderer{failPages: map[int]bool{1: true}}
	e := newTestExtractor(fakeReader{err: errors.New("parse error")}, fakeCounter{pages: 1}, renderer, chat)

	got, err := e.ExtractDoc(context.Background(), data, "broken.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("ExtractDoc: %v", err)
	}
	if !strings.Contains(got, "Payment due within thirty days") {
		t.Errorf("expected parenthetical fallback content, got %q", got)
	}
}

func TestExtractFailsOnlyWhenEverythingIsEmpty(t *testing.T) {
	// Non-printable buffer with no literals: every strategy comes up empty.
	data := make([]byte, 64)
	for i := range data {
		data[i] = 0x01
	}
	chat := &fakeChat{response: ""}
	renderer := &fakeRenderer{failPages: map[int]bool{1: true}}
	e := newTestExtractor(fakeReader{text: ""}, fakeCounter{pages: 1}, renderer, chat)

	_, err := e.ExtractDoc(context.Background(), data, "noise.pdf", "application/pdf")
	if err == nil {
		t.Fatal("expected an error when every strategy yields empty text")
	}
	if !errors.Is(err, common.ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestExtractImage(t *testing.T) {
	chat := &fakeChat{response: "visible text from photo"}
	e := newTestExtractor(fakeReader{}, fakeCounter{pages: 1}, &fakeRenderer{}, chat)

	got, err := e.ExtractDoc(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "photo.png", "")
	if err != nil {
		t.Fatalf("ExtractDoc: %v", err)
	}
	if got != "visible text from photo" {
		t.Errorf("got %q", got)
	}
	if chat.calls != 1 {
		t.Errorf("expected a single vision call, got %d", chat.calls)
	}
	if chat.lastReq.ImageBase64 == "" {
		t.Error("expected the image attached to the request")
	}
	if chat.lastReq.ImageMIMEType != "image/png" {
		t.Errorf("mime = %q", chat.lastReq.ImageMIMEType)
	}
}

func TestExtractBlindTruncatesBase64(t *testing.T) {
	chat := &fakeChat{response: "recovered document text"}
	e := newTestExtractor(fakeReader{}, fakeCounter{pages: 1}, &fakeRenderer{}, chat)

	data := make([]byte, 64*1024)
	got, err := e.ExtractDoc(context.Background(), data, "contract.docx", "")
	if err != nil {
		t.Fatalf("ExtractDoc: %v", err)
	}
	if got != "recovered document text" {
		t.Errorf("got %q", got)
	}
	if chat.lastReq.ImageBase64 != "" {
		t.Error("blind extraction must be text-only")
	}
	if len(chat.lastReq.User) > blindBase64Limit+200 {
		t.Errorf("user prompt not truncated: %d chars", len(chat.lastReq.User))
	}
}

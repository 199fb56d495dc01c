package preprocess

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestForMatchingMinimalContent(t *testing.T) {
	got := ForMatching("  Short note  ")
	want := "Minimal content document:\nShort note"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForMatchingMasksPII(t *testing.T) {
	in := strings.Join([]string{
		"INVOICE SUMMARY",
		"Issued on 2024-01-15 to the account holder.",
		"Contact: billing@example.com",
		"Phone: +1 (555) 123-4567",
		"Total due is payable within thirty days of receipt.",
	}, "\n")

	got := ForMatching(in)
	if !strings.Contains(got, "[DATE]") {
		t.Error("date not masked")
	}
	if !strings.Contains(got, "[EMAIL]") {
		t.Error("email not masked")
	}
	if !strings.Contains(got, "[PHONE]") {
		t.Error("phone not masked")
	}
	if strings.Contains(got, "billing@example.com") {
		t.Error("raw email leaked into output")
	}
	if !strings.Contains(got, "Headers: INVOICE SUMMARY") {
		t.Errorf("uppercase line not reported as header:\n%s", got)
	}
	if !strings.Contains(got, "Document structure:") {
		t.Errorf("missing structural summary:\n%s", got)
	}
}

func TestForMatchingPDFContainerWithoutPayload(t *testing.T) {
	in := "%PDF-1.7\n1 0 obj << /Type /Catalog /Creator (Microsoft Word) >>\n" +
		"2 0 obj << /Type /Font /BaseFont /Helvetica >>\nendobj\n"

	got := ForMatching(in)
	if !strings.Contains(got, "PDF Document Analysis") {
		t.Fatalf("expected the analysis report, got:\n%s", got)
	}
	if !strings.Contains(got, "Creator: Microsoft Word") {
		t.Errorf("metadata missing:\n%s", got)
	}
	if !strings.Contains(got, "Font definitions: 2") {
		t.Errorf("font count missing:\n%s", got)
	}
}

func TestForMatchingPDFContainerWithReadableStream(t *testing.T) {
	payload := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 4)
	in := "%PDF-1.7\n1 0 obj << /Type /Page >>\nstream\n" + payload + "\nendstream\n"

	got := ForMatching(in)
	if strings.Contains(got, "PDF Document Analysis") {
		t.Fatalf("readable stream should bypass the analysis report:\n%s", got)
	}
	if !strings.Contains(got, "quick brown fox") {
		t.Errorf("stream payload missing from output:\n%s", got)
	}
}

func TestForMatchingCollapsesRepeatedRuns(t *testing.T) {
	in := "INVOICE\n" + strings.Repeat("-", 40) + "\nTotal due is one hundred euros for services rendered.\nShort--break stays."
	got := ForMatching(in)
	if strings.Contains(got, strings.Repeat("-", 10)) {
		t.Errorf("run of 10+ identical characters not collapsed:\n%s", got)
	}
	if !strings.Contains(got, "Short--break") {
		t.Errorf("short run should survive:\n%s", got)
	}
}

func TestForMatchingClipsOutput(t *testing.T) {
	in := strings.Repeat("word ", 4000)
	got := ForMatching(in)
	if len(got) > 4000 {
		t.Errorf("output not clipped: %d chars", len(got))
	}
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	got := clip(strings.Repeat("€", 2000))
	if len(got) > maxOutputLen {
		t.Errorf("clip returned %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Error("clip split a multi-byte rune")
	}
}

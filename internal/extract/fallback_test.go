package extract

import (
	"strings"
	"testing"
)

func TestParentheticalStrings(t *testing.T) {
	raw := []byte("4 0 obj << /Length 52 >>\nstream\nBT (Invoice Number: 2024-001) Tj (Total amount due today) Tj ET\nendstream\n(tiny) Tj")
	got := ParentheticalStrings(raw)
	if !strings.Contains(got, "Invoice Number: 2024-001") {
		t.Errorf("missing first operand in %q", got)
	}
	if !strings.Contains(got, "Total amount due today") {
		t.Errorf("missing second operand in %q", got)
	}
	if strings.Contains(got, "tiny") {
		t.Errorf("short operand should be dropped, got %q", got)
	}
}

func TestParentheticalStringsDecodesEscapes(t *testing.T) {
	raw := []byte(`(Line one\nLine two \(nested\) end)`)
	got := ParentheticalStrings(raw)
	if !strings.Contains(got, "Line one\nLine two (nested) end") {
		t.Errorf("escapes not decoded: %q", got)
	}
}

func TestParentheticalStringsEmpty(t *testing.T) {
	if got := ParentheticalStrings([]byte("no literals here")); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestRawBufferText(t *testing.T) {
	t.Run("printable text survives null stripping", func(t *testing.T) {
		in := []byte("hello\x00 world\nsecond line")
		got := RawBufferText(in)
		if got != "hello world\nsecond line" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("binary garbage is rejected", func(t *testing.T) {
		in := make([]byte, 200)
		for i := range in {
			in[i] = byte(i%30 + 1) // control characters
		}
		if got := RawBufferText(in); got != "" {
			t.Errorf("expected empty for binary input, got %q", got)
		}
	})

	t.Run("high-bit binary is rejected", func(t *testing.T) {
		in := make([]byte, 4096)
		for i := range in {
			in[i] = byte(0x80 + i%0x80) // invalid UTF-8 throughout
		}
		if got := RawBufferText(in); got != "" {
			t.Errorf("expected empty for high-bit binary, got %d chars", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := RawBufferText(nil); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

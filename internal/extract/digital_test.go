package extract

import (
	"strings"
	"testing"
)

func digitalSample(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("Lorem ipsum dolor sit amet consectetur\n")
	}
	return b.String()
}

func TestIsFullyDigital(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"readable multi-line text", digitalSample(12), true},
		{"too few lines", digitalSample(5), false},
		{"numeric runs qualify", strings.Repeat("404 500 301\n", 12), true},
		{"no readable runs", strings.Repeat("a b c\n", 12), false},
		{
			"pdf header vetoes despite word runs",
			"%PDF-1.7\n" + digitalSample(12) + "/Type /Catalog\n",
			false,
		},
		{
			"object markers veto",
			digitalSample(12) + "4 0 obj\n",
			false,
		},
		{
			"stream pair vetoes",
			digitalSample(12) + "stream\nxxxx\nendstream\n",
			false,
		},
		{
			"xref table vetoes",
			digitalSample(12) + "xref 0 17\n",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullyDigital(tt.text); got != tt.want {
				t.Errorf("IsFullyDigital() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLooksLikePDFSourceRequiresBothHeaderAndType(t *testing.T) {
	if LooksLikePDFSource("%PDF-1.4 but otherwise plain prose") {
		t.Error("header alone should not flag PDF source")
	}
	if !LooksLikePDFSource("%PDF-1.4\n... /Type /Page ...") {
		t.Error("header plus /Type should flag PDF source")
	}
}

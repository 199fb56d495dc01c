package extract

import (
	"testing"

	"github.com/tochi-dev/docmatch/constants"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		want     constants.DocumentType
	}{
		{"pdf mime", "upload.bin", "application/pdf", constants.PDF},
		{"pdf extension", "report.pdf", "", constants.PDF},
		{"pdf mime wins over image extension", "scan.png", "application/pdf", constants.PDF},
		{"image mime", "photo", "image/jpeg", constants.IMAGE},
		{"image extension", "photo.TIFF", "", constants.IMAGE},
		{"docx mime", "contract.bin", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", constants.OFFICE},
		{"doc extension", "contract.doc", "", constants.OFFICE},
		{"html mime", "page.data", "text/html", constants.MARKUP},
		{"markdown extension", "README.md", "", constants.MARKUP},
		{"unknown combination", "blob.xyz", "application/x-whatever", constants.OTHER},
		{"no name no type", "", "", constants.OTHER},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.fileName, tt.mimeType); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.fileName, tt.mimeType, got, tt.want)
			}
		})
	}
}

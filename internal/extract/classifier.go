package extract

import (
	"strings"

	"github.com/tochi-dev/docmatch/constants"
)

// Classify resolves a declared file name and MIME type to a DocumentType.
// A recognized MIME type wins over the extension; unrecognized combinations
// always resolve to OTHER, never an error.
func Classify(fileName, mimeType string) constants.DocumentType {
	ext := constants.ExtOf(fileName)
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if mt == "application/pdf" || ext == "pdf" {
		return constants.PDF
	}
	if strings.HasPrefix(mt, "image/") {
		return constants.IMAGE
	}
	if _, ok := constants.ImageExtensions[ext]; ok {
		return constants.IMAGE
	}
	if _, ok := constants.WordMIMETypes[mt]; ok {
		return constants.OFFICE
	}
	if _, ok := constants.OfficeExtensions[ext]; ok {
		return constants.OFFICE
	}
	if mt == "text/html" || mt == "text/markdown" {
		return constants.MARKUP
	}
	if _, ok := constants.MarkupExtensions[ext]; ok {
		return constants.MARKUP
	}
	return constants.OTHER
}

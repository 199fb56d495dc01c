package constants

import "strings"

// DocumentType is the classification tag a file resolves to before dispatch.
type DocumentType string

const (
	PDF    DocumentType = "PDF"
	IMAGE  DocumentType = "IMAGE"
	OFFICE DocumentType = "OFFICE"
	MARKUP DocumentType = "MARKUP"
	OTHER  DocumentType = "OTHER"
)

// ImageExtensions holds extensions routed to the single-shot image OCR path.
var ImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"gif":  {},
	"tiff": {},
}

// OfficeExtensions holds Word-processor extensions.
var OfficeExtensions = map[string]struct{}{
	"doc":  {},
	"docx": {},
}

// MarkupExtensions holds markup extensions handled by the generic extractor.
var MarkupExtensions = map[string]struct{}{
	"html": {},
	"md":   {},
}

// WordMIMETypes are the declared content types for Word documents.
var WordMIMETypes = map[string]struct{}{
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtOf returns the normalized extension of a file name, "" if none.
func ExtOf(fileName string) string {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 || i == len(fileName)-1 {
		return ""
	}
	return NormalizeExt(fileName[i+1:])
}

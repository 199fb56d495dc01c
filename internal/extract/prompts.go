package extract

import "fmt"

func ocrPageSystemPrompt(language string) string {
	return fmt.Sprintf(`You are an intelligent document parsing agent specialized in OCR for %s language documents.
Extract EVERYTHING from this image, including:
- All visible text, no matter how small or faint
- Headers, footers, page numbers
- Tables, charts, and their contents
- Annotations, stamps, watermarks
- Numbers, symbols, special characters
- Any handwritten text
- Metadata and document properties
- Text in all orientations
Pay special attention to %s language patterns and characters.
Preserve the exact content, formatting, and layout. Do not omit or summarize anything.`, language, language)
}

func ocrPageUserPrompt(page, total int, language string) string {
	return fmt.Sprintf("This is page %d of %d in %s language. Extract EVERYTHING visible, preserving all details exactly as they appear.", page, total, language)
}

func imageSystemPrompt(language string) string {
	return fmt.Sprintf("You are an OCR agent specialized in %s language documents. Extract EVERYTHING visible in this image. Pay special attention to %s language patterns and characters. Do not omit or summarize anything.", language, language)
}

func imageUserPrompt(language string) string {
	return fmt.Sprintf("Extract EVERYTHING visible in this %s language image or document. Include all text, numbers, symbols, annotations, and any other visible content. Preserve the exact formatting and layout.", language)
}

func blindSystemPrompt(language string) string {
	return fmt.Sprintf("You are an intelligent document parsing agent specialized in %s language documents. Extract EVERYTHING from this document, including all text, formatting, metadata, and structural elements. Pay special attention to %s language patterns and characters.", language, language)
}

func blindUserPrompt(base64Slice string) string {
	return fmt.Sprintf("Document binary (base64):\n%s...\n\nExtract ALL content exactly as it appears, preserving all details and formatting.", base64Slice)
}

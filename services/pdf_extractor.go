package services

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF text extraction
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// sanitizePDF fixes common PDF issues like trailing garbage data.
// Many PDFs downloaded from media hosts have HTML or other data appended
// after %%EOF; this truncates the content at the last valid %%EOF marker.
func sanitizePDF(content []byte) []byte {
	if len(content) == 0 {
		return content
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content // Not a PDF, return as-is
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)

	if lastEOF == -1 {
		// No %%EOF found - PDF is likely truncated, let the parser handle it
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)

	// Allow for trailing newlines after %%EOF (valid per PDF spec)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if pdfEnd < len(content) {
		extraBytes := len(content) - pdfEnd
		if extraBytes > 10 { // More than just whitespace
			log.Printf("PDF Sanitizer: Removing %d bytes of trailing garbage after %%EOF", extraBytes)
			return content[:pdfEnd]
		}
	}

	return content
}

// ExtractText extracts text from PDF bytes
func (p *PDFExtractor) ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)

	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			log.Printf("PDF Extractor: Page %d is null, skipping", i)
			continue
		}

		// Extract text by row for better structure preservation
		rows, err := page.GetTextByRow()
		if err != nil {
			// Fallback to plain text if row extraction fails
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				log.Printf("PDF Extractor: Failed to extract page %d: %v", i, plainErr)
				continue
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				rowText.WriteString(word.S)
			}
			line := strings.TrimSpace(rowText.String())
			if line != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n") // Separate pages
	}

	extracted := strings.TrimSpace(textBuilder.String())

	if len(extracted) == 0 {
		return "", fmt.Errorf("no text extracted from PDF - it may be scanned/image-based")
	}

	return extracted, nil
}

// ExtractTextFromPDFBytes is a convenience function for one-off extractions
func ExtractTextFromPDFBytes(content []byte) (string, error) {
	extractor := NewPDFExtractor()
	return extractor.ExtractText(content)
}

package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// DocumentExtractor converts uploaded bytes into plain text.
// Supported formats are PDF and UTF-8 plain text, selected by filename suffix.
type DocumentExtractor struct{}

func New() *DocumentExtractor { return &DocumentExtractor{} }

// Extract returns the document's text content. The suffix check runs before
// any decoding, and the empty-content check runs once after full extraction.
func (e *DocumentExtractor) Extract(filename string, data []byte) (string, error) {
	var content string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			return "", err
		}
		content = text
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s is not valid UTF-8 text", filename)
		}
		content = string(data)
	default:
		return "", domain.ErrUnsupportedFormat
	}
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrEmptyContent
	}
	return content, nil
}

// extractPDF concatenates per-page text in document order, one newline between
// pages. A page that fails to yield text contributes an empty string rather
// than aborting the whole extraction.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		sb.WriteString(pageText(reader, i))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	// The pdf library panics on some malformed content streams; a broken
	// page must not take down the surrounding pages.
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// Package extract provides text extraction from regulation documents.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files. The regulation corpus is
// PDF, but plain text files are accepted for tests and fixtures.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// PDF pages are extracted and concatenated with newlines; .txt and .md are
// returned as-is (UTF-8 validated). Other extensions are an error.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".txt", ".md":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("unsupported extension %q", ext)
	}
}

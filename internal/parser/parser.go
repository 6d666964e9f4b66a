package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parser extracts plain text from raw document bytes. The pipeline only
// consumes plain text; all structure beyond paragraph breaks is discarded
// here.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename. pdfFallback
// enables shelling out to pdftotext when the Go PDF reader fails.
func ForFile(filename string, pdfFallback bool) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: pdfFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

const readErrorPrefix = "Error reading "

// ReadDocument extracts text from a document of a declared type. Failures
// are returned as sentinel-prefixed text instead of an error, so callers
// can detect them without error handling.
func ReadDocument(r io.Reader, filename string, pdfFallback bool) string {
	format := strings.ToUpper(strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."))
	if format == "" {
		format = "FILE"
	}

	p, err := ForFile(filename, pdfFallback)
	if err != nil {
		return fmt.Sprintf("%s%s: %s", readErrorPrefix, format, err)
	}
	text, err := p.Parse(r, filename)
	if err != nil {
		return fmt.Sprintf("%s%s: %s", readErrorPrefix, format, err)
	}
	return text
}

// IsReadError reports whether text returned by ReadDocument is a sentinel
// failure message.
func IsReadError(text string) bool {
	return strings.HasPrefix(text, readErrorPrefix)
}

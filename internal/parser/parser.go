// Package parser extracts page text from input documents.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
)

// Parser converts raw document bytes into ordered pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]corpus.Page, error)
}

// Options tunes parser behaviour.
type Options struct {
	FallbackPdftotext bool // retry with pdftotext when the Go PDF reader fails
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
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
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// splitPages splits text on form feeds into numbered pages. A trailing form
// feed does not start an extra page.
func splitPages(text string) []corpus.Page {
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\f")
	pages := make([]corpus.Page, len(parts))
	for i, p := range parts {
		pages[i] = corpus.Page{Number: i + 1, Text: p}
	}
	return pages
}

// singlePage wraps lines as one page, or no pages when there is no text.
func singlePage(lines []string) []corpus.Page {
	if len(lines) == 0 {
		return nil
	}
	return []corpus.Page{{Number: 1, Text: strings.Join(lines, "\n")}}
}

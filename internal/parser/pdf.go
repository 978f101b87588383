package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

// Parse returns one page per physical page. Pages without extractable text
// are kept blank so page numbers stay aligned with the source.
func (p *PDFParser) Parse(r io.Reader, filename string) ([]corpus.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docrank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if p.FallbackPdftotext && (err != nil || allBlank(pages)) {
		if fallback, ferr := extractPdftotext(tmpPath); ferr == nil {
			pages, err = fallback, nil
		} else if err == nil {
			err = ferr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text from %s: %w", filename, err)
	}
	return pages, nil
}

func extractPDFPages(path string) ([]corpus.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]corpus.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pg := corpus.Page{Number: i}
		page := reader.Page(i)
		if !page.V.IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				pg.Text = text
			}
		}
		pages = append(pages, pg)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]corpus.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitPages(string(out)), nil
}

func allBlank(pages []corpus.Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

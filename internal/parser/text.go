package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
)

// TextParser handles plain text files. Form feeds separate pages, matching
// the output of pdftotext.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]corpus.Page, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return splitPages(text), nil
}

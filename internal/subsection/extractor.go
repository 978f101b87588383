// Package subsection extracts bounded text windows that follow ranked section
// titles in their source pages.
package subsection

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/dgallion1/docrank/internal/ranking"
)

// Result is the refined excerpt for one ranked section.
type Result struct {
	Document    string
	Page        int
	RefinedText string
}

// WindowPolicy decides how much text to take after a title.
type WindowPolicy struct {
	Keywords []string // lowercase substrings that select the extended window
	Extended int
	Default  int
}

// DefaultWindowPolicy takes 800 characters for form-related titles, else 500.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		Keywords: []string{"form", "fill", "sign", "edit", "creat"},
		Extended: 800,
		Default:  500,
	}
}

// Size returns the window length in characters for title.
func (w WindowPolicy) Size(title string) int {
	lower := strings.ToLower(title)
	for _, kw := range w.Keywords {
		if strings.Contains(lower, kw) {
			return w.Extended
		}
	}
	return w.Default
}

// Extractor produces subsections from ranked sections.
type Extractor struct {
	window WindowPolicy
	log    *slog.Logger
}

func NewExtractor(window WindowPolicy, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{window: window, log: log}
}

// Extract returns one result per section whose title can be located in its
// page. Sections that cannot be resolved are logged and omitted.
func (e *Extractor) Extract(c *corpus.Corpus, ranked []ranking.RankedSection) []Result {
	out := make([]Result, 0, len(ranked))
	for _, s := range ranked {
		res, err := e.extractOne(c, s)
		if err != nil {
			e.log.Warn("subsection omitted",
				"document", s.Document,
				"page", s.Page,
				"title", s.Title,
				"error", err,
			)
			continue
		}
		out = append(out, res)
	}
	return out
}

func (e *Extractor) extractOne(c *corpus.Corpus, s ranking.RankedSection) (Result, error) {
	text, err := c.Lookup(s.Document, s.Page)
	if err != nil {
		return Result{}, err
	}
	idx := strings.Index(text, s.Title)
	if idx < 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrTitleNotFound, s.Title)
	}
	window := takeRunes(text[idx+len(s.Title):], e.window.Size(s.Title))
	return Result{
		Document:    s.Document,
		Page:        s.Page,
		RefinedText: Prefix(s.Document, s.Title) + strings.TrimSpace(window),
	}, nil
}

// Prefix is the context string placed before every refined text.
func Prefix(document, title string) string {
	return fmt.Sprintf("From '%s' - %s: ", document, title)
}

func takeRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Package sections detects probable section titles in raw page text.
package sections

import (
	"regexp"
	"strings"
)

// Kind identifies which line-shape rule matched a title.
type Kind int

const (
	KindNone Kind = iota
	KindAllCaps
	KindNumbered
	KindTitleColon
	KindFormHeading
)

func (k Kind) String() string {
	switch k {
	case KindAllCaps:
		return "all_caps"
	case KindNumbered:
		return "numbered"
	case KindTitleColon:
		return "title_colon"
	case KindFormHeading:
		return "form_heading"
	}
	return "none"
}

// Matcher tests a single trimmed line for one heading shape.
type Matcher struct {
	Kind     Kind
	patterns []*regexp.Regexp
}

// Match reports whether the whole line matches any of the matcher's patterns.
func (m Matcher) Match(line string) bool {
	for _, p := range m.patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func newMatcher(kind Kind, exprs ...string) Matcher {
	m := Matcher{Kind: kind}
	for _, e := range exprs {
		m.patterns = append(m.patterns, regexp.MustCompile(`^(?:`+widenClasses(e)+`)$`))
	}
	return m
}

// unicodeSpace is every rune treated as whitespace in a heading, including
// the NBSP and other separators PDF extractors emit. RE2's \s is ASCII only.
const unicodeSpace = `\s\x{85}\x{1c}-\x{1f}\p{Z}`

// widenClasses rewrites \s to unicodeSpace and \d to any decimal digit, both
// inside and outside bracket expressions.
func widenClasses(expr string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '\\' && i+1 < len(expr) {
			next := expr[i+1]
			i++
			switch {
			case next == 's' && inClass:
				b.WriteString(unicodeSpace)
			case next == 's':
				b.WriteString(`[` + unicodeSpace + `]`)
			case next == 'd':
				b.WriteString(`\p{Nd}`)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		}
		switch {
		case c == '[' && !inClass:
			inClass = true
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DefaultMatchers returns the heading rules in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		newMatcher(KindAllCaps, `[A-Z][A-Z\s]+`),
		newMatcher(KindNumbered, `\d+\.\s+[A-Za-z\s]+`),
		newMatcher(KindTitleColon, `[A-Z][a-z]+\s+[A-Za-z\s]+:`),
		newMatcher(KindFormHeading,
			`Forms?\s+[A-Za-z\s]+`,
			`Fillable\s+[A-Za-z\s]+`,
			`Creating\s+[A-Za-z\s]+\s+Forms?`,
			`Managing\s+[A-Za-z\s]+\s+Forms?`,
			`How\s+to\s+[A-Za-z\s]+\s+Forms?`,
		),
	}
}

// Detector scans page text for section titles.
type Detector struct {
	matchers []Matcher
}

// NewDetector returns a detector using the given matchers, or the defaults
// when none are supplied.
func NewDetector(matchers ...Matcher) *Detector {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Detector{matchers: matchers}
}

// Classify returns the kind of the first matcher that accepts the trimmed line.
func (d *Detector) Classify(line string) Kind {
	line = strings.TrimSpace(line)
	if line == "" {
		return KindNone
	}
	for _, m := range d.matchers {
		if m.Match(line) {
			return m.Kind
		}
	}
	return KindNone
}

// Detect returns matched title lines in the order they appear. Each line is
// counted at most once. An empty result means no heading was found.
func (d *Detector) Detect(text string) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if d.Classify(line) != KindNone {
			titles = append(titles, line)
		}
	}
	return titles
}

package ranking

import (
	"fmt"
	"strings"
)

// KeywordBoost appends domain keywords to the query when it applies. It is a
// use-case heuristic layered over the ranking algorithm, not part of it.
type KeywordBoost struct {
	Name     string
	Applies  func(persona, job string) bool
	Keywords []string
}

// TitleFallback synthesizes a candidate title for a page with no detected
// headings. It returns false when the page should contribute nothing.
type TitleFallback func(pageText string) (string, bool)

// Policy bundles the heuristics the ranker applies around TF-IDF scoring.
type Policy struct {
	Name     string
	Boosts   []KeywordBoost
	Fallback TitleFallback // nil disables the fallback
}

const (
	PolicyForms = "forms"
	PolicyPlain = "plain"
)

// HRFormsBoost biases retrieval toward form-management content for HR
// personas asking about forms.
var HRFormsBoost = KeywordBoost{
	Name: "hr_forms",
	Applies: func(persona, job string) bool {
		return strings.Contains(persona, "HR") && strings.Contains(strings.ToLower(job), "form")
	},
	Keywords: []string{"fillable", "forms", "PDF", "forms", "create", "edit", "manage", "onboarding", "compliance"},
}

// FirstLineFallback uses the first line of the trimmed page text, when it is
// longer than 10 characters, truncated to 50 characters plus an ellipsis.
func FirstLineFallback(pageText string) (string, bool) {
	trimmed := strings.TrimSpace(pageText)
	if trimmed == "" {
		return "", false
	}
	first := []rune(strings.SplitN(trimmed, "\n", 2)[0])
	if len(first) <= 10 {
		return "", false
	}
	if len(first) > 50 {
		first = first[:50]
	}
	return string(first) + "...", true
}

// FormsPolicy is the default policy: HR/forms boost and first-line fallback.
func FormsPolicy() Policy {
	return Policy{
		Name:     PolicyForms,
		Boosts:   []KeywordBoost{HRFormsBoost},
		Fallback: FirstLineFallback,
	}
}

// PlainPolicy scores the bare persona and job with no fallback titles.
func PlainPolicy() Policy {
	return Policy{Name: PolicyPlain}
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyForms:
		return FormsPolicy(), nil
	case PolicyPlain:
		return PlainPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown ranking policy: %s", name)
	}
}

// Query builds the relevance query for persona and job.
func (p Policy) Query(persona, job string) string {
	q := persona + " " + job
	for _, b := range p.Boosts {
		if b.Applies != nil && b.Applies(persona, job) {
			q += " " + strings.Join(b.Keywords, " ")
		}
	}
	return q
}

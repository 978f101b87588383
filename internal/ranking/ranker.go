// Package ranking scores section candidates against a persona and job query
// and returns the globally top-ranked sections.
package ranking

import (
	"log/slog"
	"sort"

	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/dgallion1/docrank/internal/sections"
	"github.com/dgallion1/docrank/internal/tfidf"
)

// MaxTopK bounds the number of sections in any ranking.
const MaxTopK = 5

// DefaultTopK is the number of sections returned when no limit is configured.
const DefaultTopK = MaxTopK

// Candidate is one detected title on one page. Text is the entire page text,
// which is the unit vectorized and scored, so titles sharing a page share a
// score.
type Candidate struct {
	Document string
	Page     int
	Title    string
	Text     string
}

// RankedSection is a scored candidate with its 1-based importance rank.
type RankedSection struct {
	Candidate
	Score float64
	Rank  int
}

// Ranker turns a corpus into a ranked list of sections.
type Ranker struct {
	detector *sections.Detector
	policy   Policy
	topK     int
	log      *slog.Logger
}

// NewRanker creates a ranker. A non-positive topK selects DefaultTopK and
// values above MaxTopK are clamped.
func NewRanker(detector *sections.Detector, policy Policy, topK int, log *slog.Logger) *Ranker {
	if detector == nil {
		detector = sections.NewDetector()
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ranker{detector: detector, policy: policy, topK: topK, log: log}
}

// Policy returns the active heuristic policy.
func (r *Ranker) Policy() Policy { return r.policy }

// Candidates enumerates section candidates in document, page, title order.
func (r *Ranker) Candidates(c *corpus.Corpus) []Candidate {
	var out []Candidate
	for _, doc := range c.Documents() {
		for _, page := range doc.Pages {
			titles := r.detector.Detect(page.Text)
			if len(titles) == 0 && r.policy.Fallback != nil {
				if t, ok := r.policy.Fallback(page.Text); ok {
					titles = []string{t}
				}
			}
			for _, title := range titles {
				out = append(out, Candidate{
					Document: doc.ID,
					Page:     page.Number,
					Title:    title,
					Text:     page.Text,
				})
			}
		}
	}
	return out
}

// Rank scores every candidate against the query and returns the top K. It
// never fails: a degenerate corpus yields an empty ranking.
func (r *Ranker) Rank(persona, job string, c *corpus.Corpus) []RankedSection {
	candidates := r.Candidates(c)
	if len(candidates) == 0 {
		r.log.Info("no section candidates found")
		return []RankedSection{}
	}

	docs := make([]string, 0, len(candidates)+1)
	docs = append(docs, r.policy.Query(persona, job))
	for _, cand := range candidates {
		docs = append(docs, cand.Text)
	}

	vectors, err := tfidf.NewVectorizer().FitTransform(docs)
	if err != nil {
		r.log.Error("tf-idf vectorization failed", "candidates", len(candidates), "error", err)
		return []RankedSection{}
	}

	scored := make([]RankedSection, len(candidates))
	for i, cand := range candidates {
		scored[i] = RankedSection{
			Candidate: cand,
			Score:     tfidf.Cosine(vectors[0], vectors[i+1]),
		}
	}
	ranked := SortAndRank(scored)
	if len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}
	r.log.Debug("ranked sections", "candidates", len(candidates), "returned", len(ranked))
	return ranked
}

// SortAndRank returns a copy of sections sorted by score descending, ties kept
// in discovery order, with ranks renumbered 1..N.
func SortAndRank(scored []RankedSection) []RankedSection {
	out := make([]RankedSection, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

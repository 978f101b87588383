// Package analysis composes section ranking and subsection extraction into a
// single persona-driven analysis of a corpus.
package analysis

import (
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/dgallion1/docrank/internal/ranking"
	"github.com/dgallion1/docrank/internal/subsection"
)

// TimestampLayout is ISO-8601 local time with microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Metadata describes the inputs of an analysis run.
type Metadata struct {
	InputDocuments      []string       `json:"input_documents"`
	Persona             string         `json:"persona"`
	JobToBeDone         string         `json:"job_to_be_done"`
	ProcessingTimestamp string         `json:"processing_timestamp"`
	ChallengeInfo       map[string]any `json:"challenge_info,omitempty"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type Subsection struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Result is the serializable analysis output. Ranked keeps the scored
// sections for exports and metrics and is not part of the JSON document.
type Result struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`

	Ranked []ranking.RankedSection `json:"-"`
}

// AttachChallengeInfo sets metadata.challenge_info. A nil or empty map
// removes it.
func (r *Result) AttachChallengeInfo(info map[string]any) {
	if len(info) == 0 {
		r.Metadata.ChallengeInfo = nil
		return
	}
	r.Metadata.ChallengeInfo = info
}

// ChallengeID returns challenge_info.challenge_id when it is a string.
func (r *Result) ChallengeID() string {
	id, _ := r.Metadata.ChallengeInfo["challenge_id"].(string)
	return id
}

// Omitted is the number of ranked sections without a subsection.
func (r *Result) Omitted() int {
	return len(r.ExtractedSections) - len(r.SubsectionAnalysis)
}

// Analyzer runs the rank → extract → assemble pipeline.
type Analyzer struct {
	ranker    *ranking.Ranker
	extractor *subsection.Extractor
	now       func() time.Time
	log       *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock replaces the wall clock used for processing_timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

func NewAnalyzer(ranker *ranking.Ranker, extractor *subsection.Extractor, log *slog.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	if ranker == nil {
		ranker = ranking.NewRanker(nil, ranking.FormsPolicy(), ranking.DefaultTopK, log)
	}
	if extractor == nil {
		extractor = subsection.NewExtractor(subsection.DefaultWindowPolicy(), log)
	}
	a := &Analyzer{ranker: ranker, extractor: extractor, now: time.Now, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateInputs reports a *ConfigError when persona or job is blank.
func ValidateInputs(persona, job string) error {
	if strings.TrimSpace(persona) == "" {
		return &ConfigError{Field: "persona", Message: "must not be empty"}
	}
	if strings.TrimSpace(job) == "" {
		return &ConfigError{Field: "job_to_be_done", Message: "must not be empty"}
	}
	return nil
}

// Analyze ranks the corpus against persona and job. Only missing inputs are
// errors; a corpus with nothing to rank produces an empty result.
func (a *Analyzer) Analyze(persona, job string, c *corpus.Corpus) (*Result, error) {
	if err := ValidateInputs(persona, job); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrMissingCorpus
	}

	ranked := a.ranker.Rank(persona, job, c)
	subs := a.extractor.Extract(c, ranked)

	res := &Result{
		Metadata: Metadata{
			InputDocuments:      c.IDs(),
			Persona:             persona,
			JobToBeDone:         job,
			ProcessingTimestamp: a.now().Format(TimestampLayout),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]Subsection, 0, len(subs)),
		Ranked:             ranked,
	}
	for _, s := range ranked {
		res.ExtractedSections = append(res.ExtractedSections, ExtractedSection{
			Document:       s.Document,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
			PageNumber:     s.Page,
		})
	}
	for _, s := range subs {
		res.SubsectionAnalysis = append(res.SubsectionAnalysis, Subsection{
			Document:    s.Document,
			RefinedText: s.RefinedText,
			PageNumber:  s.Page,
		})
	}

	a.log.Info("analysis complete",
		"documents", c.Len(),
		"sections", len(res.ExtractedSections),
		"subsections", len(res.SubsectionAnalysis),
		"policy", a.ranker.Policy().Name,
	)
	return res, nil
}

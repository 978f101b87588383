package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time {
	return time.Date(2025, 7, 10, 14, 3, 9, 123456000, time.Local)
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), WithClock(fixedClock))
}

func onboardingCorpus() *corpus.Corpus {
	c := corpus.New()
	c.AddText("A.pdf", "INTRODUCTION\nThis guide covers creating fillable forms for onboarding.")
	return c
}

func TestAnalyze_OnboardingScenario(t *testing.T) {
	res, err := newTestAnalyzer().Analyze("HR professional", "Create and manage fillable forms for onboarding", onboardingCorpus())
	require.NoError(t, err)

	assert.Equal(t, []string{"A.pdf"}, res.Metadata.InputDocuments)
	assert.Equal(t, "HR professional", res.Metadata.Persona)
	assert.Equal(t, "Create and manage fillable forms for onboarding", res.Metadata.JobToBeDone)
	assert.Equal(t, "2025-07-10T14:03:09.123456", res.Metadata.ProcessingTimestamp)

	require.Len(t, res.ExtractedSections, 1)
	assert.Equal(t, ExtractedSection{Document: "A.pdf", SectionTitle: "INTRODUCTION", ImportanceRank: 1, PageNumber: 1}, res.ExtractedSections[0])
	require.Len(t, res.Ranked, 1)
	assert.Greater(t, res.Ranked[0].Score, 0.0)

	require.Len(t, res.SubsectionAnalysis, 1)
	assert.True(t, strings.HasPrefix(res.SubsectionAnalysis[0].RefinedText, "From 'A.pdf' - INTRODUCTION: "))
	assert.Equal(t, 0, res.Omitted())
}

func TestAnalyze_JSONShape(t *testing.T) {
	res, err := newTestAnalyzer().Analyze("HR professional", "Create fillable forms", onboardingCorpus())
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, doc, "extracted_sections")
	assert.Contains(t, doc, "subsection_analysis")

	var meta map[string]any
	require.NoError(t, json.Unmarshal(doc["metadata"], &meta))
	assert.NotContains(t, meta, "challenge_info")
	assert.Contains(t, meta, "processing_timestamp")

	var sections []map[string]any
	require.NoError(t, json.Unmarshal(doc["extracted_sections"], &sections))
	require.Len(t, sections, 1)
	assert.ElementsMatch(t, []string{"document", "section_title", "importance_rank", "page_number"}, keys(sections[0]))

	var subs []map[string]any
	require.NoError(t, json.Unmarshal(doc["subsection_analysis"], &subs))
	require.Len(t, subs, 1)
	assert.ElementsMatch(t, []string{"document", "refined_text", "page_number"}, keys(subs[0]))
}

func TestAnalyze_EmptyCorpusIsSuccess(t *testing.T) {
	c := corpus.New()
	c.AddText("blank.pdf", "", "   \n  ")

	res, err := newTestAnalyzer().Analyze("HR professional", "Create forms", c)
	require.NoError(t, err)
	assert.Equal(t, []string{"blank.pdf"}, res.Metadata.InputDocuments)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"extracted_sections":[]`)
	assert.Contains(t, string(raw), `"subsection_analysis":[]`)
}

func TestAnalyze_NoDocuments(t *testing.T) {
	res, err := newTestAnalyzer().Analyze("Analyst", "Summarize", corpus.New())
	require.NoError(t, err)

	raw, err := json.Marshal(res.Metadata)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"input_documents":[]`)
}

func TestAnalyze_ConfigurationErrors(t *testing.T) {
	a := newTestAnalyzer()
	tests := []struct {
		name    string
		persona string
		job     string
		field   string
	}{
		{"missing persona", "", "Create forms", "persona"},
		{"blank persona", "   ", "Create forms", "persona"},
		{"missing job", "HR professional", "", "job_to_be_done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Analyze(tt.persona, tt.job, onboardingCorpus())
			assert.Nil(t, res)
			require.ErrorIs(t, err, ErrConfiguration)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestAnalyze_MissingCorpus(t *testing.T) {
	res, err := newTestAnalyzer().Analyze("HR professional", "Create forms", nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMissingCorpus)
	assert.NotErrorIs(t, err, ErrConfiguration)
}

func TestAnalyze_Idempotent(t *testing.T) {
	c := corpus.New()
	c.AddText("a.pdf", "OVERVIEW\nGeneral product overview.", "1. Creating Forms\nUse the prepare form tool.")
	c.AddText("b.pdf", "Managing Fillable Forms\nTrack responses and compliance.")

	a := newTestAnalyzer()
	first, err := a.Analyze("HR professional", "Create and manage fillable forms", c)
	require.NoError(t, err)
	second, err := a.Analyze("HR professional", "Create and manage fillable forms", c)
	require.NoError(t, err)

	j1, err := json.Marshal(first)
	require.NoError(t, err)
	j2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(j1), string(j2))
	assert.LessOrEqual(t, len(first.SubsectionAnalysis), len(first.ExtractedSections))
}

func TestAnalyze_FallbackTitleHasNoSubsection(t *testing.T) {
	c := onboardingCorpus()
	c.AddText("notes.pdf", "these notes explain how to create fillable forms for onboarding new staff\nand how to track them.")

	res, err := newTestAnalyzer().Analyze("HR professional", "Create and manage fillable forms for onboarding", c)
	require.NoError(t, err)

	require.Len(t, res.ExtractedSections, 2)
	var fallback *ExtractedSection
	for i := range res.ExtractedSections {
		if res.ExtractedSections[i].Document == "notes.pdf" {
			fallback = &res.ExtractedSections[i]
		}
	}
	require.NotNil(t, fallback)
	assert.Equal(t, "these notes explain how to create fillable forms f...", fallback.SectionTitle)

	require.Len(t, res.SubsectionAnalysis, 1)
	assert.Equal(t, "A.pdf", res.SubsectionAnalysis[0].Document)
	assert.Less(t, len(res.SubsectionAnalysis), len(res.ExtractedSections))
	assert.Equal(t, 1, res.Omitted())
}

func TestResult_AttachChallengeInfo(t *testing.T) {
	res, err := newTestAnalyzer().Analyze("HR professional", "Create forms", onboardingCorpus())
	require.NoError(t, err)
	assert.Equal(t, "", res.ChallengeID())

	res.AttachChallengeInfo(map[string]any{"challenge_id": "round_1b_003", "test_case_name": "forms"})
	assert.Equal(t, "round_1b_003", res.ChallengeID())

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"challenge_info":{"challenge_id":"round_1b_003","test_case_name":"forms"}`)

	res.AttachChallengeInfo(nil)
	assert.Nil(t, res.Metadata.ChallengeInfo)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

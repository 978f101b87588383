package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docrank/internal/analysis"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/stats"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
}

func waitFor(t *testing.T, job *Job, status JobStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return job.Snapshot().Status == status
	}, 5*time.Second, 10*time.Millisecond, "job never reached %s", status)
}

func TestOrchestrator_CompletesJob(t *testing.T) {
	timings := stats.NewTimings(0)
	o := NewOrchestrator(testConfig(), analysis.NewAnalyzer(nil, nil, quietLogger()), stats.NewMetrics(), timings, quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("HR professional", "Create and manage fillable forms for onboarding", []Upload{
		{Filename: "A.txt", Data: []byte("INTRODUCTION\nThis guide covers creating fillable forms for onboarding.")},
		{Filename: "B.md", Data: []byte("# SUMMARY\n\nQuarterly revenue figures.")},
	})
	job.SetChallengeInfo(map[string]any{"challenge_id": "round_1b_003"})
	require.NoError(t, o.Submit(job))
	waitFor(t, job, StatusCompleted)

	res := o.GetJob(job.ID).Result()
	require.NotNil(t, res)
	assert.Equal(t, []string{"A.txt", "B.md"}, res.Metadata.InputDocuments)
	assert.Equal(t, "round_1b_003", res.ChallengeID())
	require.NotEmpty(t, res.ExtractedSections)
	assert.Equal(t, "INTRODUCTION", res.ExtractedSections[0].SectionTitle)
	assert.True(t, strings.HasPrefix(res.SubsectionAnalysis[0].RefinedText, "From 'A.txt' - INTRODUCTION: "))

	snap := job.Snapshot()
	assert.Equal(t, 2, snap.Progress.DocumentsParsed)
	assert.Len(t, snap.Progress.Documents[0].ContentHash, 64)
	stages := timings.Snapshot()
	for _, stage := range []string{stats.StageParse, stats.StageRank, stats.StageTotal} {
		assert.Equal(t, 1, stages[stage].Count, stage)
	}
	assert.LessOrEqual(t, stages[stats.StageRank].MaxMs, stages[stats.StageTotal].MaxMs)
}

func TestWorker_UnsupportedUploadFails(t *testing.T) {
	o := NewOrchestrator(testConfig(), analysis.NewAnalyzer(nil, nil, quietLogger()), nil, nil, quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("HR professional", "Create forms", []Upload{{Filename: "slides.pptx", Data: []byte("x")}})
	require.NoError(t, o.Submit(job))
	waitFor(t, job, StatusFailed)

	snap := job.Snapshot()
	assert.Equal(t, "parsing", snap.Phase)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "slides.pptx")
	assert.Nil(t, job.Result())
}

func TestWorker_MissingPersonaFails(t *testing.T) {
	timings := stats.NewTimings(0)
	w := NewWorker(analysis.NewAnalyzer(nil, nil, quietLogger()), parserOptions(), stats.NewMetrics(), timings, quietLogger())
	job := NewJob("", "Create forms", []Upload{{Filename: "a.txt", Data: []byte("TITLE\nbody")}})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "ranking", snap.Phase)
	assert.Contains(t, snap.Progress.Errors[0], "persona")
	assert.Empty(t, timings.Snapshot(), "failed jobs record no stage timings")
}

func TestWorker_CancelledContext(t *testing.T) {
	w := NewWorker(analysis.NewAnalyzer(nil, nil, quietLogger()), parserOptions(), stats.NewMetrics(), stats.NewTimings(0), quietLogger())
	job := NewJob("p", "j", []Upload{{Filename: "a.txt", Data: []byte("TITLE")}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Process(ctx, job)

	assert.Equal(t, StatusFailed, job.Snapshot().Status)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, analysis.NewAnalyzer(nil, nil, quietLogger()), nil, nil, quietLogger())

	require.NoError(t, o.Submit(NewJob("p", "j", nil)))
	second := NewJob("p", "j", nil)
	err := o.Submit(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.Equal(t, StatusFailed, second.Snapshot().Status)
	assert.Equal(t, 1, o.QueueDepth())
	assert.NotNil(t, o.GetJob(second.ID))
}

func parserOptions() parser.Options {
	return parser.Options{}
}

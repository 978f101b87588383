package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docrank/internal/analysis"
	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/stats"
)

// Worker processes a single analysis job.
type Worker struct {
	analyzer *analysis.Analyzer
	opts     parser.Options
	metrics  *stats.Metrics
	timings  *stats.Timings
	log      *slog.Logger
}

func NewWorker(analyzer *analysis.Analyzer, opts parser.Options, metrics *stats.Metrics, timings *stats.Timings, log *slog.Logger) *Worker {
	return &Worker{
		analyzer: analyzer,
		opts:     opts,
		metrics:  metrics,
		timings:  timings,
		log:      log,
	}
}

// Process parses the job's uploads, runs the analysis and records the
// outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	start := time.Now()

	fail := func(phase string, err error) {
		log.Error("analysis failed", "phase", phase, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		w.metrics.ObserveFailure(time.Since(start))
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	c := corpus.New()
	for _, up := range job.Uploads() {
		if err := ctx.Err(); err != nil {
			fail("parsing", err)
			return
		}
		p, err := parser.ForFile(up.Filename, w.opts)
		if err != nil {
			fail("parsing", fmt.Errorf("%s: %w", up.Filename, err))
			return
		}
		pages, err := p.Parse(bytes.NewReader(up.Data), up.Filename)
		if err != nil {
			fail("parsing", fmt.Errorf("%s: %w", up.Filename, err))
			return
		}
		c.Add(up.Filename, pages)
		job.AddDocument(DocumentInfo{
			Filename:    up.Filename,
			Pages:       len(pages),
			ContentHash: ContentHashHex(up.Data),
		})
		log.Debug("document parsed", "document", up.Filename, "pages", len(pages))
	}

	parsed := time.Now()

	// Phase 2: Rank and extract
	job.SetStatus(StatusRanking, "ranking")
	snap := job.Snapshot()
	res, err := w.analyzer.Analyze(snap.Persona, snap.JobToBeDone, c)
	if err != nil {
		fail("ranking", err)
		return
	}
	res.AttachChallengeInfo(job.challengeInfo())

	elapsed := time.Since(start)
	w.timings.Record(stats.StageParse, parsed.Sub(start))
	w.timings.Record(stats.StageRank, time.Since(parsed))
	w.timings.Record(stats.StageTotal, elapsed)
	w.metrics.ObserveSuccess(elapsed, len(res.ExtractedSections), res.Omitted())
	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("analysis stored",
		"documents", c.Len(),
		"sections", len(res.ExtractedSections),
		"duration_ms", elapsed.Milliseconds(),
	)
}

package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docrank/internal/analysis"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/ranking"
	"github.com/dgallion1/docrank/internal/sections"
	"github.com/dgallion1/docrank/internal/subsection"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "docrank",
		Short:        "Rank document sections for a persona and job to be done",
		SilenceUsage: true,
	}
	root.AddCommand(analyzeCMD(), serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func newAnalyzer(cfg config.Config, log *slog.Logger) (*analysis.Analyzer, error) {
	policy, err := ranking.PolicyByName(cfg.RankingPolicy)
	if err != nil {
		return nil, err
	}
	ranker := ranking.NewRanker(sections.NewDetector(), policy, cfg.TopK, log.With("component", "ranking"))
	extractor := subsection.NewExtractor(subsection.DefaultWindowPolicy(), log.With("component", "subsection"))
	return analysis.NewAnalyzer(ranker, extractor, log.With("component", "analysis")), nil
}

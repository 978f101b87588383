package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docrank/internal/analysis"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/output"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/persona"
)

func analyzeCMD() *cobra.Command {
	var (
		inputDir, outputDir, personaFile string
		policy, format                   string
		topK                             int
		exts                             []string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the documents in the input directory and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir = inputDir
			}
			if flags.Changed("output") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("persona") {
				cfg.PersonaFile = personaFile
			}
			if flags.Changed("policy") {
				cfg.RankingPolicy = policy
			}
			if flags.Changed("format") {
				cfg.OutputFormat = format
			}
			if flags.Changed("top-k") {
				cfg.TopK = topK
			}
			if flags.Changed("ext") {
				cfg.InputExtensions = exts
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := newLogger(cfg)
			_, err := runAnalyze(cfg, log)
			if err != nil {
				log.Error("analysis failed", "error", err)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&inputDir, "input", "i", "input", "input directory")
	f.StringVarP(&outputDir, "output", "o", "output", "output directory")
	f.StringVarP(&personaFile, "persona", "p", "persona.json", "persona file used when the input directory has none")
	f.StringVar(&policy, "policy", "forms", "ranking policy (forms or plain)")
	f.StringVar(&format, "format", "json", "output format (json, xlsx or both)")
	f.IntVarP(&topK, "top-k", "k", 5, "number of sections to return (at most 5)")
	f.StringSliceVar(&exts, "ext", []string{".pdf"}, "input file extensions")
	return cmd
}

// runAnalyze performs one batch analysis and returns the written paths. An
// input directory without documents is reported and produces no output.
func runAnalyze(cfg config.Config, log *slog.Logger) ([]string, error) {
	if _, err := os.Stat(cfg.InputDir); err != nil {
		return nil, fmt.Errorf("%w: %s", parser.ErrNoInputDir, cfg.InputDir)
	}

	personaPath := persona.Locate(cfg.InputDir, cfg.PersonaFile)
	pf, err := persona.Load(personaPath)
	if err != nil {
		return nil, &analysis.ConfigError{Field: "persona_file", Message: err.Error()}
	}
	if err := analysis.ValidateInputs(pf.Persona, pf.Job); err != nil {
		return nil, err
	}
	log.Info("persona loaded", "file", personaPath, "persona", pf.Persona, "job", pf.Job)

	c, err := parser.LoadDir(cfg.InputDir, cfg.InputExtensions,
		parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		log.With("component", "parser"))
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		log.Warn("no input documents found", "input_dir", cfg.InputDir, "extensions", cfg.InputExtensions)
		for _, d := range pf.Documents {
			log.Info("expected document", "document", d.Filename)
		}
		return nil, nil
	}
	if missing := pf.MissingDocuments(c); len(missing) > 0 {
		log.Warn("expected documents not found", "missing", missing)
	}

	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return nil, err
	}
	res, err := analyzer.Analyze(pf.Persona, pf.Job, c)
	if err != nil {
		return nil, err
	}
	res.AttachChallengeInfo(pf.ChallengeInfo)

	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	paths, err := output.Write(cfg.OutputDir, res, format)
	if err != nil {
		return paths, err
	}
	for _, p := range paths {
		log.Info("result written", "path", p)
	}
	return paths, nil
}

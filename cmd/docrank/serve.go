package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docrank/internal/api"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/dgallion1/docrank/internal/stats"
)

func serveCMD() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8090", "listen port")
	return cmd
}

func serve(cfg config.Config) error {
	log := newLogger(cfg)

	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, analyzer, stats.NewMetrics(), stats.NewTimings(stats.DefaultWindow), log.With("component", "pipeline"))
	orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(orch, log.With("component", "api"), cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting docrank", "port", cfg.Port, "workers", cfg.WorkerCount, "policy", cfg.RankingPolicy)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown.
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	orch.Stop()
	return err
}

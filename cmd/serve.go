package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/server"
	"github.com/brandlens/brandlens/internal/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		orchestrator, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}
		runner := analyze.NewRunner(orchestrator, store, cfg.Upload.ResultsDir)

		janitor := task.NewJanitor(store, cfg.Retention.Schedule, cfg.Retention.MaxAge())
		if err := janitor.Start(); err != nil {
			return err
		}
		defer janitor.Stop()

		srv := server.New(store, runner, cfg.Upload.Dir, cfg.Upload.MaxBytes, cfg.Server.Port)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

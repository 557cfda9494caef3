package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/analyze"
)

var analyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a creator file locally and print the summary",
	Args:  cobra.ExactArgs(1),
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

		outDir := analyzeOut
		if outDir == "" {
			outDir = cfg.Upload.ResultsDir
		}
		runner := analyze.NewRunner(orchestrator, store, outDir)

		t, err := store.Create(ctx, args[0])
		if err != nil {
			return err
		}
		if err := runner.Execute(ctx, t.ID, args[0]); err != nil {
			return err
		}

		done, err := store.Get(ctx, t.ID)
		if err != nil {
			return err
		}
		s := done.Results
		fmt.Printf("Processed %d creators\n", s.TotalProcessed)
		fmt.Printf("  official brand: %d (%.1f%%)\n", s.OfficialCount, s.OfficialPercent)
		fmt.Printf("  matrix:         %d (%.1f%%)\n", s.MatrixCount, s.MatrixPercent)
		fmt.Printf("  UGC:            %d (%.1f%%)\n", s.UGCCount, s.UGCPercent)
		fmt.Printf("  non-brand:      %d (%.1f%%)\n", s.NonBrandCount, s.NonBrandPercent)
		fmt.Printf("Results written under %s/%s\n", outDir, t.ID)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "directory for result files (default: configured results dir)")
	rootCmd.AddCommand(analyzeCmd)
}

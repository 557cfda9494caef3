package analyze

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/ingest"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/internal/report"
	"github.com/brandlens/brandlens/internal/task"
)

// Runner drives a full analysis for one uploaded file: parse, classify,
// write reports, and record every step against the task.
type Runner struct {
	orchestrator *Orchestrator
	store        task.Store
	resultsDir   string
}

func NewRunner(orchestrator *Orchestrator, store task.Store, resultsDir string) *Runner {
	return &Runner{orchestrator: orchestrator, store: store, resultsDir: resultsDir}
}

// Execute runs the analysis for taskID over the file at filePath. All
// outcomes, including failures, are recorded on the task; the returned
// error mirrors the recorded failure for callers that want it.
func (r *Runner) Execute(ctx context.Context, taskID string, filePath string) error {
	tracker := task.NewTracker(r.store, taskID)

	tracker.Processing(ctx, "Parsing uploaded file...")
	creators, err := ingest.FromFile(filePath)
	if err != nil {
		zap.L().Error("file parse failed", zap.String("task_id", taskID), zap.Error(err))
		tracker.Fail(ctx, fmt.Sprintf("Failed to parse file: %v", err))
		return err
	}
	tracker.Log(ctx, fmt.Sprintf("Parsed %d unique creators from %s", len(creators), filepath.Base(filePath)))

	tracker.Processing(ctx, fmt.Sprintf("Analyzing %d creators...", len(creators)))
	results, err := r.orchestrator.Run(ctx, creators,
		func(p Progress) {
			tracker.Progress(ctx, fmt.Sprintf("Analyzed %d/%d creators (%d batches done)", p.Completed, p.Total, p.Batches))
		},
		func(line string) {
			tracker.Log(ctx, line)
		},
	)
	if err != nil {
		// the run context is already cancelled here; the failure record
		// still has to reach the store
		tracker.Fail(context.WithoutCancel(ctx), "Analysis cancelled before completion")
		return err
	}
	if len(results) == 0 {
		tracker.Fail(ctx, "No creators were successfully analyzed")
		return fmt.Errorf("no creators were successfully analyzed")
	}

	tracker.Processing(ctx, "Writing result files...")
	flat := make([]model.ClassificationResult, 0, len(results))
	for _, res := range results {
		flat = append(flat, *res)
	}

	outDir := filepath.Join(r.resultsDir, taskID)
	if _, _, err := report.WriteFiles(outDir, flat); err != nil {
		zap.L().Error("report write failed", zap.String("task_id", taskID), zap.Error(err))
		tracker.Fail(ctx, fmt.Sprintf("Failed to write result files: %v", err))
		return err
	}

	summary := report.Summarize(flat)
	tracker.Log(ctx, fmt.Sprintf("Analysis finished: %d brand-related, %d non-brand", summary.BrandRelatedCount, summary.NonBrandCount))
	tracker.Complete(ctx, summary)
	return nil
}

// ResultPath returns the on-disk path of a task's result file.
func (r *Runner) ResultPath(taskID string, fileName string) string {
	return filepath.Join(r.resultsDir, taskID, fileName)
}

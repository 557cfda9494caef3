package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/model"
)

// Tracker is the single write path for a task's lifecycle. Store failures
// are logged rather than returned so a flaky store never aborts an
// in-flight analysis.
type Tracker struct {
	store  Store
	taskID string
}

func NewTracker(store Store, taskID string) *Tracker {
	return &Tracker{store: store, taskID: taskID}
}

func (t *Tracker) Processing(ctx context.Context, message string) {
	if err := t.store.UpdateProgress(ctx, t.taskID, model.TaskStatusProcessing, message); err != nil {
		zap.L().Warn("failed to update task progress", zap.String("task_id", t.taskID), zap.Error(err))
	}
}

func (t *Tracker) Progress(ctx context.Context, message string) {
	t.Processing(ctx, message)
}

func (t *Tracker) Complete(ctx context.Context, summary *model.AnalysisSummary) {
	if err := t.store.Complete(ctx, t.taskID, summary); err != nil {
		zap.L().Error("failed to complete task", zap.String("task_id", t.taskID), zap.Error(err))
	}
}

func (t *Tracker) Fail(ctx context.Context, message string) {
	if err := t.store.Fail(ctx, t.taskID, message); err != nil {
		zap.L().Error("failed to mark task as failed", zap.String("task_id", t.taskID), zap.Error(err))
	}
}

func (t *Tracker) Log(ctx context.Context, line string) {
	if err := t.store.AppendLog(ctx, t.taskID, line); err != nil {
		zap.L().Warn("failed to append task log", zap.String("task_id", t.taskID), zap.Error(err))
	}
}

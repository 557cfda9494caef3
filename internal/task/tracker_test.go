package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

func TestTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	created, err := st.Create(ctx, "f.csv")
	require.NoError(t, err)

	tr := NewTracker(st, created.ID)

	tr.Processing(ctx, "Parsing uploaded file...")
	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusProcessing, got.Status)
	assert.Equal(t, "Parsing uploaded file...", got.Progress)

	tr.Log(ctx, "parsed 5 creators")
	lines, err := st.Logs(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"parsed 5 creators"}, lines)

	tr.Complete(ctx, &model.AnalysisSummary{TotalProcessed: 5})
	got, err = st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.Results)
	assert.Equal(t, 5, got.Results.TotalProcessed)
}

func TestTracker_Fail(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	created, err := st.Create(ctx, "f.csv")
	require.NoError(t, err)

	tr := NewTracker(st, created.ID)
	tr.Fail(ctx, "Failed to parse file")

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusError, got.Status)
	assert.Equal(t, "Failed to parse file", got.Progress)
}

func TestTracker_StoreErrorsDoNotPanic(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemory(), "no-such-task")

	// updates against a missing task are swallowed and logged
	tr.Processing(ctx, "x")
	tr.Complete(ctx, &model.AnalysisSummary{})
	tr.Fail(ctx, "x")
	tr.Log(ctx, "x")
}

func TestJanitor_SweepEvictsExpired(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	created, err := st.Create(ctx, "old.csv")
	require.NoError(t, err)

	j := NewJanitor(st, "@hourly", -time.Hour)
	j.sweep()

	_, err = st.Get(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestJanitor_RejectsBadSchedule(t *testing.T) {
	j := NewJanitor(NewMemory(), "not a schedule", time.Hour)
	assert.Error(t, j.Start())
}

package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/classify"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/internal/report"
	"github.com/brandlens/brandlens/internal/task"
)

const runnerCSV = `user_unique_id,user_nickname,signature,author_followers_count
brandy_app,Brandy,Get the Brandy app now,50000
casual_carl,Carl,life stuff,300
casual_carl,Carl,duplicate,300
`

func TestRunner_Execute_CompletesTask(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "upload.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(runnerCSV), 0o644))

	llm := &scriptedLLM{
		responses: map[string]string{
			"brandy_app":  "true|false|false|Brandy|0.92|username contains brand name",
			"casual_carl": "false|false|true|None|0.85|no partnership signals",
		},
	}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	st := task.NewMemory()
	created, err := st.Create(ctx, "upload.csv")
	require.NoError(t, err)

	resultsDir := filepath.Join(dir, "results")
	runner := NewRunner(o, st, resultsDir)
	require.NoError(t, runner.Execute(ctx, created.ID, inputPath))

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.Results)
	assert.Equal(t, 2, got.Results.TotalProcessed)
	assert.Equal(t, 1, got.Results.BrandRelatedCount)
	assert.Equal(t, 1, got.Results.NonBrandCount)
	assert.Equal(t, report.BrandFileName, got.Results.BrandFile)

	assert.FileExists(t, runner.ResultPath(created.ID, report.BrandFileName))
	assert.FileExists(t, runner.ResultPath(created.ID, report.NonBrandFileName))

	logs, err := st.Logs(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestRunner_Execute_ParseFailureFailsTask(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte("nickname\nno-id-column\n"), 0o644))

	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	st := task.NewMemory()
	created, err := st.Create(ctx, "bad.csv")
	require.NoError(t, err)

	runner := NewRunner(o, st, filepath.Join(dir, "results"))
	require.Error(t, runner.Execute(ctx, created.ID, inputPath))

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusError, got.Status)
	assert.Contains(t, got.Progress, "Failed to parse file")
}

func TestRunner_Execute_CancelledContextFailsTask(t *testing.T) {
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "upload.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(runnerCSV), 0o644))

	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	st := task.NewMemory()
	created, err := st.Create(context.Background(), "upload.csv")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(o, st, filepath.Join(dir, "results"))
	require.Error(t, runner.Execute(ctx, created.ID, inputPath))

	got, err := st.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusError, got.Status)
}

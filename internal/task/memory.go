package task

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// MemoryStore implements Store with an in-process map. Used for tests and
// single-instance deployments that can tolerate losing tasks on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*model.AnalysisTask
	logs  map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*model.AnalysisTask),
		logs:  make(map[string][]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, filename string) (*model.AnalysisTask, error) {
	now := time.Now().UTC()
	t := &model.AnalysisTask{
		ID:        uuid.New().String(),
		Filename:  filename,
		Status:    model.TaskStatusPending,
		Progress:  "File uploaded successfully, preparing to start analysis...",
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.logs[t.ID] = nil
	s.mu.Unlock()

	snapshot := *t
	return &snapshot, nil
}

func (s *MemoryStore) Get(ctx context.Context, taskID string) (*model.AnalysisTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	snapshot := *t
	if t.Results != nil {
		results := *t.Results
		snapshot.Results = &results
	}
	return &snapshot, nil
}

func (s *MemoryStore) UpdateProgress(ctx context.Context, taskID string, status model.TaskStatus, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return errs.NotFoundf("task %s", taskID)
	}
	t.Status = status
	t.Progress = message
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Complete(ctx context.Context, taskID string, summary *model.AnalysisSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return errs.NotFoundf("task %s", taskID)
	}
	now := time.Now().UTC()
	t.Status = model.TaskStatusCompleted
	t.Progress = "Analysis completed"
	t.Results = summary
	t.UpdatedAt = now
	t.CompletedAt = &now
	return nil
}

func (s *MemoryStore) Fail(ctx context.Context, taskID string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return errs.NotFoundf("task %s", taskID)
	}
	now := time.Now().UTC()
	t.Status = model.TaskStatusError
	t.Progress = message
	t.UpdatedAt = now
	t.CompletedAt = &now
	return nil
}

func (s *MemoryStore) AppendLog(ctx context.Context, taskID string, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return errs.NotFoundf("task %s", taskID)
	}
	s.logs[taskID] = append(s.logs[taskID], line)
	return nil
}

func (s *MemoryStore) Logs(ctx context.Context, taskID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tasks[taskID]; !ok {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	lines := s.logs[taskID]
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]model.AnalysisTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.AnalysisTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, t := range s.tasks {
		if t.CreatedAt.Before(cutoff) {
			delete(s.tasks, id)
			delete(s.logs, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

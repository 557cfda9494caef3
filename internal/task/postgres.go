package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	progress     TEXT NOT NULL DEFAULT '',
	results      JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS task_logs (
	seq        BIGSERIAL PRIMARY KEY,
	task_id    TEXT NOT NULL REFERENCES tasks(id),
	line       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_task_logs_task_id ON task_logs(task_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, filename string) (*model.AnalysisTask, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	progress := "File uploaded successfully, preparing to start analysis..."

	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, filename, status, progress, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, filename, string(model.TaskStatusPending), progress, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert task")
	}

	return &model.AnalysisTask{
		ID:        id,
		Filename:  filename,
		Status:    model.TaskStatusPending,
		Progress:  progress,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, taskID string) (*model.AnalysisTask, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, filename, status, progress, results, created_at, updated_at, completed_at FROM tasks WHERE id = $1`,
		taskID,
	)
	return scanPgTask(row, taskID)
}

func (s *PostgresStore) UpdateProgress(ctx context.Context, taskID string, status model.TaskStatus, message string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, progress = $2, updated_at = $3 WHERE id = $4`,
		string(status), message, time.Now().UTC(), taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update task %s", taskID)
	}
	return checkTag(tag, taskID)
}

func (s *PostgresStore) Complete(ctx context.Context, taskID string, summary *model.AnalysisSummary) error {
	resultsJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal summary")
	}
	now := time.Now().UTC()

	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, progress = $2, results = $3, updated_at = $4, completed_at = $5 WHERE id = $6`,
		string(model.TaskStatusCompleted), "Analysis completed", resultsJSON, now, now, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete task %s", taskID)
	}
	return checkTag(tag, taskID)
}

func (s *PostgresStore) Fail(ctx context.Context, taskID string, message string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, progress = $2, updated_at = $3, completed_at = $4 WHERE id = $5`,
		string(model.TaskStatusError), message, now, now, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail task %s", taskID)
	}
	return checkTag(tag, taskID)
}

func (s *PostgresStore) AppendLog(ctx context.Context, taskID string, line string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO task_logs (task_id, line, created_at) VALUES ($1, $2, $3)`,
		taskID, line, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: append log for %s", taskID)
}

func (s *PostgresStore) Logs(ctx context.Context, taskID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT line FROM task_logs WHERE task_id = $1 ORDER BY seq`,
		taskID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get logs for %s", taskID)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, eris.Wrap(err, "postgres: scan log line")
		}
		lines = append(lines, line)
	}
	return lines, eris.Wrap(rows.Err(), "postgres: iterate logs")
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.AnalysisTask, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, status, progress, results, created_at, updated_at, completed_at FROM tasks
		 ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tasks")
	}
	defer rows.Close()

	var tasks []model.AnalysisTask
	for rows.Next() {
		t, err := scanPgTask(rows, "")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, eris.Wrap(rows.Err(), "postgres: iterate tasks")
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	if _, err := s.pool.Exec(ctx,
		`DELETE FROM task_logs WHERE task_id IN (SELECT id FROM tasks WHERE created_at < $1)`,
		cutoff,
	); err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired logs")
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired tasks")
	}
	return int(tag.RowsAffected()), nil
}

// helpers

func checkTag(tag pgconn.CommandTag, taskID string) error {
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("task %s", taskID)
	}
	return nil
}

func scanPgTask(row pgx.Row, taskID string) (*model.AnalysisTask, error) {
	var t model.AnalysisTask
	var resultsJSON []byte
	var completedAt *time.Time

	err := row.Scan(&t.ID, &t.Filename, &t.Status, &t.Progress, &resultsJSON, &t.CreatedAt, &t.UpdatedAt, &completedAt)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan task")
	}

	if len(resultsJSON) > 0 {
		t.Results = &model.AnalysisSummary{}
		if err := json.Unmarshal(resultsJSON, t.Results); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal summary")
		}
	}
	t.CompletedAt = completedAt
	return &t, nil
}

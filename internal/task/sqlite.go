package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	progress     TEXT NOT NULL DEFAULT '',
	results      TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS task_logs (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    TEXT NOT NULL REFERENCES tasks(id),
	line       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_task_logs_task_id ON task_logs(task_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, filename string) (*model.AnalysisTask, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	progress := "File uploaded successfully, preparing to start analysis..."

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, filename, status, progress, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, filename, string(model.TaskStatusPending), progress, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert task")
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

func (s *SQLiteStore) Get(ctx context.Context, taskID string) (*model.AnalysisTask, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, status, progress, results, created_at, updated_at, completed_at FROM tasks WHERE id = ?`,
		taskID,
	)
	return scanTask(row, taskID)
}

func (s *SQLiteStore) UpdateProgress(ctx context.Context, taskID string, status model.TaskStatus, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, progress = ?, updated_at = ? WHERE id = ?`,
		string(status), message, time.Now().UTC(), taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update task %s", taskID)
	}
	return checkRowsAffected(res, taskID)
}

func (s *SQLiteStore) Complete(ctx context.Context, taskID string, summary *model.AnalysisSummary) error {
	resultsJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, progress = ?, results = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		string(model.TaskStatusCompleted), "Analysis completed", string(resultsJSON), now, now, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete task %s", taskID)
	}
	return checkRowsAffected(res, taskID)
}

func (s *SQLiteStore) Fail(ctx context.Context, taskID string, message string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, progress = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		string(model.TaskStatusError), message, now, now, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail task %s", taskID)
	}
	return checkRowsAffected(res, taskID)
}

func (s *SQLiteStore) AppendLog(ctx context.Context, taskID string, line string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_logs (task_id, line, created_at) VALUES (?, ?, ?)`,
		taskID, line, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: append log for %s", taskID)
}

func (s *SQLiteStore) Logs(ctx context.Context, taskID string) ([]string, error) {
	if _, err := s.Get(ctx, taskID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT line FROM task_logs WHERE task_id = ? ORDER BY seq`,
		taskID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get logs for %s", taskID)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan log line")
		}
		lines = append(lines, line)
	}
	return lines, eris.Wrap(rows.Err(), "sqlite: iterate logs")
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.AnalysisTask, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, status, progress, results, created_at, updated_at, completed_at FROM tasks
		 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tasks")
	}
	defer rows.Close()

	var tasks []model.AnalysisTask
	for rows.Next() {
		t, err := scanTask(rows, "")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, eris.Wrap(rows.Err(), "sqlite: iterate tasks")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM task_logs WHERE task_id IN (SELECT id FROM tasks WHERE created_at < ?)`,
		cutoff,
	); err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired logs")
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE created_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired tasks")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

func checkRowsAffected(res sql.Result, taskID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errs.NotFoundf("task %s", taskID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable, taskID string) (*model.AnalysisTask, error) {
	var t model.AnalysisTask
	var resultsJSON sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&t.ID, &t.Filename, &t.Status, &t.Progress, &resultsJSON, &t.CreatedAt, &t.UpdatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan task")
	}

	if resultsJSON.Valid {
		t.Results = &model.AnalysisSummary{}
		if err := json.Unmarshal([]byte(resultsJSON.String), t.Results); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

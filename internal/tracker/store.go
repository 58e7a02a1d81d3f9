package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"recap/internal/meeting"
	"recap/internal/services"
)

const schema = `
CREATE TABLE IF NOT EXISTS objectives (
    id            TEXT PRIMARY KEY,
    meeting_id    TEXT NOT NULL,
    text          TEXT NOT NULL,
    status        TEXT NOT NULL,
    related_tasks TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    updated_at    TEXT
);
CREATE TABLE IF NOT EXISTS tasks (
    id         TEXT PRIMARY KEY,
    meeting_id TEXT NOT NULL,
    text       TEXT NOT NULL,
    status     TEXT NOT NULL,
    assignee   TEXT NOT NULL,
    due_date   TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_objectives_meeting ON objectives(meeting_id);
CREATE INDEX IF NOT EXISTS idx_tasks_meeting ON tasks(meeting_id);
`

// Store persists tracking records in SQLite so objective and task status
// survives daemon restarts.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the tracking database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTracking inserts every objective and task of a tracking payload.
func (s *Store) SaveTracking(ctx context.Context, tracking meeting.Tracking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, objective := range tracking.Objectives {
		related, err := json.Marshal(objective.RelatedTasks)
		if err != nil {
			return fmt.Errorf("marshal related tasks: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO objectives (id, meeting_id, text, status, related_tasks, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			objective.ID, objective.MeetingID, objective.Text, string(objective.Status),
			string(related), objective.CreatedAt.Format(time.RFC3339Nano), nullableTime(objective.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert objective: %w", err)
		}
	}
	for _, task := range tracking.Tasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (id, meeting_id, text, status, assignee, due_date, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.MeetingID, task.Text, string(task.Status), task.Assignee,
			nullableDate(task.DueDate), task.CreatedAt.Format(time.RFC3339Nano), nullableTime(task.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// TrackingForMeeting loads the persisted records for one meeting.
func (s *Store) TrackingForMeeting(ctx context.Context, meetingID string) (meeting.Tracking, error) {
	tracking := Empty(meetingID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, text, status, related_tasks, created_at, updated_at
         FROM objectives WHERE meeting_id = ? ORDER BY created_at, id`, meetingID)
	if err != nil {
		return tracking, fmt.Errorf("query objectives: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		objective, err := scanObjective(rows)
		if err != nil {
			return tracking, err
		}
		tracking.Objectives = append(tracking.Objectives, objective)
	}
	if err := rows.Err(); err != nil {
		return tracking, fmt.Errorf("iterate objectives: %w", err)
	}

	taskRows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, text, status, assignee, due_date, created_at, updated_at
         FROM tasks WHERE meeting_id = ? ORDER BY created_at, id`, meetingID)
	if err != nil {
		return tracking, fmt.Errorf("query tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		task, err := scanTask(taskRows)
		if err != nil {
			return tracking, err
		}
		tracking.Tasks = append(tracking.Tasks, task)
	}
	if err := taskRows.Err(); err != nil {
		return tracking, fmt.Errorf("iterate tasks: %w", err)
	}
	return tracking, nil
}

// UpdateTaskStatus transitions a task and returns the updated record.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID string, status meeting.TaskStatus) (meeting.Task, error) {
	var empty meeting.Task
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, taskID)
	if err != nil {
		return empty, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return empty, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return empty, services.Wrap(services.ErrNotFound, "tracking", "update task", fmt.Sprintf("task %s unknown", taskID), nil)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, meeting_id, text, status, assignee, due_date, created_at, updated_at
         FROM tasks WHERE id = ?`, taskID)
	task, err := scanTask(row)
	if err != nil {
		return empty, err
	}
	return task, nil
}

// UpdateObjectiveStatus transitions an objective and returns the updated record.
func (s *Store) UpdateObjectiveStatus(ctx context.Context, objectiveID string, status meeting.ObjectiveStatus) (meeting.Objective, error) {
	var empty meeting.Objective
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE objectives SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, objectiveID)
	if err != nil {
		return empty, fmt.Errorf("update objective: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return empty, fmt.Errorf("update objective: %w", err)
	}
	if affected == 0 {
		return empty, services.Wrap(services.ErrNotFound, "tracking", "update objective", fmt.Sprintf("objective %s unknown", objectiveID), nil)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, meeting_id, text, status, related_tasks, created_at, updated_at
         FROM objectives WHERE id = ?`, objectiveID)
	objective, err := scanObjective(row)
	if err != nil {
		return empty, err
	}
	return objective, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObjective(row rowScanner) (meeting.Objective, error) {
	var (
		objective meeting.Objective
		status    string
		related   string
		createdAt string
		updatedAt sql.NullString
	)
	if err := row.Scan(&objective.ID, &objective.MeetingID, &objective.Text, &status, &related, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return objective, services.Wrap(services.ErrNotFound, "tracking", "load objective", "objective unknown", nil)
		}
		return objective, fmt.Errorf("scan objective: %w", err)
	}
	objective.Status = meeting.ObjectiveStatus(status)
	if err := json.Unmarshal([]byte(related), &objective.RelatedTasks); err != nil {
		return objective, fmt.Errorf("decode related tasks: %w", err)
	}
	if objective.RelatedTasks == nil {
		objective.RelatedTasks = []string{}
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return objective, fmt.Errorf("parse created_at: %w", err)
	}
	objective.CreatedAt = created
	if updated, ok := parseNullableTime(updatedAt); ok {
		objective.UpdatedAt = updated
	}
	return objective, nil
}

func scanTask(row rowScanner) (meeting.Task, error) {
	var (
		task      meeting.Task
		status    string
		dueDate   sql.NullString
		createdAt string
		updatedAt sql.NullString
	)
	if err := row.Scan(&task.ID, &task.MeetingID, &task.Text, &status, &task.Assignee, &dueDate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task, services.Wrap(services.ErrNotFound, "tracking", "load task", "task unknown", nil)
		}
		return task, fmt.Errorf("scan task: %w", err)
	}
	task.Status = meeting.TaskStatus(status)
	if dueDate.Valid && dueDate.String != "" {
		due, err := meeting.ParseDate(dueDate.String)
		if err != nil {
			return task, fmt.Errorf("parse due_date: %w", err)
		}
		task.DueDate = &due
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return task, fmt.Errorf("parse created_at: %w", err)
	}
	task.CreatedAt = created
	if updated, ok := parseNullableTime(updatedAt); ok {
		task.UpdatedAt = updated
	}
	return task, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableDate(d *meeting.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseNullableTime(value sql.NullString) (*time.Time, bool) {
	if !value.Valid || value.String == "" {
		return nil, false
	}
	parsed, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

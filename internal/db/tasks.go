package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/worklog/internal/model"
)

// LoadTasks returns the whole log: every task with its events in
// chronological order and its notes in insertion order.
//
// Events and notes are fetched in single batch queries after the task
// rows are fully read: with SetMaxOpenConns(1), a nested query during
// rows iteration deadlocks on SQLite.
func (db *DB) LoadTasks() ([]*model.Task, error) {
	rows, err := db.Query(`
		SELECT id, description, created_at
		FROM tasks
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}

	var tasks []*model.Task
	byID := make(map[string]*model.Task)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := db.loadEvents(byID); err != nil {
		return nil, err
	}
	if err := db.loadNotes(byID); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (db *DB) loadEvents(byID map[string]*model.Task) error {
	rows, err := db.Query(`
		SELECT task_id, kind, at
		FROM events
		ORDER BY at, id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, kind string
		var at time.Time
		if err := rows.Scan(&taskID, &kind, &at); err != nil {
			return err
		}
		if t, ok := byID[taskID]; ok {
			t.Events = append(t.Events, model.TransitionEvent{
				Kind: model.EventKind(kind),
				At:   at,
			})
		}
	}
	return rows.Err()
}

func (db *DB) loadNotes(byID map[string]*model.Task) error {
	rows, err := db.Query(`
		SELECT task_id, body
		FROM notes
		ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, body string
		if err := rows.Scan(&taskID, &body); err != nil {
			return err
		}
		if t, ok := byID[taskID]; ok {
			t.Notes = append(t.Notes, body)
		}
	}
	return rows.Err()
}

// CreateTask persists a freshly created task.
func (db *DB) CreateTask(t *model.Task) error {
	_, err := db.Exec(`
		INSERT INTO tasks (id, description, created_at)
		VALUES (?, ?, ?)
	`, t.ID, t.Description, t.CreatedAt)
	return err
}

// AppendEvent persists one transition event for a task. The insert
// runs in a transaction that re-checks the task row, so an event for a
// task no longer in the log rolls back instead of leaving an orphan.
func (db *DB) AppendEvent(taskID string, ev model.TransitionEvent) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if err := taskExists(tx, taskID); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO events (task_id, kind, at)
			VALUES (?, ?, ?)
		`, taskID, string(ev.Kind), ev.At)
		return err
	})
}

// AddNote persists one note for a task, with the same row check as
// AppendEvent.
func (db *DB) AddNote(taskID, body string, now time.Time) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if err := taskExists(tx, taskID); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO notes (task_id, body, created_at)
			VALUES (?, ?, ?)
		`, taskID, body, now)
		return err
	})
}

func taskExists(tx *sql.Tx, taskID string) error {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?`, taskID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("task %s is not in the log", taskID)
	}
	return nil
}

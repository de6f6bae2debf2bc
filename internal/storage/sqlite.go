package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	_ "modernc.org/sqlite"

	"keep/internal/task"
)

type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	date TEXT DEFAULT NULL,
	start_time TEXT DEFAULT NULL,
	end_time TEXT DEFAULT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	body TEXT NOT NULL DEFAULT ''
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns adds columns that older databases lack.
func (s *SQLite) ensureTaskColumns() error {
	required := map[string]string{
		"id":         "ALTER TABLE tasks ADD COLUMN id TEXT NOT NULL DEFAULT '';",
		"start_time": "ALTER TABLE tasks ADD COLUMN start_time TEXT DEFAULT NULL;",
		"end_time":   "ALTER TABLE tasks ADD COLUMN end_time TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Load() (*task.Store, error) {
	store := task.NewStore()
	rows, err := s.db.Query(`SELECT id, content, completed, date, start_time, end_time FROM tasks ORDER BY position;`)
	if err != nil {
		return store, err
	}
	defer rows.Close()

	for rows.Next() {
		var t task.Task
		var completed int
		var dateStr, startStr, endStr sql.NullString
		if err := rows.Scan(&t.ID, &t.Content, &completed, &dateStr, &startStr, &endStr); err != nil {
			return task.NewStore(), err
		}
		t.Completed = completed == 1
		if dateStr.Valid {
			if d, err := civil.ParseDate(dateStr.String); err == nil {
				t.Date = &d
			}
		}
		t.StartTime = parseTimeColumn(startStr)
		t.EndTime = parseTimeColumn(endStr)
		store.Tasks = append(store.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return task.NewStore(), err
	}

	err = s.db.QueryRow(`SELECT body FROM notes WHERE id = 1;`).Scan(&store.Notes)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return store, fmt.Errorf("load notes: %w", err)
	}
	store.EnsureIDs()
	return store, nil
}

// Save rewrites every row in one transaction so positions match the store.
func (s *SQLite) Save(store *task.Store) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (position, id, content, completed, date, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range store.Tasks {
		dateStr := sql.NullString{}
		if t.Date != nil {
			dateStr = sql.NullString{String: t.Date.String(), Valid: true}
		}
		done := 0
		if t.Completed {
			done = 1
		}
		if _, err = stmt.Exec(i, t.ID, t.Content, done, dateStr, timeColumn(t.StartTime), timeColumn(t.EndTime)); err != nil {
			return fmt.Errorf("insert task %d: %w", i, err)
		}
	}
	if _, err = tx.Exec(`INSERT INTO notes (id, body) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET body = excluded.body;`, store.Notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return tx.Commit()
}

func timeColumn(t *civil.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

func parseTimeColumn(v sql.NullString) *civil.Time {
	if !v.Valid {
		return nil
	}
	t, err := civil.ParseTime(v.String)
	if err != nil {
		return nil
	}
	return &t
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

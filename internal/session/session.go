// Package session keeps a sqlite-backed ledger of capture runs, so datasets
// produced on different days and with different settings can be compared.
// The ledger is opt-in; nothing here runs unless a database path is given.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Session statuses. A session starts as running and is finished into one of
// the terminal statuses.
const (
	// StatusRunning is the transient state between Insert and Finish.
	StatusRunning = "running"
	// StatusComplete means every requested frame was captured.
	StatusComplete = "complete"
	// StatusPartial means the run stopped early but kept some frames.
	StatusPartial = "partial"
	// StatusFailed means no frames were captured.
	StatusFailed = "failed"
)

// Session is one capture run.
type Session struct {
	ID              string `json:"session_id"`
	StartedAtNs     int64  `json:"started_at_ns"`
	FinishedAtNs    *int64 `json:"finished_at_ns,omitempty"`
	DeviceIndex     int    `json:"device_index"`
	Width           int    `json:"frame_width"`
	Height          int    `json:"frame_height"`
	FramesRequested int    `json:"frames_requested"`
	FramesCaptured  int    `json:"frames_captured"`
	OutputDir       string `json:"output_dir"`
	Status          string `json:"status"`
	Notes           string `json:"notes,omitempty"`
}

// DB wraps the session database connection.
type DB struct {
	*sql.DB
}

// OpenDB opens (creating if needed) the session database at path and applies
// any pending migrations.
func OpenDB(path string) (*DB, error) {
	db, err := openDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	return db, nil
}

// openDatabase opens the database without touching the schema. The migrate
// subcommand uses this so it can report the version found on disk.
func openDatabase(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return &DB{db}, nil
}

// Store provides persistence for capture sessions.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Insert creates a new session row. If sess.ID is empty a new UUID is
// generated; a zero StartedAtNs is filled with the current time and an empty
// Status becomes running.
func (s *Store) Insert(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.StartedAtNs == 0 {
		sess.StartedAtNs = time.Now().UnixNano()
	}
	if sess.Status == "" {
		sess.Status = StatusRunning
	}

	query := `
		INSERT INTO capture_sessions (
			session_id, started_at_ns, finished_at_ns, device_index,
			frame_width, frame_height, frames_requested, frames_captured,
			output_dir, status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		sess.ID,
		sess.StartedAtNs,
		nullInt64(sess.FinishedAtNs),
		sess.DeviceIndex,
		sess.Width,
		sess.Height,
		sess.FramesRequested,
		sess.FramesCaptured,
		sess.OutputDir,
		sess.Status,
		nullString(sess.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// Finish marks a session as done, recording how many frames were captured,
// the terminal status, and an optional note (for example the stop reason).
func (s *Store) Finish(id string, captured int, status, notes string) error {
	finishedAtNs := time.Now().UnixNano()

	query := `
		UPDATE capture_sessions
		SET finished_at_ns = ?,
		    frames_captured = ?,
		    status = ?,
		    notes = ?
		WHERE session_id = ?
	`

	result, err := s.db.Exec(query, finishedAtNs, captured, status, nullString(notes), id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check finish result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found: %s", id)
	}

	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(id string) (*Session, error) {
	query := `
		SELECT session_id, started_at_ns, finished_at_ns, device_index,
		       frame_width, frame_height, frames_requested, frames_captured,
		       output_dir, status, notes
		FROM capture_sessions
		WHERE session_id = ?
	`

	var sess Session
	var finishedAtNs sql.NullInt64
	var notes sql.NullString

	err := s.db.QueryRow(query, id).Scan(
		&sess.ID,
		&sess.StartedAtNs,
		&finishedAtNs,
		&sess.DeviceIndex,
		&sess.Width,
		&sess.Height,
		&sess.FramesRequested,
		&sess.FramesCaptured,
		&sess.OutputDir,
		&sess.Status,
		&notes,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	// Map nullable fields
	if finishedAtNs.Valid {
		v := finishedAtNs.Int64
		sess.FinishedAtNs = &v
	}
	if notes.Valid {
		sess.Notes = notes.String
	}

	return &sess, nil
}

// List retrieves all sessions, newest first.
func (s *Store) List() ([]*Session, error) {
	query := `
		SELECT session_id, started_at_ns, finished_at_ns, device_index,
		       frame_width, frame_height, frames_requested, frames_captured,
		       output_dir, status, notes
		FROM capture_sessions
		ORDER BY started_at_ns DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var finishedAtNs sql.NullInt64
		var notes sql.NullString

		err := rows.Scan(
			&sess.ID,
			&sess.StartedAtNs,
			&finishedAtNs,
			&sess.DeviceIndex,
			&sess.Width,
			&sess.Height,
			&sess.FramesRequested,
			&sess.FramesCaptured,
			&sess.OutputDir,
			&sess.Status,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}

		// Map nullable fields
		if finishedAtNs.Valid {
			v := finishedAtNs.Int64
			sess.FinishedAtNs = &v
		}
		if notes.Valid {
			sess.Notes = notes.String
		}

		sessions = append(sessions, &sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions rows: %w", err)
	}

	return sessions, nil
}

// Delete deletes a session by ID.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM capture_sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found: %s", id)
	}

	return nil
}

// Helper functions for nullable values

func nullInt64(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

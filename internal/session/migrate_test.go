package session

import (
	"path/filepath"
	"testing"
)

func sessionsTableExists(t *testing.T, db *DB) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'capture_sessions'
	`).Scan(&count)
	if err != nil {
		t.Fatalf("failed to check for capture_sessions table: %v", err)
	}
	return count > 0
}

func TestMigrateUpDown(t *testing.T) {
	db, err := openDatabase(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer db.Close()

	// Fresh database: no migrations applied yet.
	version, dirty, err := db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("fresh db version = %d (dirty %v), want 0 (clean)", version, dirty)
	}

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if !sessionsTableExists(t, db) {
		t.Error("capture_sessions table missing after MigrateUp")
	}

	version, dirty, err = db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d (dirty %v), want 1 (clean)", version, dirty)
	}

	// Up again is a no-op.
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}

	if err := db.MigrateDown(); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}
	if sessionsTableExists(t, db) {
		t.Error("capture_sessions table should be gone after MigrateDown")
	}
}

func TestMigrateForce(t *testing.T) {
	db, err := openDatabase(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if err := db.MigrateForce(1); err != nil {
		t.Fatalf("MigrateForce failed: %v", err)
	}

	version, dirty, err := db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d (dirty %v), want 1 (clean)", version, dirty)
	}
}

func TestOpenDB_RunsMigrations(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	if !sessionsTableExists(t, db) {
		t.Error("OpenDB should apply migrations")
	}
}

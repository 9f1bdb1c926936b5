package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// RunSessionsCommand handles the 'sessions' subcommand dispatching.
func RunSessionsCommand(args []string, dbPath string) error {
	if len(args) < 1 || args[0] == "help" {
		printSessionsHelp()
		return nil
	}
	if dbPath == "" {
		return errors.New("sessions command requires -db <path>")
	}

	action := args[0]

	if action == "migrate" {
		return runMigrateAction(args[1:], dbPath)
	}

	db, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := NewStore(db)

	switch action {
	case "list":
		return handleSessionsList(store)

	case "show":
		if len(args) < 2 {
			return errors.New("usage: sessions show <session_id>")
		}
		return handleSessionsShow(store, args[1])

	case "delete":
		if len(args) < 2 {
			return errors.New("usage: sessions delete <session_id>")
		}
		return handleSessionsDelete(store, args[1])

	default:
		printSessionsHelp()
		return fmt.Errorf("unknown sessions action: %s", action)
	}
}

func handleSessionsList(store *Store) error {
	sessions, err := store.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No capture sessions recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %-8s  %-9s  %s\n", "SESSION", "STARTED", "STATUS", "FRAMES", "OUTPUT")
	for _, sess := range sessions {
		started := time.Unix(0, sess.StartedAtNs).Format("2006-01-02 15:04:05")
		frames := fmt.Sprintf("%d/%d", sess.FramesCaptured, sess.FramesRequested)
		fmt.Printf("%-36s  %-19s  %-8s  %-9s  %s\n",
			sess.ID, started, sess.Status, frames, sess.OutputDir)
	}

	return nil
}

func handleSessionsShow(store *Store, id string) error {
	sess, err := store.Get(id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	fmt.Println(string(out))

	return nil
}

func handleSessionsDelete(store *Store, id string) error {
	if err := store.Delete(id); err != nil {
		return err
	}
	log.Printf("deleted session %s", id)
	return nil
}

// runMigrateAction manages the schema directly. The database is opened
// without the automatic MigrateUp so 'version' reports what is actually on
// disk.
func runMigrateAction(args []string, dbPath string) error {
	if len(args) < 1 {
		return errors.New("usage: sessions migrate <up|down|version|force N>")
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "up":
		log.Printf("Running migrations...")
		if err := db.MigrateUp(); err != nil {
			return err
		}
		version, dirty, _ := db.MigrateVersion()
		log.Printf("Current version: %d (dirty: %v)", version, dirty)
		return nil

	case "down":
		log.Printf("Rolling back one migration...")
		if err := db.MigrateDown(); err != nil {
			return err
		}
		version, dirty, _ := db.MigrateVersion()
		log.Printf("Current version: %d (dirty: %v)", version, dirty)
		return nil

	case "version":
		version, dirty, err := db.MigrateVersion()
		if err != nil {
			return err
		}
		fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)
		return nil

	case "force":
		if len(args) < 2 {
			return errors.New("usage: sessions migrate force <version>")
		}
		var forceVersion int
		if _, err := fmt.Sscanf(args[1], "%d", &forceVersion); err != nil {
			return fmt.Errorf("invalid version number: %s", args[1])
		}
		if err := db.MigrateForce(forceVersion); err != nil {
			return err
		}
		log.Printf("Migration version forced to %d", forceVersion)
		return nil

	default:
		return fmt.Errorf("unknown migrate action: %s", args[0])
	}
}

// printSessionsHelp displays the help message for the sessions command
func printSessionsHelp() {
	fmt.Println("Capture Session Commands")
	fmt.Println()
	fmt.Println("Usage: nerf-capture -db <path> sessions <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list            List recorded capture sessions, newest first")
	fmt.Println("  show <id>       Print one session as JSON")
	fmt.Println("  delete <id>     Delete a session record")
	fmt.Println("  migrate <cmd>   Manage the schema: up, down, version, force <N>")
	fmt.Println("  help            Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  nerf-capture -db sessions.db sessions list")
	fmt.Println("  nerf-capture -db sessions.db sessions migrate version")
}

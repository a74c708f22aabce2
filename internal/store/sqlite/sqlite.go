// Package sqlite is the production store: a single-file SQLite database
// behind the store interfaces, using the pure Go driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"

	"github.com/hypandra/spellbetternow/internal/store"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var (
	_ store.WordStore       = (*WordRepo)(nil)
	_ store.LearnerStore    = (*LearnerRepo)(nil)
	_ store.AttemptStore    = (*AttemptRepo)(nil)
	_ store.SessionStore    = (*SessionRepo)(nil)
	_ store.MasteryStore    = (*MasteryRepo)(nil)
	_ store.CustomListStore = (*ListRepo)(nil)
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store owns the database handle and hands out repository implementations.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas, and runs migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Words returns the word bank repository.
func (s *Store) Words() *WordRepo { return &WordRepo{db: s.db} }

// Learners returns the learner repository.
func (s *Store) Learners() *LearnerRepo { return &LearnerRepo{db: s.db} }

// Attempts returns the attempt repository.
func (s *Store) Attempts() *AttemptRepo { return &AttemptRepo{db: s.db} }

// Sessions returns the session repository.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{db: s.db} }

// Mastery returns the mastery repository.
func (s *Store) Mastery() *MasteryRepo { return &MasteryRepo{db: s.db} }

// Lists returns the custom-list repository.
func (s *Store) Lists() *ListRepo { return &ListRepo{db: s.db} }

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SPELLBETTER_DB environment variable
// 2. $XDG_DATA_HOME/spellbetternow/spellbetter.db
// 3. ~/.local/share/spellbetternow/spellbetter.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SPELLBETTER_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "spellbetternow", "spellbetter.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if needed.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tbrandt/shelfshare/internal/infra/logging"
)

// SQLiteSessionRepositoryConfig holds configuration for the SQLite session repository.
type SQLiteSessionRepositoryConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file.
	// When empty, $HOME/.shelfshare/session.db is used.
	DatabasePath string `env:"DATABASE_PATH" default:""`
}

// SQLiteSessionRepository implements Repository using SQLite as the storage
// backend. The session survives process restarts the same way browser
// localStorage survives page reloads.
type SQLiteSessionRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteSessionRepository)(nil)

// SQLiteSessionRepositoryFactory creates a factory function that returns a new
// SQLiteSessionRepository. The factory function implements the RepositoryFactory type.
func SQLiteSessionRepositoryFactory(cfg SQLiteSessionRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteSessionRepository(cfg)
	}
}

// NewSQLiteSessionRepository creates a new SQLiteSessionRepository with the
// given configuration. It initializes the database connection and creates the
// schema if needed. Returns an error if database connection or initialization fails.
func NewSQLiteSessionRepository(cfg SQLiteSessionRepositoryConfig) (*SQLiteSessionRepository, error) {
	dbPath, err := resolveDatabasePath(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	log := logging.GetLogger("repo.session.sqlite_session_repository").With(
		logging.Group("db", "path", dbPath),
	)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteSessionRepository{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func resolveDatabasePath(dbPath string) (string, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}

		dbPath = filepath.Join(home, ".shelfshare", "session.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return "", fmt.Errorf("create db dir: %w", err)
	}

	return dbPath, nil
}

func initializeDB(db *sql.DB) (err error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			key        TEXT    PRIMARY KEY,
			value      BLOB    NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Put implements Repository.Put using SQLite. Last writer wins.
func (r *SQLiteSessionRepository) Put(ctx context.Context, key string, value []byte) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.Exec(
		`INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert session value: %w", err)
	}

	return nil
}

// Get implements Repository.Get using SQLite.
func (r *SQLiteSessionRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := r.db.QueryRow(
		"SELECT value FROM session WHERE key = ?",
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query session value: %w", err)
	}

	return value, true, nil
}

// Delete implements Repository.Delete using SQLite.
func (r *SQLiteSessionRepository) Delete(ctx context.Context, key string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.Exec("DELETE FROM session WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete session value: %w", err)
	}

	return nil
}

// Close implements Repository.Close by closing the database connection.
func (r *SQLiteSessionRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

// Package storage owns the on-disk state under .cody/: a SQLite database
// holding the remote result cache. Everything here is a cache; deleting the
// directory loses nothing that cannot be refetched.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/bevzzz/cody/internal/logging"
)

// DB is a SQLite connection with the cache schema applied.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the database at <root>/.cody/cody.db.
func Open(root string, logger *logging.Logger) (*DB, error) {
	dir := filepath.Join(root, ".cody")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .cody directory: %w", err)
	}

	dbPath := filepath.Join(dir, "cody.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: dbPath}
	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug("Opened cache database", map[string]interface{}{
		"path": dbPath,
	})
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.dbPath
}

func (db *DB) initializeSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS remote_cache (
	server     TEXT NOT NULL,
	cache_key  TEXT NOT NULL,
	payload    BLOB NOT NULL,
	expires_at INTEGER NOT NULL,
	PRIMARY KEY (server, cache_key)
);
CREATE INDEX IF NOT EXISTS idx_remote_cache_expiry ON remote_cache(expires_at);
`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	return nil
}

// isNoRows reports whether err is the no-rows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

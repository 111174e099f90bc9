// Package database opens the local sqlite file that keeps the catalog
// snapshot, so the terminal can keep selling while the backend is down.
package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

func NewSQLite(cfg *Config) (*sqlx.DB, error) {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, busy.Milliseconds())
	if cfg.Path == ":memory:" {
		dsn = fmt.Sprintf("file::memory:?_busy_timeout=%d", busy.Milliseconds())
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection also keeps an in-memory
	// database alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	return db, nil
}

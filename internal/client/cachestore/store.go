// Package cachestore is the device-local mirror of server reads: a durable
// key-value store of JSON blobs, each stamped with its write time. It is
// strictly best-effort. Storage failures are logged and swallowed, and a
// corrupt entry reads as a miss, so the cache can never be the cause of a
// user-visible failure.
package cachestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cavea/internal/client/cachestore/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at dsn and applies schema migrations.
// Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache store: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set overwrites the entry under key wholesale. It never reports failure to
// the caller: an entry that failed to persist is indistinguishable from one
// that was never written, which is exactly the contract a best-effort cache
// needs.
func (s *Store) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Error saving cache for %s: %v", key, err)
		return
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, written_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, written_at = excluded.written_at`,
		key, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		log.Printf("Error saving cache for %s: %v", key, err)
	}
}

// Get unmarshals the entry under key into dest and reports whether a usable
// entry was found. Missing keys, storage errors and corrupt JSON all read as
// a miss.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Error reading cache for %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		log.Printf("Error reading cache for %s: %v", key, err)
		return false
	}
	return true
}

// WrittenAt returns the write timestamp of the entry under key, so callers
// can judge staleness themselves; the store never expires anything.
func (s *Store) WrittenAt(ctx context.Context, key string) (time.Time, bool) {
	var millis int64
	err := s.db.QueryRowContext(ctx,
		`SELECT written_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&millis)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// Clear removes the entry under key. Removing an absent key is not an error.
func (s *Store) Clear(ctx context.Context, key string) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		log.Printf("Error clearing cache for %s: %v", key, err)
	}
}

// ClearAll wipes the entire store. Only full-logout/reset flows use this.
func (s *Store) ClearAll(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		log.Printf("Error clearing all cache: %v", err)
	}
}

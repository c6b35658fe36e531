// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// SQLITE STORE
// =============================================================================

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps the session as two rows of a key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open session database")
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "set %s", pragma)
		}
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create kv table")
	}

	return &SQLiteStore{db: db}, nil
}

// Set writes both rows in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, token string, role model.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for key, value := range map[string]string{KeyToken: token, KeyRole: role.String()} {
		if _, err := tx.ExecContext(ctx, upsert, key, value); err != nil {
			return errors.Wrapf(err, "write %s", key)
		}
	}
	return errors.Wrap(tx.Commit(), "commit session")
}

// Get reads both rows. Missing rows read as empty strings.
func (s *SQLiteStore) Get(ctx context.Context) (model.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE key IN (?, ?)`, KeyToken, KeyRole)
	if err != nil {
		return model.Session{}, errors.Wrap(err, "query session")
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Session{}, errors.Wrap(err, "scan session")
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return model.Session{}, errors.Wrap(err, "read session")
	}
	return toSession(values[KeyToken], values[KeyRole]), nil
}

// Clear deletes both rows.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, KeyToken, KeyRole)
	return errors.Wrap(err, "clear session")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/model"
)

// Persisted key names.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown session backend")

// Store persists the login session. A missing token is a normal state and
// is reported as an empty Session with a nil error.
//
// Implementations are safe for concurrent use.
type Store interface {
	Set(ctx context.Context, token string, role model.Role) error
	Get(ctx context.Context) (model.Session, error)
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	// Backend is one of file, sqlite, redis, memory. Empty means file.
	Backend string

	// Path is the session file (file) or database (sqlite).
	Path string

	RedisAddr     string
	RedisPassword string
	// RedisProfile namespaces the hash key so several logins can share
	// one Redis instance.
	RedisProfile string
}

// Open creates the Store selected by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		path := opts.Path
		if path == "" {
			path = DefaultPath()
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			path = filepath.Join(dataDir(), "campus.db")
		}
		return OpenSQLite(path)
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisProfile), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", opts.Backend)
	}
}

// DefaultPath returns ~/.campus/session.json.
func DefaultPath() string {
	return filepath.Join(dataDir(), "session.json")
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".campus"
	}
	return filepath.Join(home, ".campus")
}

func toSession(token, role string) model.Session {
	if token == "" {
		return model.Session{}
	}
	return model.Session{Token: token, Role: model.ParseRole(role)}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// fileLayout is the on-disk JSON shape: {"token": "...", "role": "..."}.
type fileLayout struct {
	Token string `json:"token,omitempty"`
	Role  string `json:"role,omitempty"`
}

// FileStore keeps the session in a JSON file, written atomically with
// mode 0600. A missing or empty file is an empty session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore backed by path. The file is not touched
// until the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Set overwrites both values.
func (s *FileStore) Set(_ context.Context, token string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileLayout{Token: token, Role: role.String()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return nil
}

// Get reads the current values.
func (s *FileStore) Get(_ context.Context) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := util.ReadFileIfExists(s.path)
	if err != nil {
		return model.Session{}, err
	}
	if len(data) == 0 {
		return model.Session{}, nil
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.Session{}, errors.Wrapf(err, "decode session %s", s.path)
	}
	return toSession(layout.Token, layout.Role), nil
}

// Clear removes the session file.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return util.RemoveIfExists(s.path)
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

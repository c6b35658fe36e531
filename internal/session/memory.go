// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/jeranaias/campus-tui/internal/model"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	role  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(_ context.Context, token string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.role = role.String()
	return nil
}

func (s *MemoryStore) Get(_ context.Context) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toSession(s.token, s.role), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.role = "", ""
	return nil
}

func (s *MemoryStore) Close() error { return nil }

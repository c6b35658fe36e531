// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-tui/internal/model"
)

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	sess, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Empty(), "fresh store should be empty")

	require.NoError(t, store.Set(ctx, "tok-1", model.RoleStudent))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Session{Token: "tok-1", Role: model.RoleStudent}, sess)

	// Overwrite
	require.NoError(t, store.Set(ctx, "tok-2", model.RoleAdmin))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token)
	assert.Equal(t, model.RoleAdmin, sess.Role)

	// Unknown roles are kept verbatim
	require.NoError(t, store.Set(ctx, "tok-3", model.Role("LIBRARIAN")))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Role("LIBRARIAN"), sess.Role)

	require.NoError(t, store.Clear(ctx))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Empty())

	// Clearing twice is fine
	require.NoError(t, store.Clear(ctx))
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)
	storeContract(t, store)
}

func TestFileStore_LayoutAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(context.Background(), "abc", model.RoleFaculty))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"abc","role":"FACULTY"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, "persisted", model.RoleStudent))

	sess, err := NewFileStore(path).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", sess.Token)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Get(context.Background())
	assert.Error(t, err)
}

func TestFileStore_RoleWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"role":"ADMIN"}`), 0600))

	sess, err := NewFileStore(path).Get(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.Empty(), "a role without a token is not a session")
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "campus.db"))
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "persisted", model.RoleFaculty))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	sess, err := second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Session{Token: "persisted", Role: model.RoleFaculty}, sess)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CAMPUS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAMPUS_TEST_REDIS_ADDR not set")
	}

	store := NewRedisStore(addr, "", "test-"+time.Now().Format("150405.000"))
	defer store.Close()
	defer store.Clear(context.Background())

	storeContract(t, store)
}

func TestRedisStore_Key(t *testing.T) {
	store := NewRedisStore("", "", "")
	defer store.Close()
	assert.Equal(t, "campus:session:default", store.Key())

	kiosk := NewRedisStore("", "", "lab-3")
	defer kiosk.Close()
	assert.Equal(t, "campus:session:lab-3", kiosk.Key())
}

// =============================================================================
// OPEN TESTS
// =============================================================================

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		want    any
		wantErr bool
	}{
		{"default is file", Options{Path: filepath.Join(dir, "s.json")}, &FileStore{}, false},
		{"file", Options{Backend: "file", Path: filepath.Join(dir, "s.json")}, &FileStore{}, false},
		{"sqlite", Options{Backend: "SQLite", Path: filepath.Join(dir, "c.db")}, &SQLiteStore{}, false},
		{"memory", Options{Backend: "memory"}, &MemoryStore{}, false},
		{"redis", Options{Backend: "redis"}, &RedisStore{}, false},
		{"unknown", Options{Backend: "etcd"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
		})
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReportsExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok", model.RoleStudent))

	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	// Another process logs out
	require.NoError(t, NewFileStore(path).Clear(ctx))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification after external logout")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "campus.log"), []byte("line\n"), 0600))

	select {
	case <-w.Changes():
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "session.json"), time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcher_CloseEndsChanges(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "session.json"), time.Millisecond)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for range w.Changes() {
		}
		close(done)
	}()

	require.NoError(t, w.Close())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receiver still blocked after Close")
	}
}

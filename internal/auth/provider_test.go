// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/session"
)

// fakeBackend is a scripted campus backend that counts calls per path.
type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}, handlers: map[string]http.HandlerFunc{}}
}

func (f *fakeBackend) on(path string, status int, body any) {
	f.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeBackend) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/api"):]
	f.mu.Lock()
	f.calls[path]++
	h := f.handlers[path]
	f.mu.Unlock()
	if h == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

func newProvider(t *testing.T, fb *fakeBackend, store session.Store) *Provider {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return NewProvider(api.NewClient(srv.URL+"/api", store), store, nil)
}

func me(id int64, username, role string) map[string]any {
	return map[string]any{"id": id, "username": username, "role": role}
}

// =============================================================================
// INIT TESTS
// =============================================================================

// Scenario A: no token persisted.
func TestInit_NoToken(t *testing.T) {
	fb := newFakeBackend()
	p := newProvider(t, fb, session.NewMemoryStore())

	assert.True(t, p.State().Loading, "provider starts loading")

	require.NoError(t, p.Init(context.Background()))

	state := p.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Equal(t, 0, fb.count(PathMe), "no token means no profile call")
}

// Scenario B: token persisted, profile resolves to a student.
func TestInit_ValidToken(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok", model.RoleStudent))
	p := newProvider(t, fb, store)

	require.NoError(t, p.Init(context.Background()))

	state := p.State()
	require.NotNil(t, state.User)
	assert.False(t, state.Loading)
	assert.Equal(t, model.RoleStudent, state.User.Role)
	assert.Equal(t, "stud1", state.User.Username)
	assert.Equal(t, int64(1), state.User.ID)
}

func TestInit_ExactlyOneProfileCall(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok", model.RoleStudent))
	p := newProvider(t, fb, store)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Init(context.Background())
		}()
	}
	wg.Wait()
	require.NoError(t, p.Init(context.Background()))

	assert.Eventually(t, func() bool { return !p.State().Loading }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, fb.count(PathMe))
}

func TestInit_RejectedTokenClearsStore(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 401, map[string]string{"message": "Token expired"})
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "stale", model.RoleFaculty))
	p := newProvider(t, fb, store)

	require.NoError(t, p.Init(ctx), "rejected session is not a user-visible error")

	state := p.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)

	sess, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Empty())
}

func TestInit_InvalidProfilePayload(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, map[string]any{"id": 1})
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok", model.RoleStudent))
	p := newProvider(t, fb, store)

	require.NoError(t, p.Init(context.Background()))
	assert.Nil(t, p.State().User)
}

func TestInit_ReconcilesPersistedRole(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(7, "prof", "FACULTY"))
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok", model.RoleStudent))
	p := newProvider(t, fb, store)

	require.NoError(t, p.Init(ctx))

	assert.Equal(t, model.RoleFaculty, p.State().Role())
	sess, _ := store.Get(ctx)
	assert.Equal(t, model.RoleFaculty, sess.Role, "persisted role follows resolved user")
	assert.Equal(t, "tok", sess.Token)
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathLogin, 200, map[string]string{"message": "Login successful", "token": "jwt-1", "role": "ADMIN"})
	fb.on(PathMe, 200, map[string]any{"id": 3, "username": "root", "role": "ADMIN", "email": "root@campus"})
	store := session.NewMemoryStore()
	p := newProvider(t, fb, store)
	ctx := context.Background()
	require.NoError(t, p.Init(ctx))

	user, err := p.Login(ctx, "root", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, "root", user.Name, "empty name defaults to username")

	sess, _ := store.Get(ctx)
	assert.Equal(t, model.Session{Token: "jwt-1", Role: model.RoleAdmin}, sess)
	assert.True(t, p.State().Authenticated())
}

// Scenario C: bad credentials.
func TestLogin_InvalidCredentials(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathLogin, 401, map[string]string{"message": "Invalid credentials"})
	store := session.NewMemoryStore()
	p := newProvider(t, fb, store)
	ctx := context.Background()
	require.NoError(t, p.Init(ctx))

	_, err := p.Login(ctx, "a", "badpass")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", LoginMessage(err))

	assert.Nil(t, p.State().User)
	sess, _ := store.Get(ctx)
	assert.True(t, sess.Empty())
	assert.Equal(t, 0, fb.count(PathMe))
}

func TestLogin_ProfileFailureRollsBack(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathLogin, 200, map[string]string{"token": "jwt-1", "role": "STUDENT"})
	fb.on(PathMe, 500, map[string]string{})
	store := session.NewMemoryStore()
	p := newProvider(t, fb, store)
	ctx := context.Background()
	require.NoError(t, p.Init(ctx))

	_, err := p.Login(ctx, "stud1", "password1")
	require.Error(t, err)
	assert.Equal(t, LoginFailed, LoginMessage(err))

	assert.Nil(t, p.State().User)
	sess, _ := store.Get(ctx)
	assert.True(t, sess.Empty(), "token without a resolved user must not stay persisted")
}

func TestLogin_MissingToken(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathLogin, 200, map[string]string{"message": "ok"})
	p := newProvider(t, fb, session.NewMemoryStore())

	_, err := p.Login(context.Background(), "u", "p")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogin_ValidationBeforeRequest(t *testing.T) {
	fb := newFakeBackend()
	p := newProvider(t, fb, session.NewMemoryStore())

	_, err := p.Login(context.Background(), "  ", "")
	require.Error(t, err)
	assert.Equal(t, "username is required", LoginMessage(err))
	assert.Equal(t, 0, fb.count(PathLogin))
}

func TestLogin_TransportFailure(t *testing.T) {
	store := session.NewMemoryStore()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	p := NewProvider(api.NewClient(url, store), store, nil)

	_, err := p.Login(context.Background(), "u", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.Equal(t, LoginFailed, LoginMessage(err))
}

// Round trip: login, then a fresh process over the same store resolves
// the same role that drove the first redirect.
func TestLogin_RestartRoundTrip(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathLogin, 200, map[string]string{"token": "jwt-9", "role": "FACULTY"})
	fb.on(PathMe, 200, me(9, "prof", "FACULTY"))
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	ctx := context.Background()

	first := newProvider(t, fb, store)
	require.NoError(t, first.Init(ctx))
	user, err := first.Login(ctx, "prof", "password1")
	require.NoError(t, err)

	second := newProvider(t, fb, session.NewFileStore(store.Path()))
	require.NoError(t, second.Init(ctx))

	require.NotNil(t, second.State().User)
	assert.Equal(t, user.Role, second.State().User.Role)
	sess, _ := store.Get(ctx)
	assert.Equal(t, user.Role, sess.Role)
}

// =============================================================================
// SIGNUP TESTS
// =============================================================================

// Scenario D: admin already exists.
func TestSignup_AdminExists(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathCheckAdmin, 200, map[string]bool{"hasAdmin": true})
	fb.on(PathSignup, 200, map[string]string{"message": "ok"})
	p := newProvider(t, fb, session.NewMemoryStore())

	err := p.Signup(context.Background(), "x", "y", model.RoleAdmin)
	require.ErrorIs(t, err, ErrAdminExists)
	assert.Equal(t, "Admin already exists. Only one admin is allowed.", SignupMessage(err))
	assert.Equal(t, 1, fb.count(PathCheckAdmin))
	assert.Equal(t, 0, fb.count(PathSignup))
}

func TestSignup_FirstAdmin(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathCheckAdmin, 200, map[string]bool{"hasAdmin": false})
	fb.on(PathSignup, 200, map[string]string{"message": "User registered successfully"})
	store := session.NewMemoryStore()
	p := newProvider(t, fb, store)
	ctx := context.Background()
	require.NoError(t, p.Init(ctx))

	require.NoError(t, p.Signup(ctx, "root", "password1", model.RoleAdmin))
	assert.Equal(t, 1, fb.count(PathSignup))

	assert.Nil(t, p.State().User, "signup does not log in")
	sess, _ := store.Get(ctx)
	assert.True(t, sess.Empty())
}

func TestSignup_StudentSkipsAdminCheck(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathSignup, 200, map[string]string{"message": "ok"})
	p := newProvider(t, fb, session.NewMemoryStore())

	require.NoError(t, p.Signup(context.Background(), "stud", "password1", "student"))
	assert.Equal(t, 0, fb.count(PathCheckAdmin))
}

func TestSignup_BackendRejects(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathSignup, 400, map[string]string{"message": "User already exists"})
	p := newProvider(t, fb, session.NewMemoryStore())

	err := p.Signup(context.Background(), "stud", "password1", model.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, "User already exists", SignupMessage(err))
}

func TestSignup_BackendNoMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.handlers[PathSignup] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	p := newProvider(t, fb, session.NewMemoryStore())

	err := p.Signup(context.Background(), "stud", "password1", model.RoleStudent)
	assert.Equal(t, SignupFailed, SignupMessage(err))
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogout_Idempotent(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok", model.RoleStudent))
	p := newProvider(t, fb, store)
	require.NoError(t, p.Init(ctx))
	require.True(t, p.State().Authenticated())

	require.NoError(t, p.Logout(ctx))
	once := p.State()
	sessOnce, _ := store.Get(ctx)

	require.NoError(t, p.Logout(ctx))
	twice := p.State()
	sessTwice, _ := store.Get(ctx)

	assert.Equal(t, once, twice)
	assert.Equal(t, model.AuthState{}, twice)
	assert.Equal(t, sessOnce, sessTwice)
	assert.True(t, sessTwice.Empty())
}

func TestLogout_NoBackendCall(t *testing.T) {
	fb := newFakeBackend()
	p := newProvider(t, fb, session.NewMemoryStore())
	require.NoError(t, p.Logout(context.Background()))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.Empty(t, fb.calls)
}

// =============================================================================
// RESYNC & SUBSCRIBE TESTS
// =============================================================================

func TestResync_ExternalLogout(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok", model.RoleStudent))
	p := newProvider(t, fb, store)
	require.NoError(t, p.Init(ctx))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, p.Resync(ctx))

	assert.Nil(t, p.State().User)
}

func TestResync_ExternalLogin(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(2, "prof", "FACULTY"))
	store := session.NewMemoryStore()
	ctx := context.Background()
	p := newProvider(t, fb, store)
	require.NoError(t, p.Init(ctx))

	require.NoError(t, store.Set(ctx, "other", model.RoleFaculty))
	require.NoError(t, p.Resync(ctx))
	assert.Equal(t, model.RoleFaculty, p.State().Role())

	// Unchanged token does not re-verify
	require.NoError(t, p.Resync(ctx))
	assert.Equal(t, 1, fb.count(PathMe))
}

func TestResync_RejectedExternalTokenIsCleared(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 401, map[string]string{"message": "Invalid token"})
	store := session.NewMemoryStore()
	ctx := context.Background()
	p := newProvider(t, fb, store)
	require.NoError(t, p.Init(ctx))

	require.NoError(t, store.Set(ctx, "forged", model.RoleAdmin))
	require.NoError(t, p.Resync(ctx))

	assert.False(t, p.State().Authenticated())
	sess, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Empty())
	assert.Equal(t, 1, fb.count(PathMe))
}

func TestSubscribe(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok", model.RoleStudent))
	p := newProvider(t, fb, store)

	ch, cancel := p.Subscribe()
	defer cancel()

	first := <-ch
	assert.True(t, first.Loading)

	require.NoError(t, p.Init(ctx))
	resolved := <-ch
	assert.True(t, resolved.Authenticated())

	require.NoError(t, p.Logout(ctx))
	out := <-ch
	assert.Nil(t, out.User)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel() // second cancel is safe
}

func TestState_IsSnapshot(t *testing.T) {
	fb := newFakeBackend()
	fb.on(PathMe, 200, me(1, "stud1", "STUDENT"))
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok", model.RoleStudent))
	p := newProvider(t, fb, store)
	require.NoError(t, p.Init(context.Background()))

	s := p.State()
	s.User.Role = model.RoleAdmin
	assert.Equal(t, model.RoleStudent, p.State().Role())
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, LoginFailed))
	assert.Equal(t, LoginFailed, LoginMessage(assert.AnError))
	assert.Equal(t, ErrAdminExists.Error(), SignupMessage(ErrAdminExists))
	assert.Equal(t, "password is required", LoginMessage(model.ValidationErrors{{Field: "password", Rule: "required"}}))
}

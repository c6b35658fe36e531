// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/session"
)

// Backend paths.
const (
	PathLogin      = "/auth/login"
	PathSignup     = "/auth/signup"
	PathMe         = "/auth/me"
	PathCheckAdmin = "/auth/check-admin"
)

var (
	// ErrAdminExists is returned by Signup for an ADMIN account when the
	// backend already has one.
	ErrAdminExists = errors.New("Admin already exists. Only one admin is allowed.")

	// ErrInvalidSession means the backend accepted the credentials but the
	// session could not be established (no token, or an unusable profile).
	ErrInvalidSession = errors.New("invalid session")
)

// Backend is the subset of api.Client the provider uses.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the signup form.
type SignupRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Role     model.Role `json:"role" validate:"required"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type checkAdminResponse struct {
	HasAdmin bool `json:"hasAdmin"`
}

// =============================================================================
// PROVIDER
// =============================================================================

// Provider owns the AuthState. It is safe for concurrent use; the UI calls
// it from tea.Cmd goroutines.
type Provider struct {
	backend Backend
	store   session.Store
	log     *zap.Logger

	mu      sync.Mutex
	state   model.AuthState
	token   string // token the current state was resolved from
	started bool   // Init has run, or Login/Logout resolved the state
	subs    map[int]chan model.AuthState
	nextSub int
}

// NewProvider creates a provider in the initial loading state.
func NewProvider(backend Backend, store session.Store, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		backend: backend,
		store:   store,
		log:     log.Named("auth"),
		state:   model.AuthState{Loading: true},
		subs:    make(map[int]chan model.AuthState),
	}
}

// State returns a snapshot of the current state.
func (p *Provider) State() model.AuthState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return snapshot(p.state)
}

// Init resolves the initial state from the store. Only the first call does
// any work; later calls return immediately. A token the backend rejects is
// cleared without surfacing an error: the user simply lands anonymous.
func (p *Provider) Init(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.mu.Unlock()

	sess, err := p.store.Get(ctx)
	if err != nil {
		p.setState(model.AuthState{}, "")
		return errors.Wrap(err, "read session")
	}
	if sess.Empty() {
		p.setState(model.AuthState{}, "")
		return nil
	}

	user, err := p.verify(ctx, sess)
	if err != nil {
		p.log.Info("stored session rejected, continuing anonymous", zap.Error(err))
		if clearErr := p.store.Clear(ctx); clearErr != nil {
			p.log.Warn("clear rejected session", zap.Error(clearErr))
		}
		p.setState(model.AuthState{}, "")
		return nil
	}

	p.setState(model.AuthState{User: user}, sess.Token)
	return nil
}

// Login authenticates, persists the session and resolves the full user.
// On any failure the state is left untouched and nothing stays persisted.
func (p *Provider) Login(ctx context.Context, username, password string) (*model.User, error) {
	creds := Credentials{Username: strings.TrimSpace(username), Password: password}
	if err := model.Validate(creds); err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := p.backend.Post(ctx, PathLogin, creds, &resp); err != nil {
		return nil, errors.Wrap(err, "login")
	}
	if resp.Token == "" {
		return nil, errors.Wrap(ErrInvalidSession, "login response has no token")
	}

	role := model.ParseRole(resp.Role)
	if err := p.store.Set(ctx, resp.Token, role); err != nil {
		return nil, errors.Wrap(err, "persist session")
	}

	user, err := p.verify(ctx, model.Session{Token: resp.Token, Role: role})
	if err != nil {
		// Roll back so no token is left without a resolved user.
		if clearErr := p.store.Clear(ctx); clearErr != nil {
			p.log.Warn("roll back session", zap.Error(clearErr))
		}
		return nil, errors.Wrap(err, "load profile")
	}
	if user.Name == "" {
		user.Name = user.Username
	}

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	p.setState(model.AuthState{User: user}, resp.Token)

	p.log.Info("logged in", zap.String("username", user.Username), zap.String("role", user.Role.String()))
	u := *user
	return &u, nil
}

// Signup registers a new account. It never logs the new user in.
//
// For ADMIN the backend is first asked whether an admin exists, and
// ErrAdminExists is returned without calling /auth/signup if one does.
func (p *Provider) Signup(ctx context.Context, username, password string, role model.Role) error {
	req := SignupRequest{
		Username: strings.TrimSpace(username),
		Password: password,
		Role:     model.ParseRole(role.String()),
	}
	if err := model.Validate(req); err != nil {
		return err
	}

	if req.Role == model.RoleAdmin {
		var check checkAdminResponse
		if err := p.backend.Get(ctx, PathCheckAdmin, &check); err != nil {
			return errors.Wrap(err, "check admin")
		}
		if check.HasAdmin {
			return ErrAdminExists
		}
	}

	if err := p.backend.Post(ctx, PathSignup, req, nil); err != nil {
		return errors.Wrap(err, "signup")
	}
	p.log.Info("signed up", zap.String("username", req.Username), zap.String("role", req.Role.String()))
	return nil
}

// Logout clears the store and the user. No backend call is made. Calling
// it again is a no-op apart from re-clearing the store.
func (p *Provider) Logout(ctx context.Context) error {
	err := p.store.Clear(ctx)

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	p.setState(model.AuthState{}, "")

	if err != nil {
		return errors.Wrap(err, "clear session")
	}
	return nil
}

// Resync re-reads the store after it changed outside this process. A
// removed token logs the user out; a new token is verified as in Init.
func (p *Provider) Resync(ctx context.Context) error {
	sess, err := p.store.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "read session")
	}

	p.mu.Lock()
	current := p.token
	loading := p.state.Loading
	p.mu.Unlock()

	if loading || sess.Token == current {
		return nil
	}
	if sess.Empty() {
		p.log.Info("session removed externally")
		p.setState(model.AuthState{}, "")
		return nil
	}

	user, err := p.verify(ctx, sess)
	if err != nil {
		p.log.Info("external session rejected", zap.Error(err))
		if clearErr := p.store.Clear(ctx); clearErr != nil {
			p.log.Warn("clear rejected session", zap.Error(clearErr))
		}
		p.setState(model.AuthState{}, "")
		return nil
	}
	p.setState(model.AuthState{User: user}, sess.Token)
	return nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// verify resolves the user behind sess and reconciles the persisted role.
func (p *Provider) verify(ctx context.Context, sess model.Session) (*model.User, error) {
	var me model.MePayload
	if err := p.backend.Get(ctx, PathMe, &me); err != nil {
		return nil, err
	}
	if err := model.Validate(me); err != nil {
		return nil, errors.Wrap(ErrInvalidSession, err.Error())
	}

	user := me.User()
	if user.Role != sess.Role {
		p.log.Warn("persisted role differs from resolved user, using resolved role",
			zap.String("persisted", sess.Role.String()),
			zap.String("resolved", user.Role.String()),
		)
		if err := p.store.Set(ctx, sess.Token, user.Role); err != nil {
			return nil, errors.Wrap(err, "rewrite persisted role")
		}
	}
	return &user, nil
}

func (p *Provider) setState(state model.AuthState, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state
	p.token = token
	for _, ch := range p.subs {
		publish(ch, snapshot(state))
	}
}

// snapshot copies the user so callers cannot mutate provider state.
func snapshot(s model.AuthState) model.AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

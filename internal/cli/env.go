// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/config"
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/router"
	"github.com/jeranaias/campus-tui/internal/session"
)

// Env is everything a client command runs against.
type Env struct {
	Config  *config.Config
	Store   session.Store
	Client  *api.Client
	Auth    *auth.Provider
	Loader  *dashboard.Loader
	Actions *dashboard.Actions
	Guard   *router.Guard
	Log     *zap.Logger

	Out io.Writer
	Err io.Writer

	// Prompter is created on first use when nil.
	Prompter Prompter
	// Interactive reports whether prompting is possible.
	Interactive bool
}

// NewEnv opens the configured session store and builds the client stack.
// args.APIURL overrides the configured backend.
func NewEnv(cfg *config.Config, args Args, log *zap.Logger) (*Env, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := session.Open(session.Options{
		Backend:       cfg.Session.Backend,
		Path:          cfg.SessionPath(),
		RedisAddr:     cfg.Session.RedisAddr,
		RedisPassword: cfg.Session.RedisPassword,
		RedisProfile:  cfg.Session.RedisProfile,
	})
	if err != nil {
		return nil, err
	}

	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}
	client := api.NewClient(baseURL, store).
		WithTimeout(cfg.API.Timeout()).
		WithLogger(log)

	return &Env{
		Config:      cfg,
		Store:       store,
		Client:      client,
		Auth:        auth.NewProvider(client, store, log),
		Loader:      dashboard.NewLoader(client, cfg.Dashboard.SampleFallback, log),
		Actions:     dashboard.NewActions(client),
		Guard:       router.New(),
		Log:         log,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: IsTTY(),
	}, nil
}

// Close releases the prompter and the session store.
func (e *Env) Close() error {
	if e.Prompter != nil {
		e.Prompter.Close()
	}
	return e.Store.Close()
}

// prompt returns the prompter, failing when stdin is not a terminal.
// operation names the flag that would have avoided the prompt.
func (e *Env) prompt(operation string) (Prompter, error) {
	if e.Prompter != nil {
		return e.Prompter, nil
	}
	if !e.Interactive {
		return nil, &TTYRequiredError{Operation: operation}
	}
	e.Prompter = NewLinePrompter()
	return e.Prompter, nil
}

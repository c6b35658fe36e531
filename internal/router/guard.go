// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/model"
)

// MaxHops bounds Follow.
const MaxHops = 8

// ErrRedirectLoop is returned by Follow when redirects do not settle.
var ErrRedirectLoop = errors.New("redirect loop")

// Guard resolves navigations against a route table.
type Guard struct {
	routes map[string]Route
}

// New creates a guard over DefaultRoutes.
func New() *Guard {
	return NewWithRoutes(DefaultRoutes())
}

// NewWithRoutes creates a guard over routes.
func NewWithRoutes(routes []Route) *Guard {
	g := &Guard{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		g.routes[Normalize(r.Path)] = r
	}
	return g
}

// Lookup returns the route registered for path.
func (g *Guard) Lookup(path string) (Route, bool) {
	r, ok := g.routes[Normalize(path)]
	return r, ok
}

// Normalize lowercases path, ensures a leading slash and drops trailing
// slashes and any query string.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimSpace(path))
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Resolve decides what navigating to path renders under state.
func (g *Guard) Resolve(path string, state model.AuthState) Decision {
	path = Normalize(path)

	if path == PathRoot {
		return resolveRoot(state)
	}

	route, ok := g.routes[path]
	if !ok {
		return Decision{Kind: KindNotFound, Reason: "no route for " + path}
	}
	if !route.Guarded() {
		return allow("public route")
	}

	switch {
	case state.Loading:
		return loading()
	case state.User == nil:
		return redirect(PathLogin, "not authenticated")
	case !route.Roles[state.User.Role]:
		return redirect(PathUnauthorized, "role "+state.User.Role.String()+" not permitted")
	default:
		return allow("role permitted")
	}
}

// resolveRoot sends authenticated users to their role's landing page.
func resolveRoot(state model.AuthState) Decision {
	switch {
	case state.Loading:
		return loading()
	case state.User == nil:
		return redirect(PathLogin, "not authenticated")
	case state.User.Role == "":
		return redirect(PathUnauthorized, "user has no role")
	default:
		return redirect(state.User.Role.Route(), "role landing page")
	}
}

// Follow resolves path and applies redirects until a terminal decision.
// It returns the final path and its decision.
func (g *Guard) Follow(path string, state model.AuthState) (string, Decision, error) {
	path = Normalize(path)
	for hop := 0; hop < MaxHops; hop++ {
		d := g.Resolve(path, state)
		if d.Kind != KindRedirect {
			return path, d, nil
		}
		path = Normalize(d.Target)
	}
	return path, Decision{}, errors.Wrapf(ErrRedirectLoop, "after %d hops at %s", MaxHops, path)
}

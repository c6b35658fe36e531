// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-tui/internal/model"
)

func authed(role model.Role) model.AuthState {
	return model.AuthState{User: &model.User{ID: 1, Username: "u", Role: role}}
}

var (
	stateLoading   = model.AuthState{Loading: true}
	stateAnonymous = model.AuthState{}
)

// ============================================================================
// RESOLVE TESTS
// ============================================================================

func TestResolve_GuardedRoutes(t *testing.T) {
	g := New()

	tests := []struct {
		name   string
		path   string
		state  model.AuthState
		kind   Kind
		target string
	}{
		{"loading defers", PathStudent, stateLoading, KindLoading, ""},
		{"anonymous to login", PathFaculty, stateAnonymous, KindRedirect, PathLogin},
		{"student allowed", PathStudent, authed(model.RoleStudent), KindAllow, ""},
		{"faculty allowed", PathFaculty, authed(model.RoleFaculty), KindAllow, ""},
		{"admin allowed", PathAdmin, authed(model.RoleAdmin), KindAllow, ""},
		{"student on admin", PathAdmin, authed(model.RoleStudent), KindRedirect, PathUnauthorized},
		{"admin on student", PathStudent, authed(model.RoleAdmin), KindRedirect, PathUnauthorized},
		{"faculty on admin", PathAdmin, authed(model.RoleFaculty), KindRedirect, PathUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Resolve(tt.path, tt.state)
			assert.Equal(t, tt.kind, d.Kind, d.String())
			assert.Equal(t, tt.target, d.Target)
		})
	}
}

func TestResolve_PublicRoutes(t *testing.T) {
	g := New()
	for _, path := range []string{PathLogin, PathSignup, PathUnauthorized} {
		for _, state := range []model.AuthState{stateLoading, stateAnonymous, authed(model.RoleAdmin)} {
			assert.Equal(t, KindAllow, g.Resolve(path, state).Kind, "%s with %+v", path, state)
		}
	}
}

func TestResolve_Root(t *testing.T) {
	g := New()

	assert.Equal(t, KindLoading, g.Resolve("/", stateLoading).Kind)

	d := g.Resolve("/", stateAnonymous)
	assert.Equal(t, redirect(PathLogin, d.Reason), d)

	for _, role := range model.KnownRoles {
		d := g.Resolve("/", authed(role))
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, role.Route(), d.Target)
	}
}

func TestResolve_UnknownRoleDeniedEverywhere(t *testing.T) {
	g := New()
	for _, role := range []model.Role{"LIBRARIAN", "GUEST", "student ", ""} {
		state := authed(role)
		for _, route := range DefaultRoutes() {
			if !route.Guarded() {
				continue
			}
			d := g.Resolve(route.Path, state)
			assert.Equal(t, KindRedirect, d.Kind, "role %q on %s", role, route.Path)
			assert.Equal(t, PathUnauthorized, d.Target, "role %q on %s", role, route.Path)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	g := New()
	d := g.Resolve("/library", authed(model.RoleStudent))
	assert.Equal(t, KindNotFound, d.Kind)
}

func TestResolve_Normalization(t *testing.T) {
	g := New()
	state := authed(model.RoleStudent)
	for _, p := range []string{"/student/", "/STUDENT", "student", "/student?tab=fees", " /student "} {
		assert.Equal(t, KindAllow, g.Resolve(p, state).Kind, p)
	}
	assert.Equal(t, "/", Normalize(""))
	assert.Equal(t, "/", Normalize("///"))
}

func TestResolve_Pure(t *testing.T) {
	g := New()
	state := authed(model.RoleFaculty)
	first := g.Resolve(PathAdmin, state)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, g.Resolve(PathAdmin, state))
	}
	assert.Equal(t, model.RoleFaculty, state.User.Role)
}

// ============================================================================
// FOLLOW TESTS
// ============================================================================

// Scenario A: nothing persisted, / ends at /login.
func TestFollow_AnonymousRoot(t *testing.T) {
	path, d, err := New().Follow("/", stateAnonymous)
	require.NoError(t, err)
	assert.Equal(t, PathLogin, path)
	assert.Equal(t, KindAllow, d.Kind)
}

// Scenario B: student lands on /student and is kept off /admin.
func TestFollow_StudentScenario(t *testing.T) {
	g := New()
	state := authed(model.RoleStudent)

	path, d, err := g.Follow("/", state)
	require.NoError(t, err)
	assert.Equal(t, PathStudent, path)
	assert.Equal(t, KindAllow, d.Kind)

	path, _, err = g.Follow(PathAdmin, state)
	require.NoError(t, err)
	assert.Equal(t, PathUnauthorized, path)
}

func TestFollow_UnknownRoleRootIsNotFound(t *testing.T) {
	path, d, err := New().Follow("/", authed("LIBRARIAN"))
	require.NoError(t, err)
	assert.Equal(t, "/librarian", path)
	assert.Equal(t, KindNotFound, d.Kind)
}

func TestFollow_Loading(t *testing.T) {
	path, d, err := New().Follow(PathAdmin, stateLoading)
	require.NoError(t, err)
	assert.Equal(t, PathAdmin, path)
	assert.Equal(t, KindLoading, d.Kind)
}

func TestFollow_Loop(t *testing.T) {
	// A table where /login itself is guarded loops for anonymous users.
	g := NewWithRoutes([]Route{
		{Path: PathLogin, Roles: roles(model.RoleAdmin)},
	})
	_, _, err := g.Follow(PathLogin, stateAnonymous)
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

// ============================================================================
// NAV TESTS
// ============================================================================

func TestNavLinks(t *testing.T) {
	links := NavLinks(stateAnonymous, "")
	assert.Equal(t, []Link{{Label: "Login", Path: PathLogin}, {Label: "Sign Up", Path: PathSignup}}, links)

	links = NavLinks(authed(model.RoleFaculty), model.RoleFaculty)
	require.Len(t, links, 2)
	assert.Equal(t, Link{Label: "Faculty Dashboard", Path: PathFaculty}, links[0])
	assert.Equal(t, ActionLogout, links[1].Action)
}

func TestNavLinks_ResolvedRoleWins(t *testing.T) {
	// Persisted says STUDENT but the backend resolved FACULTY.
	links := NavLinks(authed(model.RoleFaculty), model.RoleStudent)
	assert.Equal(t, PathFaculty, links[0].Path)
}

func TestNavLinks_PersistedWhileLoading(t *testing.T) {
	links := NavLinks(stateLoading, model.RoleAdmin)
	assert.Equal(t, PathAdmin, links[0].Path)

	links = NavLinks(stateLoading, "")
	assert.Equal(t, PathLogin, links[0].Path)
}

func TestNavLinks_UnknownRole(t *testing.T) {
	links := NavLinks(authed("LIBRARIAN"), "")
	assert.Equal(t, Link{Label: "Dashboard", Path: "/librarian"}, links[0])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Allow", KindAllow.String())
	assert.Equal(t, "NotFound", KindNotFound.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

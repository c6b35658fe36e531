// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"fmt"

	"github.com/jeranaias/campus-tui/internal/model"
)

// Application paths.
const (
	PathRoot         = "/"
	PathLogin        = "/login"
	PathSignup       = "/signup"
	PathStudent      = "/student"
	PathFaculty      = "/faculty"
	PathAdmin        = "/admin"
	PathUnauthorized = "/unauthorized"
)

// ============================================================================
// DECISION KIND
// ============================================================================

// Kind is the outcome of resolving a path.
type Kind int

const (
	// KindAllow renders the requested route.
	KindAllow Kind = iota
	// KindLoading renders the loading placeholder and defers the decision.
	KindLoading
	// KindRedirect navigates to Decision.Target.
	KindRedirect
	// KindNotFound renders the not-found screen.
	KindNotFound
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAllow:
		return "Allow"
	case KindLoading:
		return "Loading"
	case KindRedirect:
		return "Redirect"
	case KindNotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ============================================================================
// DECISION
// ============================================================================

// Decision is the result of Guard.Resolve.
type Decision struct {
	Kind   Kind
	Target string // redirect destination, set only for KindRedirect
	Reason string
}

func (d Decision) String() string {
	if d.Kind == KindRedirect {
		return fmt.Sprintf("Redirect(%s): %s", d.Target, d.Reason)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Reason)
}

func allow(reason string) Decision {
	return Decision{Kind: KindAllow, Reason: reason}
}

func loading() Decision {
	return Decision{Kind: KindLoading, Reason: "auth state loading"}
}

func redirect(target, reason string) Decision {
	return Decision{Kind: KindRedirect, Target: target, Reason: reason}
}

// ============================================================================
// ROUTE
// ============================================================================

// Route is one entry of the route table. A nil Roles set makes it public.
type Route struct {
	Path  string
	Title string
	Roles map[model.Role]bool
}

// Guarded reports whether the route requires a role.
func (r Route) Guarded() bool {
	return r.Roles != nil
}

func roles(rs ...model.Role) map[model.Role]bool {
	set := make(map[model.Role]bool, len(rs))
	for _, r := range rs {
		set[r] = true
	}
	return set
}

// DefaultRoutes is the application route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathRoot, Title: "Home"},
		{Path: PathLogin, Title: "Login"},
		{Path: PathSignup, Title: "Sign Up"},
		{Path: PathUnauthorized, Title: "Unauthorized"},
		{Path: PathStudent, Title: "Student Dashboard", Roles: roles(model.RoleStudent)},
		{Path: PathFaculty, Title: "Faculty Dashboard", Roles: roles(model.RoleFaculty)},
		{Path: PathAdmin, Title: "Admin Dashboard", Roles: roles(model.RoleAdmin)},
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "github.com/jeranaias/campus-tui/internal/model"

// Action is what selecting a navbar link does.
type Action int

const (
	ActionNavigate Action = iota
	ActionLogout
)

// Link is one navbar entry.
type Link struct {
	Label  string
	Path   string
	Action Action
}

// NavLinks returns the navbar entries for state. The role comes from the
// resolved user; persisted is used only while the user is still loading,
// so the bar never contradicts the guard once state has settled.
func NavLinks(state model.AuthState, persisted model.Role) []Link {
	role := state.Role()
	if state.Loading {
		role = persisted
	}

	if role == "" {
		return []Link{
			{Label: "Login", Path: PathLogin},
			{Label: "Sign Up", Path: PathSignup},
		}
	}

	label := role.DisplayName() + " Dashboard"
	if !role.IsKnown() {
		label = "Dashboard"
	}
	return []Link{
		{Label: label, Path: role.Route()},
		{Label: "Logout", Action: ActionLogout},
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/model"
)

// authStateMsg carries a state published by the provider.
type authStateMsg struct {
	state model.AuthState
}

// authInitMsg reports that the provider's Init finished.
type authInitMsg struct {
	err error
}

type loginDoneMsg struct {
	user *model.User
	err  error
}

type signupDoneMsg struct {
	username string
	err      error
}

type logoutDoneMsg struct {
	err error
}

// dashboardMsg is the result of one dashboard load.
type dashboardMsg struct {
	gen  int
	view *dashboard.View
	err  error
}

// sessionChangedMsg reports that the session store changed on disk.
type sessionChangedMsg struct{}

type resyncDoneMsg struct {
	err error
}

// persistedMsg carries the role currently in the session store.
type persistedMsg struct {
	role model.Role
}

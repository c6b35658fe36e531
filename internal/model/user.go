// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SESSION
// =============================================================================

// Session is the token and role pair persisted between runs.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Empty reports whether no token is stored. A role without a token does not
// count as a session.
func (s Session) Empty() bool {
	return s.Token == ""
}

// =============================================================================
// USER
// =============================================================================

// User is the profile resolved from the backend's current-user endpoint.
// It lives in memory only; the persisted form is its Session.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username" validate:"required"`
	Role        Role   `json:"role" validate:"required"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Department  string `json:"department,omitempty"`
	GeneratedID string `json:"generatedId,omitempty"`
}

// MePayload is the raw /auth/me response. The generated id arrives under one
// of three keys depending on the role.
type MePayload struct {
	ID          int64  `json:"id"`
	Username    string `json:"username" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	GeneratedID string `json:"generatedId"`
	StudentID   string `json:"studentId"`
	TeacherID   string `json:"teacherId"`
}

// User converts the payload, resolving GeneratedID from generatedId, then
// studentId, then teacherId.
func (p MePayload) User() User {
	gen := p.GeneratedID
	if gen == "" {
		gen = p.StudentID
	}
	if gen == "" {
		gen = p.TeacherID
	}
	return User{
		ID:          p.ID,
		Username:    p.Username,
		Role:        ParseRole(p.Role),
		Name:        p.Name,
		Email:       p.Email,
		Department:  p.Department,
		GeneratedID: gen,
	}
}

// DisplayName returns Name, falling back to Username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// =============================================================================
// AUTH STATE
// =============================================================================

// AuthState is the snapshot of who is logged in. Loading is true only while
// the initial token verification is in flight.
type AuthState struct {
	User    *User
	Loading bool
}

// Authenticated reports whether a user is resolved.
func (s AuthState) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// Role returns the resolved user's role, or "" when anonymous.
func (s AuthState) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

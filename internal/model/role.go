// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is a campus role as reported by the backend.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
)

// KnownRoles lists the roles the backend accepts at signup.
var KnownRoles = []Role{RoleStudent, RoleFaculty, RoleAdmin}

// ParseRole normalizes s to upper case. Unknown values are returned as-is
// (upper-cased) so that callers never silently map them to a known role.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsKnown reports whether r is one of KnownRoles.
func (r Role) IsKnown() bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// Route returns the landing path for the role, "/" + lowercased role.
func (r Role) Route() string {
	return "/" + strings.ToLower(string(r))
}

// DisplayName returns the role in title case ("Student").
func (r Role) DisplayName() string {
	if r == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(string(r)))
}

func (r Role) String() string {
	return string(r)
}

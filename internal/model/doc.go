// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the campus client.
//
// # Key Types
//
//   - Role: campus role (STUDENT, FACULTY, ADMIN); unknown values are kept verbatim
//   - Session: the persisted token and role pair
//   - User: the profile resolved from /auth/me
//   - AuthState: the current user plus the initial loading flag
//   - Profile, Assignment, Mark, Fee, ...: typed dashboard payloads
//
// # Validation
//
// Payloads are validated at the API boundary with struct tags:
//
//	var fees []model.Fee
//	if err := model.ValidateAll(fees); err != nil {
//	    return err
//	}
package model

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the single source of truth for who is logged in.
//
// A Provider starts in the loading state. Init resolves it once: with a
// persisted token it verifies the token against GET /auth/me, without one
// it goes straight to anonymous. Login, Signup and Logout drive the rest of
// the lifecycle.
//
//	Initial{Loading}  --Init, no token------------> Anonymous
//	Initial{Loading}  --Init, /auth/me ok---------> Authenticated
//	Initial{Loading}  --Init, /auth/me fails------> Anonymous (store cleared)
//	any               --Login ok------------------> Authenticated
//	any               --Logout--------------------> Anonymous
//
// # Key Types
//
//   - Provider: the auth state holder, injected into the UI and CLI
//   - Backend: the two HTTP verbs the provider needs (api.Client satisfies it)
//
// # Role Reconciliation
//
// The role returned by /auth/me is authoritative. When it differs from the
// persisted role, the store is rewritten and a warning is logged, so the
// route guard and navbar never disagree with the resolved user.
package auth

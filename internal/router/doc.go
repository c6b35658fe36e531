// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides what a navigation renders.
//
// Every decision is a pure function of the path and the current AuthState;
// the UI re-runs it on each navigation and on each auth state change.
//
// # Key Types
//
//   - Guard: route table plus Resolve / Follow
//   - Decision: Allow, Loading, Redirect or NotFound, with a reason
//   - Link: a navbar entry
//
// # Guarded Routes
//
// For a route with required role set R:
//
//	loading          -> Loading (no redirect yet)
//	no user          -> Redirect /login
//	user.role not in R -> Redirect /unauthorized
//	otherwise        -> Allow
//
// Membership is a plain set lookup, so roles the client has never heard of
// are denied everywhere rather than special-cased.
//
// # Usage
//
//	g := router.New()
//	path, d := g.Follow("/", provider.State())
//	switch d.Kind {
//	case router.KindLoading:
//	    // spinner
//	case router.KindAllow:
//	    // render path
//	}
package router

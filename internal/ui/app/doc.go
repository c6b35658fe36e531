// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the campus TUI.
//
// The model owns the current path and renders whatever the route guard
// decides for it under the provider's auth state: the loading placeholder,
// the login and signup forms, a role dashboard, or the unauthorized and
// not-found screens. Every auth change re-resolves the current path, so a
// logout in another terminal (seen through the session watcher) lands this
// one on the login screen as well.
//
// Dashboard batches run in tea.Cmd goroutines. Each load carries a
// generation number and its own context; starting a new load or leaving
// the dashboard cancels the previous one and results from stale
// generations are dropped.
package app

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable view pieces of the campus TUI.

Components are plain structs with a View method; they hold no tea.Model
state of their own so the app model stays the single owner of navigation
and auth state.

	Navbar      top bar with brand, links and the signed-in user
	Tabs        dashboard tab strip
	StatusBar   bottom bar with status, sample-data badge and key hints
	ToastManager non-blocking notifications that expire on their own
*/
package components

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the campus TUI.

Colors are lipgloss AdaptiveColors so one palette serves light and dark
terminals. A Theme binds the palette to a lipgloss renderer whose color
profile and background come from termenv detection, or from the ui.theme
setting when the user forces one.

# Theme names

	auto   detect the background (default)
	dark   force the dark palette
	light  force the light palette
	plain  no color; for dumb terminals and piped output

# Accessibility

Status states never rely on color alone: StatusIndicators pairs each state
with an ASCII marker ([OK], [X], [!], [i]).
*/
package styles

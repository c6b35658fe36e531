// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-tui/internal/ui/styles"
)

// Tabs is the dashboard tab strip.
type Tabs struct {
	Titles []string
	Active int
	Width  int
	theme  *styles.Theme
}

// NewTabs creates a tab strip.
func NewTabs(theme *styles.Theme, titles []string) *Tabs {
	return &Tabs{Titles: titles, Width: 80, theme: theme}
}

// Next moves to the next tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Titles) > 0 {
		t.Active = (t.Active + 1) % len(t.Titles)
	}
}

// Prev moves to the previous tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Titles) > 0 {
		t.Active = (t.Active - 1 + len(t.Titles)) % len(t.Titles)
	}
}

// View renders the strip. When it does not fit, tabs scroll so the active
// one stays visible.
func (t *Tabs) View() string {
	if len(t.Titles) == 0 {
		return ""
	}

	rendered := make([]string, len(t.Titles))
	for i, title := range t.Titles {
		if i == t.Active {
			rendered[i] = t.theme.TabActive.Render(title)
		} else {
			rendered[i] = t.theme.Tab.Render(title)
		}
	}

	start := 0
	for start < t.Active && lipgloss.Width(strings.Join(rendered[start:t.Active+1], "")) > t.Width {
		start++
	}
	line := ""
	for _, r := range rendered[start:] {
		if lipgloss.Width(line+r) > t.Width {
			break
		}
		line += r
	}
	return line
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/ui/styles"
	"github.com/jeranaias/campus-tui/internal/util"
)

// =============================================================================
// NAVBAR COMPONENT
// =============================================================================

// NavItem is one rendered navbar link.
type NavItem struct {
	Label  string
	Key    string // shortcut shown next to the label
	Active bool
}

// Navbar is the top bar.
type Navbar struct {
	Title    string
	Items    []NavItem
	Username string
	Role     model.Role
	Loading  bool
	Width    int
	theme    *styles.Theme
}

// NewNavbar creates a navbar with the default title.
func NewNavbar(theme *styles.Theme) *Navbar {
	return &Navbar{
		Title: "Campus",
		Width: 80,
		theme: theme,
	}
}

// View renders the navbar on one line.
func (n *Navbar) View() string {
	t := n.theme
	width := n.Width
	if width < 40 {
		width = 40
	}

	left := t.Brand.Render(n.Title)
	for _, item := range n.Items {
		label := item.Label
		if item.Key != "" {
			label += " " + t.ShortcutDesc.Render("("+item.Key+")")
		}
		if item.Active {
			left += t.NavLinkActive.Render(label)
		} else {
			left += t.NavLink.Render(label)
		}
	}

	var right string
	switch {
	case n.Loading:
		right = t.Muted.Render("checking session" + styles.DotsSpinner.Frames[2])
	case n.Username != "":
		right = t.Label.Render(n.Username) + " " + t.RoleBadge(n.Role)
	}

	// Navbar padding takes two cells.
	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the user block before truncating links.
		right = ""
		gap = inner - lipgloss.Width(left)
		if gap < 0 {
			left = util.TruncateWidth(stripItems(n), inner)
			gap = 0
		}
	}

	return t.Navbar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// stripItems renders the bar without styling, for the narrow fallback.
func stripItems(n *Navbar) string {
	parts := []string{n.Title}
	for _, item := range n.Items {
		parts = append(parts, item.Label)
	}
	return strings.Join(parts, " | ")
}

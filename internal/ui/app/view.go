// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/router"
	"github.com/jeranaias/campus-tui/internal/ui/components"
)

// View renders the navbar, the body for the current screen, any toasts and
// the status bar.
func (m *Model) View() string {
	header := m.navbarView()
	footer := m.statusView()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	body := m.bodyView(bodyHeight)
	if m.goToOn {
		body = m.goTo.View() + "\n" + body
	}
	if stack := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width); stack != "" {
		toastHeight := lipgloss.Height(stack)
		body = fitHeight(body, max(bodyHeight-toastHeight, 0))
		if bodyHeight-toastHeight > 0 {
			body += "\n"
		}
		body += stack
	}
	body = fitHeight(body, bodyHeight)

	return header + "\n" + body + "\n" + footer
}

func (m *Model) navbarView() string {
	links := router.NavLinks(m.auth, m.persisted)
	items := make([]components.NavItem, 0, len(links))
	for _, l := range links {
		item := components.NavItem{
			Label:  l.Label,
			Active: l.Action == router.ActionNavigate && l.Path == m.path,
		}
		switch {
		case l.Action == router.ActionLogout, l.Path == router.PathLogin:
			item.Key = "ctrl+l"
		case l.Path == router.PathSignup:
			item.Key = "ctrl+n"
		default:
			item.Key = "ctrl+d"
		}
		items = append(items, item)
	}

	n := m.navbar
	n.Items = items
	n.Width = m.width
	n.Loading = m.auth.Loading
	n.Username, n.Role = "", ""
	if u := m.auth.User; u != nil {
		n.Username, n.Role = u.DisplayName(), u.Role
	}
	return n.View()
}

func (m *Model) statusView() string {
	s := m.status
	s.Width = m.width
	s.Path = m.path
	s.Sample, s.LoadedAt = false, time.Time{}

	scr := m.screen()
	switch {
	case scr == screenLoading || m.loading || m.login.busy || m.signup.busy:
		s.Status = components.StatusLoading
	case scr == screenDashboard && m.loadErr != nil:
		s.Status = components.StatusError
	default:
		s.Status = components.StatusReady
	}
	if scr == screenDashboard && m.view != nil {
		s.Sample, s.LoadedAt = m.view.Sample, m.view.LoadedAt
	}
	s.Shortcuts = m.shortcuts(scr)
	return s.View()
}

func hint(b key.Binding) components.Shortcut {
	h := b.Help()
	return components.Shortcut{Key: h.Key, Desc: h.Desc}
}

func (m *Model) shortcuts(scr screen) []components.Shortcut {
	k := m.keys
	switch scr {
	case screenLogin:
		return []components.Shortcut{hint(k.Submit), hint(k.NextField), hint(k.Signup), hint(k.GoTo), hint(k.Quit)}
	case screenSignup:
		return []components.Shortcut{hint(k.Submit), hint(k.NextField), hint(k.RoleRight), hint(k.Dismiss), hint(k.Quit)}
	case screenDashboard:
		return []components.Shortcut{hint(k.NextTab), hint(k.ScrollDn), hint(k.Reload), hint(k.Logout), hint(k.GoTo), hint(k.Quit)}
	case screenUnauthorized, screenNotFound:
		return []components.Shortcut{{Key: "enter", Desc: "home"}, hint(k.Logout), hint(k.GoTo), hint(k.Quit)}
	}
	return []components.Shortcut{hint(k.Quit)}
}

// =============================================================================
// BODIES
// =============================================================================

func (m *Model) bodyView(height int) string {
	t := m.theme
	center := func(s string) string {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, s)
	}

	switch m.screen() {
	case screenLoading:
		return center(m.spinner.View() + " " + t.Muted.Render("Checking your session..."))
	case screenLogin:
		return center(m.login.view(t, "ctrl+n: create an account"))
	case screenSignup:
		return center(m.signup.view(t, "esc: back to login"))
	case screenUnauthorized:
		return center(t.Title.Render("Unauthorized") + "\n\n" +
			t.Error("You do not have access to that page.") + "\n\n" +
			t.Muted.Render("enter: go to your dashboard"))
	case screenDashboard:
		return m.dashboardView(height)
	}
	return center(t.Title.Render("Page not found") + "\n\n" +
		t.Muted.Render("Nothing lives at "+m.path) + "\n\n" +
		t.Muted.Render("enter: go home"))
}

func (m *Model) dashboardView(height int) string {
	t := m.theme
	u := m.auth.User

	title := t.Title.Render(u.Role.DisplayName()+" Dashboard") + "  " +
		t.Muted.Render("Welcome, "+u.DisplayName())
	if m.loading {
		title += "  " + m.spinner.View()
	}

	if m.view == nil {
		var msg string
		switch {
		case m.loading:
			msg = m.spinner.View() + " " + t.Muted.Render("Loading dashboard...")
		case m.loadErr != nil:
			msg = t.Error(loadErrorText(m.loadErr)) + "\n\n" + t.Muted.Render("r: retry")
		}
		return title + "\n" + lipgloss.Place(m.width, max(height-1, 1), lipgloss.Center, lipgloss.Center, msg)
	}

	tabs := ""
	if m.tabs != nil {
		tabs = m.tabs.View()
	}
	banner := ""
	switch {
	case m.view.Sample:
		banner = t.Warning("Showing sample data: " + loadErrorText(m.view.Err))
	case m.loadErr != nil:
		banner = t.Error("Reload failed: " + loadErrorText(m.loadErr))
	}

	return t.App.Render(strings.Join([]string{title, tabs, banner, m.viewport.View()}, "\n"))
}

// loadErrorText is the one-line description of a failed load.
func loadErrorText(err error) string {
	if err == nil {
		return "backend unavailable"
	}
	if msg, ok := api.MessageOf(err); ok {
		return msg
	}
	if status := api.StatusOf(err); status != 0 {
		return "backend returned " + strconv.Itoa(status)
	}
	return auth.Message(err, "backend unavailable")
}

// fitHeight pads or truncates s to exactly h lines.
func fitHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

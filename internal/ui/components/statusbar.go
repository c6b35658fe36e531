// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-tui/internal/ui/styles"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the application status shown at the left of the bar.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns the accessible marker for the status.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom bar.
type StatusBar struct {
	Status    Status
	Path      string
	Sample    bool
	LoadedAt  time.Time
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar. Shortcuts are dropped from the right when the
// terminal is too narrow.
func (s *StatusBar) View() string {
	t := s.theme

	var style lipgloss.Style
	switch s.Status {
	case StatusError:
		style = t.ErrorStyle
	case StatusLoading:
		style = t.WarningStyle
	default:
		style = t.SuccessStyle
	}
	left := style.Render(s.Status.Icon() + " " + s.Status.String())
	if s.Path != "" {
		left += " " + t.Muted.Render(s.Path)
	}
	if s.Sample {
		left += " " + t.SampleBanner.Render("SAMPLE DATA")
	}
	if !s.LoadedAt.IsZero() {
		left += " " + t.Muted.Render("updated " + s.LoadedAt.Format("15:04:05"))
	}

	inner := s.Width - 2
	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")
	for len(hints) > 0 && lipgloss.Width(left)+1+lipgloss.Width(right) > inner {
		hints = hints[:len(hints)-1]
		right = strings.Join(hints, "  ")
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

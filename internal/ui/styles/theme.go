// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/campus-tui/internal/model"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemePlain = "plain"
)

// Theme holds the styled components of the application.
type Theme struct {
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App   lipgloss.Style
	Panel lipgloss.Style
	Title lipgloss.Style
	Muted lipgloss.Style
	Label lipgloss.Style

	// ==========================================================================
	// NAVBAR AND TABS
	// ==========================================================================

	Navbar        lipgloss.Style
	Brand         lipgloss.Style
	NavLink       lipgloss.Style
	NavLinkActive lipgloss.Style
	Tab           lipgloss.Style
	TabActive     lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	FormBox      lipgloss.Style
	FieldFocused lipgloss.Style
	FieldBlurred lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	SampleBanner lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme. An empty or unknown name means auto.
func NewTheme(name string) *Theme {
	name = strings.ToLower(strings.TrimSpace(name))

	profile := termenv.ColorProfile()
	isDark := true
	switch name {
	case ThemeDark:
	case ThemeLight:
		isDark = false
	case ThemePlain:
		profile = termenv.Ascii
	default:
		name = ThemeAuto
		isDark = termenv.HasDarkBackground()
	}

	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	t.App = s().Padding(0, 1)
	t.Panel = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Title = s().Bold(true).Foreground(TextPrimary)
	t.Muted = s().Foreground(TextMuted)
	t.Label = s().Foreground(TextSecondary)

	t.Navbar = s().
		Background(SurfaceDim).
		Padding(0, 1)
	t.Brand = s().Bold(true).Foreground(Purple)
	t.NavLink = s().Foreground(TextSecondary).Padding(0, 1)
	t.NavLinkActive = s().Bold(true).Underline(true).Foreground(Cyan).Padding(0, 1)
	t.Tab = s().Foreground(TextMuted).Padding(0, 1)
	t.TabActive = s().
		Bold(true).
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)

	t.FormBox = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)
	t.FieldFocused = s().Foreground(Cyan).Bold(true)
	t.FieldBlurred = s().Foreground(TextSecondary)
	t.Button = s().Foreground(TextSecondary).Background(SurfaceBright).Padding(0, 2)
	t.ButtonActive = s().Bold(true).Foreground(TextInverse).Background(Purple).Padding(0, 2)

	t.StatusBar = s().Foreground(TextSecondary).Background(SurfaceDim).Padding(0, 1)
	t.ShortcutKey = s().Bold(true).Foreground(Cyan)
	t.ShortcutDesc = s().Foreground(TextMuted)
	t.Spinner = s().Foreground(Purple)
	t.SampleBanner = s().Bold(true).Foreground(TextInverse).Background(Amber).Padding(0, 1)

	t.SuccessStyle = s().Bold(true).Foreground(Emerald)
	t.ErrorStyle = s().Bold(true).Foreground(Rose)
	t.WarningStyle = s().Bold(true).Foreground(Amber)
	t.InfoStyle = s().Foreground(Cyan)
}

// NewStyle returns a blank style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

// RoleBadge renders a role as a colored badge.
func (t *Theme) RoleBadge(r model.Role) string {
	label := r.String()
	if label == "" {
		label = "GUEST"
	}
	return t.renderer.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(RoleColor(r)).
		Padding(0, 1).
		Render(label)
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	switch {
	case t.ColorProfile == termenv.Ascii:
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}

// Success renders msg with the success marker.
func (t *Theme) Success(msg string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success) + " " + msg
}

// Error renders msg with the error marker.
func (t *Theme) Error(msg string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error) + " " + msg
}

// Warning renders msg with the warning marker.
func (t *Theme) Warning(msg string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning) + " " + msg
}

// Info renders msg with the info marker.
func (t *Theme) Info(msg string) string {
	return t.InfoStyle.Render(StatusIndicators.Info) + " " + msg
}

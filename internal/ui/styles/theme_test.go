// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Names(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantDark bool
	}{
		{"dark", ThemeDark, true},
		{"LIGHT", ThemeLight, false},
		{" plain ", ThemePlain, true},
	}
	for _, tc := range tests {
		theme := NewTheme(tc.name)
		assert.Equal(t, tc.wantName, theme.Name, tc.name)
		assert.Equal(t, tc.wantDark, theme.IsDark, tc.name)
	}
}

func TestNewTheme_UnknownIsAuto(t *testing.T) {
	assert.Equal(t, ThemeAuto, NewTheme("solarized").Name)
	assert.Equal(t, ThemeAuto, NewTheme("").Name)
}

func TestPlainTheme_NoEscapes(t *testing.T) {
	theme := NewTheme(ThemePlain)
	assert.Equal(t, termenv.Ascii, theme.ColorProfile)
	assert.Equal(t, "notty", theme.GlamourStyle())

	out := theme.Error("boom")
	assert.Equal(t, "[X] boom", out)
	assert.NotContains(t, theme.RoleBadge(model.RoleAdmin), "\x1b[")
	assert.Contains(t, theme.RoleBadge(model.RoleAdmin), "ADMIN")
	assert.Contains(t, theme.RoleBadge(""), "GUEST")
}

func TestGlamourStyle(t *testing.T) {
	theme := NewTheme(ThemeLight)
	theme.ColorProfile = termenv.TrueColor
	assert.Equal(t, "light", theme.GlamourStyle())

	theme = NewTheme(ThemeDark)
	theme.ColorProfile = termenv.TrueColor
	assert.Equal(t, "dark", theme.GlamourStyle())
}

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestRoleColor(t *testing.T) {
	assert.Equal(t, Cyan, RoleColor(model.RoleStudent))
	assert.Equal(t, Emerald, RoleColor(model.RoleFaculty))
	assert.Equal(t, Purple, RoleColor(model.RoleAdmin))
	assert.Equal(t, Amber, RoleColor("LIBRARIAN"))
}

func TestSpinnerConfig(t *testing.T) {
	s := LineSpinner.Bubbles()
	assert.Equal(t, LineSpinner.Frames, s.Frames)
	assert.Equal(t, LineSpinner.Duration(), s.FPS)
	assert.Equal(t, LineSpinner.Duration()*10, SpinnerConfig{FPS: 1}.Duration())
}

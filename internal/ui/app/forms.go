// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/ui/styles"
)

const (
	fieldUsername = iota
	fieldPassword
)

// form is the shared state of the login and signup screens. Focus runs
// over the text inputs, then the optional role picker, then the submit
// button.
type form struct {
	title  string
	submit string
	inputs []textinput.Model
	roles  []model.Role // nil hides the role picker
	role   int
	focus  int
	err    string
	busy   bool
}

func newInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Width = 30
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return ti
}

func newLoginForm() *form {
	f := &form{
		title:  "Login",
		submit: "Login",
		inputs: []textinput.Model{newInput("username", false), newInput("password", true)},
	}
	f.setFocus(0)
	return f
}

func newSignupForm() *form {
	f := &form{
		title:  "Sign Up",
		submit: "Sign Up",
		inputs: []textinput.Model{newInput("username", false), newInput("password", true)},
		roles:  append([]model.Role(nil), model.KnownRoles...),
	}
	f.setFocus(0)
	return f
}

func (f *form) roleField() int {
	if f.roles == nil {
		return -1
	}
	return len(f.inputs)
}

func (f *form) submitField() int {
	if f.roles == nil {
		return len(f.inputs)
	}
	return len(f.inputs) + 1
}

func (f *form) setFocus(i int) tea.Cmd {
	n := f.submitField() + 1
	f.focus = (i%n + n) % n

	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *form) cycleRole(delta int) {
	if len(f.roles) == 0 {
		return
	}
	f.role = (f.role + delta + len(f.roles)) % len(f.roles)
}

func (f *form) username() string { return f.inputs[fieldUsername].Value() }
func (f *form) password() string { return f.inputs[fieldPassword].Value() }

func (f *form) selectedRole() model.Role {
	if len(f.roles) == 0 {
		return ""
	}
	return f.roles[f.role]
}

// update forwards msg to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// reset clears the inputs and error, keeping username when asked.
func (f *form) reset(keepUsername string) {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.inputs[fieldUsername].SetValue(keepUsername)
	f.err = ""
	f.busy = false
	f.role = 0
	if keepUsername != "" {
		f.setFocus(fieldPassword)
	} else {
		f.setFocus(fieldUsername)
	}
}

func (f *form) view(t *styles.Theme, hint string) string {
	labels := []string{"Username", "Password"}

	var b strings.Builder
	b.WriteString(t.Title.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := t.FieldBlurred
		marker := "  "
		if f.focus == i {
			label = t.FieldFocused
			marker = "> "
		}
		b.WriteString(label.Render(marker + labels[i]))
		b.WriteString("\n  ")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if rf := f.roleField(); rf >= 0 {
		label := t.FieldBlurred
		marker := "  "
		if f.focus == rf {
			label = t.FieldFocused
			marker = "> "
		}
		b.WriteString(label.Render(marker + "Role"))
		b.WriteString("\n  ")
		opts := make([]string, len(f.roles))
		for i, r := range f.roles {
			if i == f.role {
				opts[i] = t.RoleBadge(r)
			} else {
				opts[i] = t.Muted.Render(" " + r.DisplayName() + " ")
			}
		}
		b.WriteString(strings.Join(opts, " "))
		b.WriteString("\n\n")
	}

	button := t.Button
	if f.focus == f.submitField() {
		button = t.ButtonActive
	}
	label := f.submit
	if f.busy {
		label += "..."
	}
	b.WriteString(button.Render(label))

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(t.Error(f.err))
	}
	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(t.Muted.Render(hint))
	}

	return t.FormBox.Render(t.NewStyle().Width(36).Render(b.String()))
}

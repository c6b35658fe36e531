// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

// ErrPromptAborted is returned when the user presses Ctrl+C at a prompt.
var ErrPromptAborted = errors.New("aborted")

// Prompter reads interactive input.
type Prompter interface {
	Prompt(label string) (string, error)
	Password(label string) (string, error)
	Close() error
}

// linePrompter reads from the terminal with line editing.
type linePrompter struct {
	line *liner.State
}

// NewLinePrompter takes over the terminal until Close.
func NewLinePrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linePrompter{line: line}
}

func (p *linePrompter) Prompt(label string) (string, error) {
	s, err := p.line.Prompt(label)
	return strings.TrimSpace(s), promptErr(err)
}

func (p *linePrompter) Password(label string) (string, error) {
	s, err := p.line.PasswordPrompt(label)
	return s, promptErr(err)
}

func (p *linePrompter) Close() error {
	return p.line.Close()
}

func promptErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, liner.ErrPromptAborted) {
		return ErrPromptAborted
	}
	return errors.Wrap(err, "read input")
}

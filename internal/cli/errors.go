// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/config"
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitNetworkError = 5
	ExitNotFound     = 7
	ExitTimeout      = 8
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in; run 'campus login' first")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError carries the one-line message shown for a failed command.
type CommandError struct {
	Command string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var tty *TTYRequiredError
	var verrs model.ValidationErrors
	var cfgErrs config.ValidateErrors
	switch {
	case errors.As(err, &usage), errors.As(err, &tty), errors.As(err, &verrs):
		return ExitUsageError
	case errors.As(err, &cfgErrs):
		return ExitConfigError
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, auth.ErrAdminExists),
		errors.Is(err, dashboard.ErrActionNotPermitted), api.IsUnauthorized(err):
		return ExitAuthError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	case errors.Is(err, api.ErrTransport):
		return ExitNetworkError
	}

	switch api.StatusOf(err) {
	case http.StatusForbidden:
		return ExitAuthError
	case http.StatusNotFound:
		return ExitNotFound
	}
	return ExitGeneralError
}

// PrintError writes err to w in the error style.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, RenderConditional(ErrorStyle, "Error: ")+err.Error())
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, DimStyle.Render("Run 'campus help' for usage."))
	}
}

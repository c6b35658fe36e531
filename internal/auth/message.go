// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/model"
)

// Fallback messages when the backend gave none.
const (
	LoginFailed  = "Login failed"
	SignupFailed = "Signup failed"
)

// Message maps err to the single line shown on a form. Backend messages
// win, then client-side validation, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrAdminExists) {
		return ErrAdminExists.Error()
	}
	if msg, ok := api.MessageOf(err); ok {
		return msg
	}
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Error()
	}
	return fallback
}

// LoginMessage is Message with the login fallback.
func LoginMessage(err error) string { return Message(err, LoginFailed) }

// SignupMessage is Message with the signup fallback.
func SignupMessage(err error) string { return Message(err, SignupFailed) }

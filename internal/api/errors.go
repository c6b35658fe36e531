// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrTransport classifies failures where no HTTP response was obtained:
// connection refused, DNS, TLS, timeouts and cancelled contexts.
var ErrTransport = errors.New("transport failure")

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response too large")

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Status int
	// Message is the backend's "message" (or "error") field when present,
	// otherwise the status text.
	Message string
	Body    []byte

	fromBody bool
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// newHTTPError extracts the backend message from body. The backend reports
// errors as {"message": "..."}; some handlers use {"error": "..."} instead.
func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Body: body}

	var shape struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		switch {
		case strings.TrimSpace(shape.Message) != "":
			e.Message, e.fromBody = shape.Message, true
		case strings.TrimSpace(shape.Error) != "":
			e.Message, e.fromBody = shape.Error, true
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = "unexpected status"
	}
	return e
}

// transportError marks err as ErrTransport while keeping its cause.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *transportError) Unwrap() error { return e.err }

func (e *transportError) Is(target error) bool { return target == ErrTransport }

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// MessageOf returns the message the backend put in the error body. It
// reports false when err is not an HTTPError or the body carried no
// message, in which case callers show their own fallback text.
func MessageOf(err error) (string, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.fromBody {
		return httpErr.Message, true
	}
	return "", false
}

// IsUnauthorized reports whether the backend rejected the credentials.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command prints.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Command   string  `json:"command"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	ExitCode  int     `json:"exitCode,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// NewJSONResponse wraps a successful result.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Command:   command,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewJSONErrorResponse wraps a failure.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Command:   command,
		Error:     &msg,
		ExitCode:  ExitCode(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Write encodes the response, indented, to w.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// OutputJSON runs handler and prints its result as JSON when jsonMode is
// set. Otherwise the handler prints human output itself. Errors are only
// returned; Run reports them.
func OutputJSON(w io.Writer, jsonMode bool, command string, handler func() (any, error)) error {
	data, err := handler()
	if err != nil || !jsonMode {
		return err
	}
	return NewJSONResponse(command, data).Write(w)
}

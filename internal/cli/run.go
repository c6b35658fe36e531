// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
)

// ReportedError wraps an error Run has already printed as JSON.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Run executes a client command against env. CmdTUI, CmdServe, CmdConfig,
// CmdVersion and CmdHelp need no session and are dispatched by main.
// With --json, a failure is printed as a JSON error response and returned
// as a *ReportedError.
func Run(ctx context.Context, cmd Command, env *Env, args Args) error {
	if args.Parser.BoolFlag("help", "h") {
		PrintUsage(env.Out)
		return nil
	}
	err := dispatch(ctx, cmd, env, args)
	if err != nil && args.JSON {
		NewJSONErrorResponse(cmd.String(), err).Write(env.Out)
		return &ReportedError{Err: err}
	}
	return err
}

func dispatch(ctx context.Context, cmd Command, env *Env, args Args) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(ctx, env, args)
	case CmdSignup:
		return HandleSignup(ctx, env, args)
	case CmdLogout:
		return HandleLogout(ctx, env, args)
	case CmdWhoami:
		return HandleWhoami(ctx, env, args)
	case CmdDashboard:
		return HandleDashboard(ctx, env, args)
	case CmdRoute:
		return HandleRoute(ctx, env, args)
	case CmdNotify:
		return HandleNotify(ctx, env, args)
	case CmdIssue:
		return HandleIssue(ctx, env, args)
	case CmdFeedback:
		return HandleFeedback(ctx, env, args)
	case CmdAssign:
		return HandleAssign(ctx, env, args)
	case CmdUsers:
		return HandleUsers(ctx, env, args)
	}
	return &UsageError{Message: fmt.Sprintf("unknown command %q", args.Name)}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the campus command line.
//
// # Key Types
//
//   - Command, Args: the parsed command line (Parse)
//   - ArgParser: command flags and positionals
//   - Env: the client stack a command runs against (NewEnv)
//   - JSONResponse: the --json envelope
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	env, err := cli.NewEnv(cfg, args, log)
//	...
//	err = cli.Run(ctx, cmd, env, args)
//	os.Exit(cli.ExitCode(err))
//
// # Commands
//
//   - login, signup, logout, whoami: the auth provider from the terminal
//   - dashboard: the role dashboard rendered as text
//   - route: the route guard's decision for a path
//   - notify, issue: dashboard write actions
//   - serve: the development backend
//   - config: inspect and edit ~/.campus/config.toml
//
// Credentials not given as flags are prompted for with line editing;
// passwords are never echoed. Without a terminal a missing credential is
// an error.
//
// # Exit Codes
//
// 0 success, 1 general, 2 usage or validation, 3 config, 4 authentication
// or permission, 5 network, 7 not found, 8 timeout.
package cli

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/model"
)

// userData is the JSON shape of login and whoami.
type userData struct {
	model.User
	Dashboard string `json:"dashboard"`
}

func newUserData(u model.User) userData {
	return userData{User: u, Dashboard: u.Role.Route()}
}

// requireUser restores the stored session and returns its user.
func requireUser(ctx context.Context, env *Env) (*model.User, error) {
	if err := env.Auth.Init(ctx); err != nil {
		return nil, err
	}
	state := env.Auth.State()
	if !state.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	return state.User, nil
}

// HandleLogin handles "campus login". Missing credentials are prompted for.
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	username := p.Flag("username", "u")
	if username == "" {
		username = p.Positional(0)
	}
	password := p.Flag("password", "p")

	if username == "" {
		in, err := env.prompt("--username")
		if err != nil {
			return err
		}
		if username, err = in.Prompt("Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		in, err := env.prompt("--password")
		if err != nil {
			return err
		}
		if password, err = in.Password("Password: "); err != nil {
			return err
		}
	}

	return OutputJSON(env.Out, args.JSON, "login", func() (any, error) {
		user, err := env.Auth.Login(ctx, username, password)
		if err != nil {
			return nil, &CommandError{Command: "login", Reason: auth.LoginMessage(err), Err: err}
		}
		if !args.JSON {
			fmt.Fprintln(env.Out, RenderConditional(SuccessStyle, "✓ ")+
				fmt.Sprintf("Logged in as %s (%s)", user.DisplayName(), user.Role.DisplayName()))
			if !args.Quiet {
				fmt.Fprintln(env.Out, RenderField("Dashboard", user.Role.Route()))
			}
		}
		return newUserData(*user), nil
	})
}

// HandleSignup handles "campus signup". It never logs the new user in.
func HandleSignup(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	username := p.Flag("username", "u")
	password := p.Flag("password", "p")
	role := model.ParseRole(p.FlagOrDefault("role", string(model.RoleStudent)))
	if !role.IsKnown() {
		return &UsageError{Message: fmt.Sprintf("unknown role %q (want STUDENT, FACULTY or ADMIN)", role)}
	}

	if username == "" {
		in, err := env.prompt("--username")
		if err != nil {
			return err
		}
		if username, err = in.Prompt("Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		in, err := env.prompt("--password")
		if err != nil {
			return err
		}
		if password, err = in.Password("Password: "); err != nil {
			return err
		}
	}

	return OutputJSON(env.Out, args.JSON, "signup", func() (any, error) {
		if err := env.Auth.Signup(ctx, username, password, role); err != nil {
			return nil, &CommandError{Command: "signup", Reason: auth.SignupMessage(err), Err: err}
		}
		if !args.JSON {
			fmt.Fprintln(env.Out, RenderConditional(SuccessStyle, "✓ ")+
				fmt.Sprintf("Created %s account %q", role.DisplayName(), username))
			if !args.Quiet {
				fmt.Fprintln(env.Out, DimStyle.Render("Log in with: campus login -u "+username))
			}
		}
		return map[string]string{"username": username, "role": role.String()}, nil
	})
}

// HandleLogout handles "campus logout".
func HandleLogout(ctx context.Context, env *Env, args Args) error {
	return OutputJSON(env.Out, args.JSON, "logout", func() (any, error) {
		if err := env.Auth.Logout(ctx); err != nil {
			return nil, errors.Wrap(err, "logout")
		}
		if !args.JSON && !args.Quiet {
			fmt.Fprintln(env.Out, "Logged out.")
		}
		return map[string]bool{"loggedOut": true}, nil
	})
}

// HandleWhoami handles "campus whoami".
func HandleWhoami(ctx context.Context, env *Env, args Args) error {
	return OutputJSON(env.Out, args.JSON, "whoami", func() (any, error) {
		user, err := requireUser(ctx, env)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Fprintln(env.Out, TitleStyle.Render(user.DisplayName()))
			fmt.Fprintln(env.Out, RenderField("Username", user.Username))
			fmt.Fprintln(env.Out, RenderField("Role", user.Role.DisplayName()))
			if user.GeneratedID != "" {
				fmt.Fprintln(env.Out, RenderField("ID", user.GeneratedID))
			}
			if user.Email != "" {
				fmt.Fprintln(env.Out, RenderField("Email", user.Email))
			}
			fmt.Fprintln(env.Out, RenderField("Dashboard", user.Role.Route()))
		}
		return newUserData(*user), nil
	})
}

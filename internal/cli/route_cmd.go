// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/campus-tui/internal/router"
)

// routeData is the JSON shape of "campus route".
type routeData struct {
	Requested string   `json:"requested"`
	Final     string   `json:"final"`
	Title     string   `json:"title,omitempty"`
	Decision  string   `json:"decision"`
	Reason    string   `json:"reason"`
	Hops      []string `json:"hops"`
}

// HandleRoute shows where the guard sends a path for the stored session.
func HandleRoute(ctx context.Context, env *Env, args Args) error {
	path := args.Parser.Positional(0)
	if path == "" {
		return &UsageError{Message: "route needs a path, e.g. campus route /admin"}
	}

	return OutputJSON(env.Out, args.JSON, "route", func() (any, error) {
		if err := env.Auth.Init(ctx); err != nil {
			return nil, err
		}
		state := env.Auth.State()

		data := routeData{Requested: router.Normalize(path)}
		current := data.Requested
		data.Hops = []string{current}
		for hop := 0; ; hop++ {
			d := env.Guard.Resolve(current, state)
			if d.Kind != router.KindRedirect {
				data.Decision, data.Reason = d.Kind.String(), d.Reason
				break
			}
			if hop >= router.MaxHops {
				return nil, router.ErrRedirectLoop
			}
			current = router.Normalize(d.Target)
			data.Hops = append(data.Hops, current)
		}
		data.Final = current
		if r, ok := env.Guard.Lookup(current); ok {
			data.Title = r.Title
		}

		if !args.JSON {
			who := "anonymous"
			if state.Authenticated() {
				who = state.User.Username + " (" + state.User.Role.String() + ")"
			}
			fmt.Fprintln(env.Out, RenderField("Session", who))
			fmt.Fprintln(env.Out, RenderField("Requested", data.Requested))
			for _, h := range data.Hops[1:] {
				fmt.Fprintln(env.Out, RenderField("Redirect", h))
			}
			fmt.Fprintln(env.Out, RenderField("Result", data.Decision+" "+data.Final))
			fmt.Fprintln(env.Out, DimStyle.Render(data.Reason))
		}
		return data, nil
	})
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/dashboard"
)

// dashboardData is the JSON shape of "campus dashboard".
type dashboardData struct {
	*dashboard.View
	Error string `json:"error,omitempty"`
}

// HandleDashboard prints the logged-in user's dashboard.
func HandleDashboard(ctx context.Context, env *Env, args Args) error {
	return OutputJSON(env.Out, args.JSON, "dashboard", func() (any, error) {
		user, err := requireUser(ctx, env)
		if err != nil {
			return nil, err
		}

		tabs := dashboard.Tabs(user.Role)
		if key := args.Parser.Flag("tab", "t"); key != "" {
			tabs, err = selectTab(tabs, key)
			if err != nil {
				return nil, err
			}
		}

		view, err := env.Loader.Load(ctx, *user)
		if err != nil {
			return nil, &CommandError{Command: "dashboard", Reason: requestMessage(err), Err: err}
		}

		data := dashboardData{View: view}
		if view.Err != nil {
			data.Error = view.Err.Error()
		}
		if args.JSON {
			return data, nil
		}

		if view.Sample {
			fmt.Fprintln(env.Err, RenderConditional(WarningStyle, "SAMPLE DATA")+
				DimStyle.Render(" backend unavailable: "+data.Error))
		}
		opts := dashboard.RenderOptions{Width: GetTerminalWidth(), Style: GlamourStyle()}
		for i, tab := range tabs {
			if i > 0 {
				fmt.Fprintln(env.Out)
			}
			fmt.Fprintln(env.Out, SectionStyle.Render(tab.Title))
			fmt.Fprintln(env.Out, RenderSeparator(len(tab.Title)))
			fmt.Fprintln(env.Out, dashboard.Render(view, tab.Key, opts))
		}
		return data, nil
	})
}

func selectTab(tabs []dashboard.Tab, key string) ([]dashboard.Tab, error) {
	key = strings.ToLower(key)
	keys := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.Key == key {
			return []dashboard.Tab{t}, nil
		}
		keys = append(keys, t.Key)
	}
	return nil, &UsageError{Message: fmt.Sprintf("unknown tab %q (have: %s)", key, strings.Join(keys, ", "))}
}

// requestMessage prefers the backend's message over the wrapped error text.
func requestMessage(err error) string {
	if msg, ok := api.MessageOf(err); ok {
		return msg
	}
	return err.Error()
}

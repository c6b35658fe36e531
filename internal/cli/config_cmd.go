// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/campus-tui/internal/config"
)

// HandleConfig handles "campus config [show|path|keys|get KEY|set KEY VALUE]".
// cfg is the effective config; set edits the file at path only.
func HandleConfig(w io.Writer, cfg *config.Config, path string, args Args) error {
	p := args.Parser
	sub := p.Subcommand()
	if sub == "" {
		sub = "show"
	}

	switch sub {
	case "show":
		if args.JSON {
			return NewJSONResponse("config", cfg).Write(w)
		}
		fmt.Fprintln(w, cfg.String())
		return nil

	case "path":
		if args.JSON {
			return NewJSONResponse("config path", map[string]string{
				"config":  path,
				"session": cfg.SessionPath(),
				"log":     cfg.LogPath(),
				"server":  cfg.ServerDBPath(),
			}).Write(w)
		}
		fmt.Fprintln(w, RenderField("Config", path))
		fmt.Fprintln(w, RenderField("Session", cfg.SessionPath()))
		fmt.Fprintln(w, RenderField("Log", cfg.LogPath()))
		fmt.Fprintln(w, RenderField("Server DB", cfg.ServerDBPath()))
		return nil

	case "keys":
		if args.JSON {
			return NewJSONResponse("config keys", map[string][]string{
				"keys": config.Keys(),
				"env":  config.EnvVars(),
			}).Write(w)
		}
		fmt.Fprintln(w, SectionStyle.Render("Keys"))
		for _, k := range config.Keys() {
			fmt.Fprintln(w, "  "+k)
		}
		fmt.Fprintln(w, SectionStyle.Render("Environment"))
		for _, e := range config.EnvVars() {
			fmt.Fprintln(w, "  "+e)
		}
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return &UsageError{Message: "config get needs a key, e.g. api.base_url"}
		}
		v, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		if args.JSON {
			return NewJSONResponse("config get", map[string]any{key: v}).Write(w)
		}
		fmt.Fprintln(w, v)
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.PositionalCount() < 3 {
			return &UsageError{Message: "config set needs a key and a value"}
		}
		file, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		if err := file.Set(key, value); err != nil {
			return &UsageError{Message: err.Error()}
		}
		if err := file.Validate(); err != nil {
			return err
		}
		if err := config.SaveTOML(file, path); err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config set", map[string]string{key: value}).Write(w)
		}
		if !args.Quiet {
			fmt.Fprintln(w, RenderConditional(SuccessStyle, "✓ ")+fmt.Sprintf("%s = %s", key, value))
			if overriding(key) {
				fmt.Fprintln(w, RenderConditional(WarningStyle, "An environment variable overrides this key."))
			}
		}
		return nil
	}
	return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q", sub)}
}

// overriding reports whether a set CAMPUS_* variable shadows key.
func overriding(key string) bool {
	for _, env := range config.EnvVars() {
		if v, ok := os.LookupEnv(env); ok && v != "" && config.EnvKey(env) == key {
			return true
		}
	}
	return false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/config"
	"github.com/jeranaias/campus-tui/internal/server"
)

// ServeOptions builds the backend options from cfg and --addr, --db,
// --rate-limit.
func ServeOptions(cfg *config.Config, args Args) (server.Options, error) {
	opts := server.Options{
		Addr:      args.Parser.FlagOrDefault("addr", cfg.Server.Addr),
		DBPath:    args.Parser.FlagOrDefault("db", cfg.ServerDBPath()),
		JWTSecret: cfg.Server.JWTSecret,
		RateLimit: cfg.Server.RateLimit,
	}
	if v := args.Parser.Flag("rate-limit"); v != "" {
		rl, err := strconv.ParseFloat(v, 64)
		if err != nil || rl < 0 {
			return opts, &UsageError{Message: "--rate-limit must be a non-negative number"}
		}
		opts.RateLimit = rl
	}
	return opts, nil
}

// HandleServe runs the development backend until ctx is cancelled.
func HandleServe(ctx context.Context, w io.Writer, cfg *config.Config, args Args, log *zap.Logger) error {
	opts, err := ServeOptions(cfg, args)
	if err != nil {
		return err
	}
	srv, err := server.New(opts, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	if !args.Quiet {
		fmt.Fprintln(w, TitleStyle.Render("campus dev backend "+server.Version))
		fmt.Fprintln(w, RenderField("API", "http://"+displayAddr(opts.Addr)+"/api"))
		fmt.Fprintln(w, RenderField("Metrics", "http://"+displayAddr(opts.Addr)+"/metrics"))
		fmt.Fprintln(w, RenderField("Database", opts.DBPath))
		fmt.Fprintln(w, DimStyle.Render("Ctrl+C to stop"))
	}
	return srv.ListenAndServe(ctx)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

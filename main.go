// campus - a terminal client for the campus management system.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/cli"
	"github.com/jeranaias/campus-tui/internal/config"
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/logging"
	"github.com/jeranaias/campus-tui/internal/router"
	"github.com/jeranaias/campus-tui/internal/session"
	"github.com/jeranaias/campus-tui/internal/ui/app"
	"github.com/jeranaias/campus-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// sessionDebounce coalesces the burst of events a session write produces.
const sessionDebounce = 150 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
	case cli.CmdVersion:
		exit(cmd, args, cli.HandleVersion(os.Stdout, args))
	case cli.CmdUnknown:
		exit(cmd, args, &cli.UsageError{Message: fmt.Sprintf("unknown command %q", args.Name)})
	case cli.CmdConfig:
		exit(cmd, args, runConfig(args))
	case cli.CmdServe:
		exit(cmd, args, runServe(args))
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			cli.PrintError(os.Stderr, err)
			os.Exit(cli.ExitCode(err))
		}
	default:
		exit(cmd, args, runClient(cmd, args))
	}
}

// exit reports err the way the output mode expects and exits with its code.
func exit(cmd cli.Command, args cli.Args, err error) {
	if err == nil {
		return
	}
	var reported *cli.ReportedError
	switch {
	case errors.As(err, &reported):
	case args.JSON:
		cli.NewJSONErrorResponse(cmd.String(), err).Write(os.Stdout)
	default:
		cli.PrintError(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConfig(args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	return cli.HandleConfig(os.Stdout, cfg, path, args)
}

func runServe(args cli.Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if args.Verbose {
		level = "debug"
	}
	log, err := logging.NewConsole(level, zap.String("version", Version))
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.HandleServe(ctx, os.Stdout, cfg, args, log)
}

func runClient(cmd cli.Command, args cli.Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.NewFile(cfg.LogPath(), cfg.Log.Level, zap.String("command", args.Name))
	if err != nil {
		return err
	}
	defer log.Sync()

	env, err := cli.NewEnv(cfg, args, log)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Run(ctx, cmd, env, args)
}

// runTUI starts the full-screen client.
func runTUI(args cli.Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.NewFile(cfg.LogPath(), cfg.Log.Level, zap.String("command", "tui"))
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := session.Open(session.Options{
		Backend:       cfg.Session.Backend,
		Path:          cfg.SessionPath(),
		RedisAddr:     cfg.Session.RedisAddr,
		RedisPassword: cfg.Session.RedisPassword,
		RedisProfile:  cfg.Session.RedisProfile,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}
	client := api.NewClient(baseURL, store).
		WithTimeout(cfg.API.Timeout()).
		WithLogger(log)

	var changes <-chan struct{}
	if strings.EqualFold(cfg.Session.Backend, session.BackendFile) || cfg.Session.Backend == "" {
		w, err := session.Watch(cfg.SessionPath(), sessionDebounce)
		if err != nil {
			log.Warn("session sync disabled", zap.Error(err))
		} else {
			defer w.Close()
			changes = w.Changes()
		}
	}

	m := app.New(app.Options{
		Provider:  auth.NewProvider(client, store, log),
		Store:     store,
		Loader:    dashboard.NewLoader(client, cfg.Dashboard.SampleFallback, log),
		Theme:     styles.NewTheme(cfg.UI.Theme),
		Guard:     router.New(),
		Changes:   changes,
		StartPath: args.Parser.Flag("path"),
		Timeout:   cfg.API.Timeout(),
		Log:       log,
	})
	defer m.Close()

	log.Info("starting tui", zap.String("api", baseURL), zap.String("session", cfg.Session.Backend))
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

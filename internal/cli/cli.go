// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdWhoami
	CmdDashboard
	CmdRoute
	CmdNotify
	CmdIssue
	CmdFeedback
	CmdAssign
	CmdUsers
	CmdServe
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

var canonicalNames = [...]string{
	CmdTUI:       "tui",
	CmdLogin:     "login",
	CmdSignup:    "signup",
	CmdLogout:    "logout",
	CmdWhoami:    "whoami",
	CmdDashboard: "dashboard",
	CmdRoute:     "route",
	CmdNotify:    "notify",
	CmdIssue:     "issue",
	CmdFeedback:  "feedback",
	CmdAssign:    "assign",
	CmdUsers:     "users",
	CmdServe:     "serve",
	CmdConfig:    "config",
	CmdVersion:   "version",
	CmdHelp:      "help",
	CmdUnknown:   "unknown",
}

// String returns the canonical command name, never an alias.
func (c Command) String() string {
	if c >= 0 && int(c) < len(canonicalNames) {
		return canonicalNames[c]
	}
	return "unknown"
}

var commandNames = map[string]Command{
	"tui":       CmdTUI,
	"login":     CmdLogin,
	"signup":    CmdSignup,
	"register":  CmdSignup,
	"logout":    CmdLogout,
	"whoami":    CmdWhoami,
	"me":        CmdWhoami,
	"dashboard": CmdDashboard,
	"dash":      CmdDashboard,
	"route":     CmdRoute,
	"notify":    CmdNotify,
	"issue":     CmdIssue,
	"feedback":  CmdFeedback,
	"assign":    CmdAssign,
	"users":     CmdUsers,
	"serve":     CmdServe,
	"server":    CmdServe,
	"config":    CmdConfig,
	"version":   CmdVersion,
	"--version": CmdVersion,
	"-V":        CmdVersion,
	"help":      CmdHelp,
	"--help":    CmdHelp,
	"-h":        CmdHelp,
}

// Args holds the parsed command line.
type Args struct {
	// Name is the command word as typed.
	Name string

	JSON    bool
	Quiet   bool
	Verbose bool

	// APIURL overrides api.base_url for this run.
	APIURL string

	// Parser holds the command's own flags and positionals.
	Parser *ArgParser
}

// Parse splits argv (without the program name) into a command and its
// arguments. Leading flags with no command start the TUI.
func Parse(argv []string) (Command, Args) {
	cmd := CmdTUI
	rest := argv
	var name string
	if len(argv) > 0 {
		c, known := commandNames[argv[0]]
		if known || !strings.HasPrefix(argv[0], "-") {
			name, rest = argv[0], argv[1:]
			if !known {
				c = CmdUnknown
			}
			cmd = c
		}
	}

	p := NewArgParser(rest)
	return cmd, Args{
		Name:    name,
		JSON:    p.BoolFlag("json"),
		Quiet:   p.BoolFlag("quiet", "q"),
		Verbose: p.BoolFlag("verbose", "v"),
		APIURL:  p.Flag("api"),
		Parser:  p,
	}
}

const usageText = `campus - terminal client for the campus management system

Usage:
  campus [--path P]                  Start the terminal UI (optionally at path P)
  campus login [-u USER] [-p PASS]   Log in and remember the session
  campus signup -u USER -p PASS [--role ROLE]
                                     Create an account (STUDENT, FACULTY or ADMIN)
  campus logout                      Forget the stored session
  campus whoami                      Show the logged-in user
  campus dashboard [--tab TAB]       Print your dashboard (all tabs by default)
  campus route PATH                  Show where the guard sends PATH
  campus notify --title T --message M [--target ROLE] [--edit ID]
                                     Publish or edit a notification (faculty, admin)
  campus notify --delete ID          Delete a notification (faculty, admin)
  campus issue BOOK_ID               Borrow a library book (student)
  campus feedback --title T --message M --rating 1-5 [--category C]
                                     Submit feedback (student)
  campus assign --title T --subject S --due DATE --max-marks N
                                     Create an assignment (faculty)
  campus users [delete ID]           List or delete accounts (admin)
  campus serve [--addr A] [--db F]   Run the development backend
  campus config [show|path|keys|get KEY|set KEY VALUE]
                                     Inspect or change ~/.campus/config.toml
  campus version                     Show version information
  campus help                        Show this help

Global flags:
  --json          Machine-readable output
  --api URL       Backend base URL for this run (default from config)
  -q, --quiet     Less output
  -v, --verbose   Debug logging

Examples:
  campus signup -u alice -p s3cret-pass --role student
  campus login -u alice
  campus dashboard --tab marks
  campus route /admin --json
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// VersionInfo is the version command's data.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// HandleVersion prints version information.
func HandleVersion(w io.Writer, args Args) error {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		return NewJSONResponse("version", info).Write(w)
	}
	fmt.Fprintf(w, "campus %s\n", info.Version)
	if !args.Quiet {
		fmt.Fprintln(w, RenderField("Commit", info.GitCommit))
		fmt.Fprintln(w, RenderField("Built", info.BuildDate))
		fmt.Fprintln(w, RenderField("Go", info.GoVersion))
		fmt.Fprintln(w, RenderField("Platform", info.Platform))
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "short flag with value",
			args:    []string{"-u", "alice", "-p", "secret"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.Flag("username", "u"); got != "alice" {
					t.Errorf("Flag(username, u) = %q, want %q", got, "alice")
				}
				if got := p.Flag("password", "p"); got != "secret" {
					t.Errorf("Flag(password, p) = %q, want %q", got, "secret")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"--role=faculty"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.Flag("role"); got != "faculty" {
					t.Errorf("Flag(role) = %q, want %q", got, "faculty")
				}
			},
		},
		{
			name:    "boolean flag does not swallow positional",
			args:    []string{"--json", "/admin"},
			wantSub: "/admin",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "explicit boolean value",
			args:    []string{"--json=false", "whoami"},
			wantSub: "whoami",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
				if !p.HasFlag("json") {
					t.Error("HasFlag(json) should be true")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"--title", "Exam", "--", "-message", "text"},
			wantSub: "-message",
			validate: func(t *testing.T, p *ArgParser) {
				if joined := strings.Join(p.PositionalFrom(0), " "); joined != "-message text" {
					t.Errorf("PositionalFrom(0) = %q, want %q", joined, "-message text")
				}
			},
		},
		{
			name:    "trailing value flag becomes boolean",
			args:    []string{"--tab"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("tab") != "" {
					t.Errorf("Flag(tab) = %q, want empty", p.Flag("tab"))
				}
				if !p.HasFlag("tab") {
					t.Error("HasFlag(tab) should be true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	p := NewArgParser([]string{"--limit", "25", "--bad", "x"})

	if n, err := p.FlagInt("limit", 10); err != nil || n != 25 {
		t.Errorf("FlagInt(limit) = %d, %v; want 25, nil", n, err)
	}
	if n, err := p.FlagInt("missing", 10); err != nil || n != 10 {
		t.Errorf("FlagInt(missing) = %d, %v; want 10, nil", n, err)
	}
	if _, err := p.FlagInt("bad", 10); err == nil {
		t.Error("FlagInt(bad) should fail")
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" || p.PositionalCount() != 0 || p.PositionalFrom(0) != nil {
		t.Error("empty parser should have no positionals")
	}
	if p.Flag("anything") != "" || p.BoolFlag("anything") {
		t.Error("empty parser should have no flags")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in, "book id")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v; want %d, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no args starts the TUI",
			argv:        nil,
			wantCommand: CmdTUI,
		},
		{
			name:        "leading flag starts the TUI",
			argv:        []string{"--path", "/admin"},
			wantCommand: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if a.Parser.Flag("path") != "/admin" {
					t.Errorf("path = %q, want /admin", a.Parser.Flag("path"))
				}
			},
		},
		{
			name:        "login with flags",
			argv:        []string{"login", "-u", "alice", "--json"},
			wantCommand: CmdLogin,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be true")
				}
				if a.Parser.Flag("u") != "alice" {
					t.Errorf("u = %q, want alice", a.Parser.Flag("u"))
				}
			},
		},
		{
			name:        "alias",
			argv:        []string{"register"},
			wantCommand: CmdSignup,
		},
		{
			name:        "api override",
			argv:        []string{"whoami", "--api", "http://example.test/api", "-q"},
			wantCommand: CmdWhoami,
			validate: func(t *testing.T, a Args) {
				if a.APIURL != "http://example.test/api" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
			},
		},
		{
			name:        "help flag",
			argv:        []string{"--help"},
			wantCommand: CmdHelp,
		},
		{
			name:        "version flag",
			argv:        []string{"-V"},
			wantCommand: CmdVersion,
		},
		{
			name:        "unknown command",
			argv:        []string{"enroll"},
			wantCommand: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if a.Name != "enroll" {
					t.Errorf("Name = %q, want enroll", a.Name)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			if cmd != tt.wantCommand {
				t.Errorf("command = %v, want %v", cmd, tt.wantCommand)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// OUTPUT TESTS (terminal.go, styles.go)
// =============================================================================

func TestRenderConditional_WithoutColors(t *testing.T) {
	prev := ColorsEnabled()
	ForceColorsEnabled(false)
	defer ForceColorsEnabled(prev)

	if got := RenderConditional(SuccessStyle, "✓ "); got != "✓ " {
		t.Errorf("RenderConditional = %q, want plain text", got)
	}
	if got := GetColorProfile(); got != termenv.Ascii {
		t.Errorf("GetColorProfile = %v, want Ascii", got)
	}
	if got := GlamourStyle(); got != "notty" {
		t.Errorf("GlamourStyle = %q, want notty", got)
	}
}

func BenchmarkArgParser(b *testing.B) {
	args := []string{"notify", "--title", "Exam", "--message", "Room 4", "--target", "STUDENT", "--json"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// boolFlags never take a value, so "--json /student" keeps /student
// positional.
var boolFlags = map[string]bool{
	"json":    true,
	"quiet":   true,
	"q":       true,
	"verbose": true,
	"v":       true,
	"help":    true,
	"h":       true,
	"plain":   true,
}

// ArgParser splits command arguments into flags and positionals.
//
// Supported flag formats:
//
//	--flag value     long flag with a separate value
//	--flag=value     long flag with equals sign
//	-f value         short flag with a separate value
//	--json           boolean flag (see boolFlags)
//
// Everything after a bare "--" is positional.
type ArgParser struct {
	flags      map[string]string
	bools      map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags: make(map[string]string),
		bools: make(map[string]bool),
		raw:   raw,
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if key, value, ok := strings.Cut(name, "="); ok {
			if b, err := strconv.ParseBool(value); err == nil && boolFlags[key] {
				p.bools[key] = b
			} else {
				p.flags[key] = value
			}
			continue
		}

		if !boolFlags[name] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.bools[name] = true
	}
	return p
}

// Flag returns the first non-empty value among names.
//
//	args.Flag("username", "u") // --username alice or -u alice
func (p *ArgParser) Flag(names ...string) string {
	for _, name := range names {
		if v := p.flags[strings.TrimLeft(name, "-")]; v != "" {
			return v
		}
	}
	return ""
}

// FlagOrDefault returns the flag value or def.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// FlagInt parses a flag as an int. A missing flag returns def.
func (p *ArgParser) FlagInt(name string, def int) (int, error) {
	v := p.Flag(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &UsageError{Message: "--" + name + " must be an integer"}
	}
	return n, nil
}

// BoolFlag reports whether any of names was given.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if p.bools[strings.TrimLeft(name, "-")] {
			return true
		}
	}
	return false
}

// HasFlag reports whether name was given in either form.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, s := p.flags[name]
	_, b := p.bools[name]
	return s || b
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns positionals from index on.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return nil
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positionals.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the unparsed arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// ParseID parses a positive numeric id argument.
func ParseID(s, field string) (int64, error) {
	if s == "" {
		return 0, &UsageError{Message: field + " is required"}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &UsageError{Message: field + " must be a positive integer, got " + strconv.Quote(s)}
	}
	return id, nil
}

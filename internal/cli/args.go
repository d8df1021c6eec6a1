// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Lightweight argument parser for subcommands.
//
// Handles the common patterns without pulling in a flag framework:
//   --flag value
//   --flag=value
//   --flag            (boolean)
//   positional args

package cli

import (
	"strconv"
	"strings"
)

// ArgParser parses subcommand arguments.
type ArgParser struct {
	flags      map[string]string
	positional []string
}

// NewArgParser parses the given argument list.
func NewArgParser(args []string) *ArgParser {
	p := &ArgParser{
		flags: make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "--") {
			name := strings.TrimPrefix(arg, "--")

			// --flag=value form
			if idx := strings.Index(name, "="); idx >= 0 {
				p.flags[name[:idx]] = name[idx+1:]
				continue
			}

			// --flag value form, unless the next arg is another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				p.flags[name] = args[i+1]
				i++
				continue
			}

			// Boolean flag
			p.flags[name] = "true"
			continue
		}

		p.positional = append(p.positional, arg)
	}

	return p
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of a flag, or "" if not set.
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagOrDefault returns the flag value, or def when the flag is absent.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return def
}

// FlagInt returns the flag value as an int, or def when absent or invalid.
func (p *ArgParser) FlagInt(name string, def int) int {
	v, ok := p.flags[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// BoolFlag reports whether a boolean flag is set.
func (p *ArgParser) BoolFlag(name string) bool {
	v, ok := p.flags[name]
	return ok && v != "false"
}

// HasFlag reports whether the flag was present at all.
func (p *ArgParser) HasFlag(name string) bool {
	_, ok := p.flags[name]
	return ok
}

// Positional returns the positional argument at index i, or "".
func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns all positional arguments from index i on.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i < 0 || i >= len(p.positional) {
		return nil
	}
	return p.positional[i:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

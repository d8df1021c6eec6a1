// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
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
			name:    "subcommand with flag",
			args:    []string{"show", "--limit", "50"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("limit") != "50" {
					t.Errorf("Flag(limit) = %q, want %q", p.Flag("limit"), "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"show", "--format=csv"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "csv" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "csv")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"show", "--json"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"submit", "algebra=70", "geometry=85.5"},
			wantSub: "submit",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 3 {
					t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "algebra=70 geometry=85.5" {
					t.Errorf("PositionalFrom(1) joined = %q", joined)
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"submit", "--mode", "rule", "algebra=70"},
			wantSub: "submit",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("mode") != "rule" {
					t.Errorf("Flag(mode) = %q, want %q", p.Flag("mode"), "rule")
				}
				if p.Positional(1) != "algebra=70" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
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
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "present", args: []string{"history", "--limit", "10"}, want: 10},
		{name: "absent", args: []string{"history"}, want: 5},
		{name: "invalid", args: []string{"history", "--limit", "abc"}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if got := parser.FlagInt("limit", 5); got != tt.want {
				t.Errorf("FlagInt(limit, 5) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArgParser_OutOfRangePositional(t *testing.T) {
	parser := NewArgParser([]string{"show"})
	if parser.Positional(5) != "" {
		t.Error("out-of-range Positional should return empty string")
	}
	if parser.PositionalFrom(5) != nil {
		t.Error("out-of-range PositionalFrom should return nil")
	}
}

// =============================================================================
// COMMAND ROUTING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		args []string
		want Command
	}{
		{args: nil, want: CmdTUI},
		{args: []string{"tui"}, want: CmdTUI},
		{args: []string{"login"}, want: CmdLogin},
		{args: []string{"register"}, want: CmdRegister},
		{args: []string{"signup"}, want: CmdRegister},
		{args: []string{"logout"}, want: CmdLogout},
		{args: []string{"whoami"}, want: CmdWhoami},
		{args: []string{"submit", "algebra=70"}, want: CmdSubmit},
		{args: []string{"assess"}, want: CmdSubmit},
		{args: []string{"history"}, want: CmdHistory},
		{args: []string{"h"}, want: CmdHistory},
		{args: []string{"progress"}, want: CmdProgress},
		{args: []string{"export"}, want: CmdExport},
		{args: []string{"config", "show"}, want: CmdConfig},
		{args: []string{"version"}, want: CmdVersion},
		{args: []string{"help"}, want: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, _ := ParseArgs(tt.args)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, cmd, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--server", "http://example.test:5000", "--json", "history"})
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Server != "http://example.test:5000" {
		t.Errorf("Server = %q", args.Server)
	}
	if !args.JSON {
		t.Error("JSON should be set")
	}

	// --server=URL form and flags after the command.
	cmd, args = ParseArgs([]string{"history", "--server=http://other:5000", "-q"})
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Server != "http://other:5000" {
		t.Errorf("Server = %q", args.Server)
	}
	if !args.Quiet {
		t.Error("Quiet should be set")
	}
}

func TestParseArgs_ConfigSubcommand(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "ui.theme", "light"})
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "set")
	}
	if len(args.Raw) != 3 {
		t.Errorf("Raw = %v", args.Raw)
	}
}

// =============================================================================
// SUBMIT PAIR PARSING (submit_cmd.go)
// =============================================================================

func TestParsePairs(t *testing.T) {
	topics, scores, err := parsePairs([]string{"algebra=70", "Geometry =85.5"})
	if err != nil {
		t.Fatalf("parsePairs: %v", err)
	}
	if len(topics) != 2 || len(scores) != 2 {
		t.Fatalf("got %d topics, %d scores", len(topics), len(scores))
	}
	if topics[0] != "algebra" {
		t.Errorf("topics[0] = %q", topics[0])
	}
	// Topic names are trimmed during normalization.
	if topics[1] != "Geometry" {
		t.Errorf("topics[1] = %q", topics[1])
	}
	if scores[1] != 85.5 {
		t.Errorf("scores[1] = %v", scores[1])
	}
}

func TestParsePairs_Invalid(t *testing.T) {
	cases := [][]string{
		{"algebra"},      // no score
		{"=70"},          // no topic
		{"algebra=abc"},  // non-numeric score
		{"algebra=150"},  // out of range
		{"algebra=-0.5"}, // negative
	}
	for _, args := range cases {
		if _, _, err := parsePairs(args); err == nil {
			t.Errorf("parsePairs(%v) should fail", args)
		}
	}
}

// =============================================================================
// TERMINAL HELPERS (terminal.go)
// =============================================================================

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "no wrap needed", text: "short", width: 40, want: "short"},
		{name: "wraps at word boundary", text: "one two three four", width: 9, want: "one two\nthree\nfour"},
		{name: "zero width passthrough", text: "anything", width: 0, want: "anything"},
		{name: "preserves blank lines", text: "a\n\nb", width: 10, want: "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapText(tt.text, tt.width); got != tt.want {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestTTYRequiredError(t *testing.T) {
	err := &TTYRequiredError{Command: "login"}
	if !strings.Contains(err.Error(), "login") {
		t.Errorf("error should name the command: %v", err)
	}
}

func TestParseFlagLists(t *testing.T) {
	topics, scores, err := parseFlagLists("algebra,geometry", "70,85.5")
	if err != nil {
		t.Fatalf("parseFlagLists: %v", err)
	}
	if len(topics) != 2 || topics[1] != "geometry" || scores[1] != 85.5 {
		t.Errorf("got %v %v", topics, scores)
	}

	// Mismatched lengths and bad values fail.
	if _, _, err := parseFlagLists("algebra,geometry", "70"); err == nil {
		t.Error("mismatched list lengths should fail")
	}
	if _, _, err := parseFlagLists("algebra", ""); err == nil {
		t.Error("missing --scores should fail")
	}
	if _, _, err := parseFlagLists("algebra", "120"); err == nil {
		t.Error("out-of-range score should fail")
	}
}

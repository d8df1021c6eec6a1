// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command routing for skillmap.
//
// Running skillmap with no arguments launches the TUI; everything else
// dispatches to a one-shot command handler in this package.

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (set at build time).
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies which command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdSubmit
	CmdHistory
	CmdProgress
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed command-line arguments.
type Args struct {
	// Global flags
	Server string // --server URL override
	JSON   bool   // --json machine-readable output
	Quiet  bool   // --quiet minimal output

	// Subcommand within a command group (e.g. "set" in "config set")
	Subcommand string

	// Raw arguments after the command name, for per-command parsing
	Raw []string
}

const usageText = `skillmap - learning self-assessment client

Usage:
  skillmap [command] [flags]

Commands:
  (none)                        Start the TUI interface
  skillmap login [username]     Log in and store the session
  skillmap register [username]  Create a new account
  skillmap logout               Log out and clear the stored session
  skillmap whoami               Show the logged-in user
    --json                      Output in JSON format

  skillmap submit [topic=score ...]
                                Submit a self-assessment
    --topics a,b --scores 70,85 Alternative list form
    --mode ai|rule              Feedback mode (default: ai)
    --json                      Output feedback as JSON
    With no topic=score pairs, prompts interactively.

  skillmap history              Show submission history
    --limit N                   Show at most N entries
    --json                      Output in JSON format
  skillmap progress             Show the score trend over time
    --json                      Output in JSON format

  skillmap export               Export history to a file
    --format csv|json|md        Export format (default: csv)
    --output DIR                Output directory (default: from config)

  skillmap config show          Show current configuration
  skillmap config get <key>     Get a configuration value
  skillmap config set <key> <value>
                                Set and save a configuration value
  skillmap config path          Show the config file path

  skillmap version              Show version information
  skillmap help                 Show this help

Global Flags:
  --server URL    Override the backend server URL
  --json          Output in JSON format
  -q, --quiet     Minimal output

Examples:
  skillmap                              Start TUI interface
  skillmap login alice                  Log in as alice
  skillmap submit algebra=70 geometry=85.5
  skillmap submit --mode rule           Interactive submit, rule-based feedback
  skillmap history --limit 10
  skillmap export --format csv --output ./reports
  skillmap config set server.base_url http://localhost:5000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("skillmap version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse for tests.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login":
		return CmdLogin, parsed

	case "register", "signup":
		return CmdRegister, parsed

	case "logout":
		return CmdLogout, parsed

	case "whoami", "who":
		return CmdWhoami, parsed

	case "submit", "assess":
		return CmdSubmit, parsed

	case "history", "h":
		return CmdHistory, parsed

	case "progress", "trend":
		return CmdProgress, parsed

	case "export":
		return CmdExport, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdConfig, parsed

	case "version", "--version", "-v":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprintf(os.Stderr, "Run 'skillmap help' for usage.\n")
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--server":
			if i+1 < len(args) {
				parsed.Server = args[i+1]
				i++
			}
		case "--json":
			parsed.JSON = true
		case "-q", "--quiet":
			parsed.Quiet = true
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsed.Server = strings.TrimPrefix(arg, "--server=")
				continue
			}
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed
}

// skillmap TUI - terminal client for the learning self-assessment tool.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/cli"
	"github.com/jeranaias/skillmap-tui/internal/config"
	"github.com/jeranaias/skillmap-tui/internal/session"
	"github.com/jeranaias/skillmap-tui/internal/storage"
	"github.com/jeranaias/skillmap-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so the forced-logout hook can message the UI
// from the HTTP client's goroutine.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args))
	case cli.CmdRegister:
		exitOnError(cli.HandleRegister(args))
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args))
	case cli.CmdWhoami:
		exitOnError(cli.HandleWhoami(args))
	case cli.CmdSubmit:
		exitOnError(cli.HandleSubmit(args))
	case cli.CmdHistory:
		exitOnError(cli.HandleHistory(args))
	case cli.CmdProgress:
		exitOnError(cli.HandleProgress(args))
	case cli.CmdExport:
		exitOnError(cli.HandleExport(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args) {
	cfg := config.Global()
	if args.Server != "" {
		cfg = cfg.Clone()
		cfg.Server.BaseURL = args.Server
	}

	// Keep the log package quiet on screen; bubbletea owns the terminal.
	logFile := setupLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSecs)*time.Second)

	sessionDir, err := session.DefaultDir()
	if err != nil {
		sessionDir = ""
	}
	store := session.NewStore(sessionDir)
	sessions := session.NewManager(store, client)

	// A 401 on any request tears the session down; tell the UI about it
	// from here so the app package never needs the program handle. User
	// initiated logouts run the same hooks but have nothing to announce.
	sessions.RegisterResetHook(func() {
		if !sessions.ConsumeExpired() {
			return
		}
		programMu.Lock()
		p := programRef
		programMu.Unlock()
		if p != nil {
			p.Send(app.SessionExpiredMsg{})
		}
	})

	var cache *storage.Cache
	if cfg.Cache.Enabled {
		if path, err := storage.DefaultPath(); err == nil {
			if c, err := storage.Open(path, cfg.Cache.MaxEntries); err == nil {
				cache = c
				defer cache.Close()
			} else {
				log.Printf("history cache unavailable: %v", err)
			}
		}
	}

	// Reload the global config when the file changes on disk.
	if watcher, err := config.NewWatcher(2*time.Second, func(*config.Config) {
		log.Printf("configuration reloaded")
	}); err == nil {
		if werr := watcher.Watch(); werr == nil {
			defer watcher.Close()
		}
	}

	model := app.New(client, sessions, cache, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging redirects the standard logger to a file under the config
// directory. Falls back to discarding output when the directory is not
// writable.
func setupLogging() *os.File {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(dir+string(os.PathSeparator)+"skillmap.log",
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	log.SetOutput(f)
	return f
}

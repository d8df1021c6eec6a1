// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout and whoami commands.
//
// Command: login
// Short:   Log in and store the session token
//
// Examples:
//   skillmap login                Prompt for username and password
//   skillmap login alice          Prompt for alice's password
//
// The session token is encrypted and stored under the config directory;
// later commands and the TUI reuse it until it expires or 'skillmap
// logout' is run.

package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/skillmap-tui/internal/session"
)

// HandleLogin authenticates against the backend and stores the session.
func HandleLogin(args Args) error {
	parser := NewArgParser(args.Raw)

	username := strings.TrimSpace(parser.Positional(0))
	if username == "" {
		if err := RequiresTTY("login"); err != nil {
			return err
		}
		var err error
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if err := RequiresTTY("login"); err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	mgr.Login(resp.SessionToken, resp.Username)

	if !args.Quiet {
		fmt.Printf("Logged in as %s\n", resp.Username)
	}
	return nil
}

// HandleRegister creates a new account. The user still logs in afterwards.
func HandleRegister(args Args) error {
	parser := NewArgParser(args.Raw)

	if err := RequiresTTY("register"); err != nil {
		return err
	}

	username := strings.TrimSpace(parser.Positional(0))
	if username == "" {
		var err error
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	if utf8.RuneCountInString(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < 4 {
		return fmt.Errorf("password must be at least 4 characters")
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	cfg := loadConfig(args)
	client := newClient(cfg)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	resp, err := client.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	msg := resp.Message
	if msg == "" {
		msg = "Account created."
	}
	fmt.Println(msg)
	fmt.Println("Run 'skillmap login' to log in.")
	return nil
}

// HandleLogout tears the session down locally and notifies the backend.
func HandleLogout(args Args) error {
	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	state := mgr.Startup(ctx)
	mgr.Logout(ctx)

	if !args.Quiet {
		if state == session.StateAuthenticated {
			fmt.Println("Logged out.")
		} else {
			fmt.Println("No active session.")
		}
	}
	return nil
}

// HandleWhoami shows the logged-in user as the backend sees them.
func HandleWhoami(args Args) error {
	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := requireLogin(ctx, mgr); err != nil {
		if args.JSON {
			return NewJSONErrorResponse("whoami", err).Print()
		}
		return err
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		if args.JSON {
			return NewJSONErrorResponse("whoami", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("whoami", map[string]interface{}{
			"username": profile.Username,
			"user_id":  profile.UserID,
			"server":   cfg.Server.BaseURL,
		}).Print()
	}

	fmt.Println(titleStyle.Render("skillmap"))
	printField("User", profile.Username)
	printField("Server", cfg.Server.BaseURL)
	return nil
}

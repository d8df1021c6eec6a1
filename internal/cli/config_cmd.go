// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
//
// Command: config
// Subcommands: show, get, set, path
//
// Examples:
//   skillmap config show
//   skillmap config get server.base_url
//   skillmap config set server.base_url http://localhost:5000
//   skillmap config set ui.theme light
//   skillmap config path

package cli

import (
	"fmt"

	"github.com/jeranaias/skillmap-tui/internal/config"
)

// HandleConfig dispatches config subcommands.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show", "list":
		return configShow(args)
	case "get":
		return configGet(args, parser.Positional(1))
	case "set":
		return configSet(parser.Positional(1), parser.Positional(2))
	case "path":
		return configPath()
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, get, set or path)", parser.Subcommand())
	}
}

func configShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	fmt.Println(titleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s = %v\n", labelStyle.Width(0).Render(key), value)
	}
	return nil
}

func configGet(args Args, key string) error {
	if key == "" {
		return fmt.Errorf("usage: skillmap config get <key>")
	}

	value, err := config.Global().Get(key)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{key: value}).Print()
	}
	fmt.Printf("%v\n", value)
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: skillmap config set <key> <value>")
	}

	cfg := config.Global().Clone()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	config.SetGlobal(cfg)

	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func configPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

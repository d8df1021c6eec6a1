// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Export submission history to a file.
//
// Command: export
//
// Examples:
//   skillmap export                           CSV to the configured directory
//   skillmap export --format md               Markdown export
//   skillmap export --format json --output ./reports
//
// CSV exports prefer the server's own export so the file matches what
// the web client produces; other formats, and CSV when the server is
// unreachable, are built from the submission list locally.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/skillmap-tui/internal/export"
)

// HandleExport writes the history export and prints the file path.
func HandleExport(args Args) error {
	parser := NewArgParser(args.Raw)

	format := strings.ToLower(parser.FlagOrDefault("format", "csv"))
	var exporter export.Exporter
	switch format {
	case "csv":
		exporter = export.NewCSVExporter()
	case "json":
		exporter = export.NewJSONExporter()
	case "md", "markdown":
		exporter = export.NewMarkdownExporter()
	default:
		return fmt.Errorf("invalid --format %q (want csv, json or md)", format)
	}

	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	opts := &export.Options{OutputDir: cfg.Export.OutputDir}
	if dir := parser.Flag("output"); dir != "" {
		opts.OutputDir = dir
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := requireLogin(ctx, mgr); err != nil {
		return err
	}
	username := mgr.Username()

	// CSV goes through the server's own exporter when reachable.
	if format == "csv" {
		data, err := client.ExportCSV(ctx)
		if err == nil {
			path, werr := export.WriteRaw(username, data, ".csv", opts)
			if werr != nil {
				return werr
			}
			return reportExport(args, path)
		}
		if !offlineFallback(err) {
			return err
		}
	}

	subs, err := client.History(ctx)
	if err != nil {
		if !offlineFallback(err) {
			return err
		}
		cache := openCache(cfg)
		if cache == nil {
			return fmt.Errorf("server unreachable and no cached history")
		}
		defer cache.Close()
		subs, err = cache.List(username)
		if err != nil || len(subs) == 0 {
			return fmt.Errorf("server unreachable and no cached history")
		}
		fmt.Println(valueYellowStyle.Render("[offline] exporting cached history"))
	}

	path, err := export.ExportToFile(username, subs, exporter, opts)
	if err != nil {
		return err
	}
	return reportExport(args, path)
}

func reportExport(args Args, path string) error {
	if args.JSON {
		return NewJSONResponse("export", map[string]string{"path": path}).Print()
	}
	if !args.Quiet {
		fmt.Printf("Exported to %s\n", path)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// progress_cmd.go - Show the summary-score trend over time.
//
// Command: progress
// Aliases: trend
//
// Examples:
//   skillmap progress             Sparkline plus first/last/best values
//   skillmap progress --json      Raw progress points as JSON

package cli

import (
	"fmt"

	"github.com/jeranaias/skillmap-tui/internal/ui/components"
)

// HandleProgress prints the progress trend.
func HandleProgress(args Args) error {
	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := requireLogin(ctx, mgr); err != nil {
		if args.JSON {
			return NewJSONErrorResponse("progress", err).Print()
		}
		return err
	}

	points, err := client.Progress(ctx)
	if err != nil {
		if args.JSON {
			return NewJSONErrorResponse("progress", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("progress", points).Print()
	}

	fmt.Println(titleStyle.Render("Progress"))
	fmt.Println(components.RenderProgressTrend(points, GetTerminalWidth()))
	if stats := components.RenderProgressStats(points); stats != "" {
		fmt.Println(stats)
	}

	// Per-topic breakdown over every topic seen, latest score each.
	if topics, scores := components.TopicLatest(points); len(topics) > 0 {
		fmt.Println()
		fmt.Println(valueStyle.Render("Topics:"))
		fmt.Println(components.RenderScoreChart(topics, scores, GetTerminalWidth()))
	}
	return nil
}

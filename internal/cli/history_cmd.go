// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Show submission history.
//
// Command: history
// Aliases: h
//
// Examples:
//   skillmap history              Show all submissions
//   skillmap history --limit 10   Show the 10 most recent
//   skillmap history --json       Output in JSON format
//
// When the server is unreachable the locally cached history is shown
// instead, marked as offline.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// HandleHistory prints the submission history.
func HandleHistory(args Args) error {
	parser := NewArgParser(args.Raw)
	limit := parser.FlagInt("limit", 0)

	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := requireLogin(ctx, mgr); err != nil {
		if args.JSON {
			return NewJSONErrorResponse("history", err).Print()
		}
		return err
	}

	subs, err := client.History(ctx)
	fromCache := false
	if err != nil {
		if !offlineFallback(err) {
			if args.JSON {
				return NewJSONErrorResponse("history", err).Print()
			}
			return err
		}
		cache := openCache(cfg)
		if cache == nil {
			return err
		}
		defer cache.Close()
		subs, err = cache.List(mgr.Username())
		if err != nil || len(subs) == 0 {
			return fmt.Errorf("server unreachable and no cached history")
		}
		fromCache = true
	} else if cache := openCache(cfg); cache != nil {
		// Keep the offline copy fresh while we have live data.
		defer cache.Close()
		_ = cache.Replace(mgr.Username(), subs)
	}

	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}

	if args.JSON {
		return NewJSONResponse("history", map[string]interface{}{
			"submissions": subs,
			"from_cache":  fromCache,
		}).Print()
	}

	if len(subs) == 0 {
		fmt.Println("No submissions yet.")
		return nil
	}

	fmt.Println(titleStyle.Render("Submission History"))
	if fromCache {
		fmt.Println(valueYellowStyle.Render("[offline] showing cached history"))
		fmt.Println()
	}

	for _, sub := range subs {
		band := api.BandForScore(sub.SummaryScore)
		fmt.Printf("%s  %s  %s\n",
			valueDimStyle.Render(util.TruncateRunes(sub.Timestamp, 19)),
			scoreStyle(sub.SummaryScore).Render(util.FloatToString(sub.SummaryScore)+" ("+band.Label()+")"),
			valueStyle.Render(strings.Join(sub.Topics, ", ")))
	}

	if !args.Quiet {
		fmt.Println()
		fmt.Printf("%d submission(s)\n", len(subs))
	}
	return nil
}

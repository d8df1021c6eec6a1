// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// submit_cmd.go - Submit a self-assessment from the command line.
//
// Command: submit
// Aliases: assess
//
// Examples:
//   skillmap submit algebra=70 geometry=85.5    Submit two topics
//   skillmap submit --topics algebra,geometry --scores 70,85.5
//   skillmap submit --mode rule                 Interactive, rule-based feedback
//   skillmap submit calculus=40 --json          Feedback as JSON
//
// With no topics on the command line, an interactive prompt collects
// them until a blank line.

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// HandleSubmit submits topic/score pairs and prints the feedback.
func HandleSubmit(args Args) error {
	parser := NewArgParser(args.Raw)

	mode := strings.ToLower(parser.FlagOrDefault("mode", "ai"))
	if mode != "ai" && mode != "rule" {
		return fmt.Errorf("invalid --mode %q (want ai or rule)", mode)
	}

	topics, scores, err := parsePairs(parser.PositionalFrom(0))
	if err != nil {
		return err
	}

	if len(topics) == 0 && parser.HasFlag("topics") {
		topics, scores, err = parseFlagLists(parser.Flag("topics"), parser.Flag("scores"))
		if err != nil {
			return err
		}
	}

	if len(topics) == 0 {
		if err := RequiresTTY("submit"); err != nil {
			return err
		}
		topics, scores, err = promptPairs()
		if err != nil {
			return err
		}
	}
	if len(topics) == 0 {
		return fmt.Errorf("nothing to submit")
	}

	cfg := loadConfig(args)
	client := newClient(cfg)
	mgr := newSessionManager(client)

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := requireLogin(ctx, mgr); err != nil {
		return err
	}

	resp, err := client.SubmitFeedback(ctx, api.FeedbackRequest{
		Topics:       topics,
		Scores:       scores,
		FeedbackMode: mode,
	})
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	if args.JSON {
		return NewJSONResponse("submit", resp).Print()
	}

	printFeedback(resp)
	return nil
}

// parsePairs parses "topic=score" arguments.
func parsePairs(pairs []string) ([]string, []float64, error) {
	var topics []string
	var scores []float64

	for _, pair := range pairs {
		idx := strings.LastIndex(pair, "=")
		if idx <= 0 {
			return nil, nil, fmt.Errorf("invalid argument %q (want topic=score)", pair)
		}

		topic := api.NormalizeTopic(pair[:idx])
		if topic == "" {
			return nil, nil, fmt.Errorf("empty topic in %q", pair)
		}

		score, err := strconv.ParseFloat(pair[idx+1:], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid score in %q", pair)
		}
		if score < 0 || score > 100 {
			return nil, nil, fmt.Errorf("score in %q out of range 0-100", pair)
		}

		topics = append(topics, topic)
		scores = append(scores, score)
	}

	return topics, scores, nil
}

// parseFlagLists parses the --topics and --scores comma-separated lists.
func parseFlagLists(topicsCSV, scoresCSV string) ([]string, []float64, error) {
	rawTopics := strings.Split(topicsCSV, ",")
	rawScores := strings.Split(scoresCSV, ",")
	if scoresCSV == "" || len(rawTopics) != len(rawScores) {
		return nil, nil, fmt.Errorf("--topics and --scores must have the same number of entries")
	}

	topics := make([]string, 0, len(rawTopics))
	scores := make([]float64, 0, len(rawScores))
	for i := range rawTopics {
		topic := api.NormalizeTopic(rawTopics[i])
		if topic == "" {
			return nil, nil, fmt.Errorf("empty topic at position %d", i+1)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rawScores[i]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid score %q", rawScores[i])
		}
		if score < 0 || score > 100 {
			return nil, nil, fmt.Errorf("score %q out of range 0-100", rawScores[i])
		}
		topics = append(topics, topic)
		scores = append(scores, score)
	}
	return topics, scores, nil
}

// promptPairs collects topic/score pairs interactively until a blank topic.
func promptPairs() ([]string, []float64, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("Enter topics and scores. Blank topic finishes.")

	var topics []string
	var scores []float64

	for {
		topic, err := line.Prompt("Topic: ")
		if err == liner.ErrPromptAborted {
			return nil, nil, fmt.Errorf("cancelled")
		}
		if err != nil {
			break
		}
		topic = api.NormalizeTopic(topic)
		if topic == "" {
			break
		}

		raw, err := line.Prompt("Score (0-100): ")
		if err == liner.ErrPromptAborted {
			return nil, nil, fmt.Errorf("cancelled")
		}
		if err != nil {
			break
		}
		score, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if perr != nil || score < 0 || score > 100 {
			fmt.Println("  score must be a number between 0 and 100")
			continue
		}

		topics = append(topics, topic)
		scores = append(scores, score)
		line.AppendHistory(topic)
	}

	return topics, scores, nil
}

// printFeedback renders the feedback response for the terminal.
func printFeedback(resp *api.FeedbackResponse) {
	band := api.BandForScore(resp.SummaryScore)
	score := util.FloatToString(resp.SummaryScore)

	fmt.Println(titleStyle.Render("Feedback"))
	fmt.Println(labelStyle.Render("Score") + " " +
		scoreStyle(resp.SummaryScore).Render(score+" ("+band.Label()+")"))
	fmt.Println()

	fmt.Println(renderMarkdown(resp.Feedback))

	if len(resp.Resources) > 0 {
		fmt.Println(valueStyle.Render("Suggested resources:"))
		for _, res := range resp.Resources {
			fmt.Println("  - " + res.Title)
			if res.URL != "" {
				fmt.Println("    " + valueDimStyle.Render(res.URL))
			}
			if res.Description != "" {
				fmt.Println("    " + valueDimStyle.Render(res.Description))
			}
		}
	}
}

// renderMarkdown renders markdown with glamour, falling back to the raw
// text when rendering is not possible.
func renderMarkdown(markdown string) string {
	if !IsStdoutTTY() {
		return markdown
	}

	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

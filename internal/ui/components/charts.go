// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/ui/styles"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// =============================================================================
// SCORE CHART
// =============================================================================

// RenderScoreChart renders one horizontal bar per topic, colored by band:
//
//	algebra   [######----] 60.0
//	geometry  [########--] 85.5
//
// width is the total available width; the bar shrinks to fit long labels.
func RenderScoreChart(topics []string, scores []float64, width int) string {
	if len(topics) == 0 || len(topics) != len(scores) {
		return ""
	}
	if width < 30 {
		width = 30
	}

	labelWidth := 0
	for _, topic := range topics {
		if w := runewidth.StringWidth(topic); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > 20 {
		labelWidth = 20
	}

	// label + space + [bar] + space + "100.0"
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, topic := range topics {
		score := scores[i]
		color := styles.ScoreColor(score)

		label := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render(util.PadRight(util.TruncateWidth(topic, labelWidth), labelWidth))

		bar := lipgloss.NewStyle().
			Foreground(color).
			Render("[" + styles.RenderScoreBar(barWidth, score) + "]")

		value := lipgloss.NewStyle().
			Foreground(color).
			Bold(true).
			Render(util.FloatToString(score))

		lines = append(lines, label+" "+bar+" "+value)
	}

	return strings.Join(lines, "\n")
}

// =============================================================================
// PROGRESS TREND
// =============================================================================

// RenderProgressTrend renders the summary-score series as a sparkline with
// first/last/best values underneath. Points arrive oldest first.
func RenderProgressTrend(points []api.ProgressPoint, width int) string {
	if len(points) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("No progress data yet. Submit an assessment to get started.")
	}

	scores := make([]float64, len(points))
	best := points[0].SummaryScore
	for i, p := range points {
		scores[i] = p.SummaryScore
		if p.SummaryScore > best {
			best = p.SummaryScore
		}
	}

	// Keep the sparkline within the available width, newest points win.
	if width > 10 && len(scores) > width-4 {
		scores = scores[len(scores)-(width-4):]
	}

	spark := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(styles.RenderSparkline(scores))

	first := points[0].SummaryScore
	last := points[len(points)-1].SummaryScore

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)

	summary := labelStyle.Render("first ") + valueStyle.Render(util.FloatToString(first)) +
		labelStyle.Render("  last ") +
		lipgloss.NewStyle().Foreground(styles.ScoreColor(last)).Bold(true).Render(util.FloatToString(last)) +
		labelStyle.Render("  best ") + valueStyle.Render(util.FloatToString(best))

	delta := last - first
	trend := labelStyle.Render("  trend ")
	switch {
	case delta > 0:
		trend += lipgloss.NewStyle().Foreground(styles.Emerald).Render("+" + util.FloatToString(delta))
	case delta < 0:
		trend += lipgloss.NewStyle().Foreground(styles.Rose).Render(util.FloatToString(delta))
	default:
		trend += labelStyle.Render("flat")
	}

	return spark + "\n" + summary + trend
}

// =============================================================================
// PROGRESS STATS
// =============================================================================

// ProgressStats summarizes a progress series.
type ProgressStats struct {
	Total   int
	Best    float64
	Average float64
	Delta   float64 // last minus first summary score
}

// SummarizeProgress computes stats over the series. Points arrive oldest first.
func SummarizeProgress(points []api.ProgressPoint) ProgressStats {
	if len(points) == 0 {
		return ProgressStats{}
	}

	stats := ProgressStats{Total: len(points), Best: points[0].SummaryScore}
	sum := 0.0
	for _, p := range points {
		sum += p.SummaryScore
		if p.SummaryScore > stats.Best {
			stats.Best = p.SummaryScore
		}
	}
	stats.Average = sum / float64(len(points))
	stats.Delta = points[len(points)-1].SummaryScore - points[0].SummaryScore
	return stats
}

// TopicLatest returns the union of topics seen across the series with each
// topic's most recent score, in first-seen order.
func TopicLatest(points []api.ProgressPoint) ([]string, []float64) {
	var topics []string
	index := make(map[string]int)
	var scores []float64

	for _, p := range points {
		for i, topic := range p.Topics {
			if i >= len(p.Scores) {
				break
			}
			if at, ok := index[topic]; ok {
				scores[at] = p.Scores[i]
				continue
			}
			index[topic] = len(topics)
			topics = append(topics, topic)
			scores = append(scores, p.Scores[i])
		}
	}
	return topics, scores
}

// RenderProgressStats renders the "assessments / best / average" stats row.
func RenderProgressStats(points []api.ProgressPoint) string {
	if len(points) == 0 {
		return ""
	}
	stats := SummarizeProgress(points)

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)

	return labelStyle.Render("assessments ") + valueStyle.Render(util.IntToString(stats.Total)) +
		labelStyle.Render("  best ") + valueStyle.Render(util.FloatToString(stats.Best)) +
		labelStyle.Render("  average ") +
		lipgloss.NewStyle().Foreground(styles.ScoreColor(stats.Average)).Bold(true).
			Render(util.FloatToString(stats.Average))
}

// =============================================================================
// BAND LABEL
// =============================================================================

// RenderBandLabel renders a summary score with its band label, e.g.
// "77.8 (Good)", colored by band.
func RenderBandLabel(score float64) string {
	color := styles.ScoreColor(score)
	band := api.BandForScore(score)

	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(util.FloatToString(score) + " (" + band.Label() + ")")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/skillmap-tui/internal/api"
)

func TestRenderScoreChart(t *testing.T) {
	out := RenderScoreChart([]string{"algebra", "geometry"}, []float64{60, 85.5}, 60)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[0], "algebra") || !strings.Contains(lines[0], "60.0") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "85.5") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestRenderScoreChartMismatched(t *testing.T) {
	if got := RenderScoreChart([]string{"a", "b"}, []float64{1}, 60); got != "" {
		t.Errorf("mismatched input = %q", got)
	}
	if got := RenderScoreChart(nil, nil, 60); got != "" {
		t.Errorf("empty input = %q", got)
	}
}

func TestRenderProgressTrend(t *testing.T) {
	points := []api.ProgressPoint{
		{Timestamp: "2026-08-01T10:00:00", SummaryScore: 40},
		{Timestamp: "2026-08-02T10:00:00", SummaryScore: 55},
		{Timestamp: "2026-08-03T10:00:00", SummaryScore: 72},
	}

	out := RenderProgressTrend(points, 80)
	if !strings.Contains(out, "40.0") {
		t.Errorf("missing first value:\n%s", out)
	}
	if !strings.Contains(out, "72.0") {
		t.Errorf("missing last value:\n%s", out)
	}
	if !strings.Contains(out, "+32.0") {
		t.Errorf("missing upward trend:\n%s", out)
	}
}

func TestRenderProgressTrendEmpty(t *testing.T) {
	out := RenderProgressTrend(nil, 80)
	if !strings.Contains(out, "No progress data") {
		t.Errorf("empty trend = %q", out)
	}
}

func TestRenderBandLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{92, "Excellent"},
		{77.8, "Good"},
		{42, "Keep improving"},
		{10, "More practice"},
	}

	for _, tc := range tests {
		out := RenderBandLabel(tc.score)
		if !strings.Contains(out, tc.want) {
			t.Errorf("RenderBandLabel(%.1f) = %q, want label %q", tc.score, out, tc.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusLoading, "Loading..."},
		{StatusError, "Error"},
		{StatusOffline, "Offline"},
		{Status(99), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestSummarizeProgress(t *testing.T) {
	points := []api.ProgressPoint{
		{SummaryScore: 40},
		{SummaryScore: 90},
		{SummaryScore: 70},
	}

	stats := SummarizeProgress(points)
	if stats.Total != 3 {
		t.Errorf("Total = %d", stats.Total)
	}
	if stats.Best != 90 {
		t.Errorf("Best = %v", stats.Best)
	}
	if stats.Average < 66.6 || stats.Average > 66.7 {
		t.Errorf("Average = %v", stats.Average)
	}
	if stats.Delta != 30 {
		t.Errorf("Delta = %v", stats.Delta)
	}

	if empty := SummarizeProgress(nil); empty.Total != 0 {
		t.Errorf("empty series should produce zero stats: %+v", empty)
	}
}

func TestTopicLatest(t *testing.T) {
	points := []api.ProgressPoint{
		{Topics: []string{"algebra", "geometry"}, Scores: []float64{40, 60}},
		{Topics: []string{"algebra", "calculus"}, Scores: []float64{75, 50}},
	}

	topics, scores := TopicLatest(points)
	if len(topics) != 3 {
		t.Fatalf("topics = %v", topics)
	}
	// Union keeps first-seen order; repeated topics take the newest score.
	if topics[0] != "algebra" || scores[0] != 75 {
		t.Errorf("algebra = %v", scores[0])
	}
	if topics[1] != "geometry" || scores[1] != 60 {
		t.Errorf("geometry = %v", scores[1])
	}
	if topics[2] != "calculus" || scores[2] != 50 {
		t.Errorf("calculus = %v", scores[2])
	}
}

func TestRenderProgressStats(t *testing.T) {
	points := []api.ProgressPoint{{SummaryScore: 50}, {SummaryScore: 70}}
	out := RenderProgressStats(points)
	if !strings.Contains(out, "2") || !strings.Contains(out, "70.0") || !strings.Contains(out, "60.0") {
		t.Errorf("stats row missing values: %q", out)
	}
	if RenderProgressStats(nil) != "" {
		t.Error("empty series should render nothing")
	}
}

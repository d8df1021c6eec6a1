// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "strings"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinnerFrames - Simple ASCII line rotation used for all loading states.
var LineSpinnerFrames = []string{"|", "/", "-", "\\"}

// =============================================================================
// SCORE BARS
// =============================================================================

// Score bar characters (ASCII-only for compatibility).
var (
	BarFull  = "#"
	BarEmpty = "-"
)

// RenderScoreBar creates a horizontal bar for a 0-100 score.
// width: total width of the bar in characters
func RenderScoreBar(width int, score float64) string {
	if width <= 0 {
		return ""
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	filled := int(float64(width) * score / 100)
	if filled > width {
		filled = width
	}

	var sb strings.Builder
	sb.Grow(width)
	for i := 0; i < filled; i++ {
		sb.WriteString(BarFull)
	}
	for i := filled; i < width; i++ {
		sb.WriteString(BarEmpty)
	}
	return sb.String()
}

// =============================================================================
// SPARKLINES
// =============================================================================

// sparkChars from lowest to highest, ASCII-safe.
var sparkChars = []string{"_", ".", ":", "-", "=", "+", "*", "#"}

// RenderSparkline renders a compact trend line for a series of 0-100 scores.
// Used on the progress tab to show score history at a glance.
func RenderSparkline(scores []float64) string {
	if len(scores) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(scores))
	for _, s := range scores {
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		idx := int(s / 100 * float64(len(sparkChars)-1))
		sb.WriteString(sparkChars[idx])
	}
	return sb.String()
}

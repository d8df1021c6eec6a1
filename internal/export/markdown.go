// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// MarkdownExporter writes history as a readable Markdown document.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// Export renders submissions as Markdown, newest first as given.
func (e *MarkdownExporter) Export(submissions []api.Submission) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Assessment History\n\n")
	if len(submissions) == 0 {
		buf.WriteString("No submissions yet.\n")
		return buf.Bytes(), nil
	}

	for _, s := range submissions {
		band := api.BandForScore(s.SummaryScore)
		fmt.Fprintf(&buf, "## %s — %s (%s)\n\n", s.Timestamp, util.FloatToString(s.SummaryScore), band.Label())
		fmt.Fprintf(&buf, "Mode: %s\n\n", s.FeedbackMode)

		buf.WriteString("| Topic | Score |\n|---|---|\n")
		for i, topic := range s.Topics {
			score := ""
			if i < len(s.Scores) {
				score = util.FloatToString(s.Scores[i])
			}
			fmt.Fprintf(&buf, "| %s | %s |\n", topic, score)
		}
		buf.WriteString("\n")

		if s.Feedback != "" {
			buf.WriteString(s.Feedback)
			buf.WriteString("\n\n")
		}
	}

	return buf.Bytes(), nil
}

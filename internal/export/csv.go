// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// CSVExporter writes history in the backend's /export/csv layout.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// FileExtension returns ".csv".
func (e *CSVExporter) FileExtension() string { return ".csv" }

// MimeType returns the CSV MIME type.
func (e *CSVExporter) MimeType() string { return "text/csv" }

// Export renders submissions as CSV. Column layout and feedback truncation
// match the server export byte-for-column, so offline exports drop into the
// same spreadsheets.
func (e *CSVExporter) Export(submissions []api.Submission) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Timestamp", "Topics", "Scores", "Summary Score", "Feedback Mode", "Feedback"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range submissions {
		scores := make([]string, len(s.Scores))
		for i, score := range s.Scores {
			scores[i] = util.FloatToString(score)
		}

		mode := s.FeedbackMode
		if mode == "" {
			mode = "ai"
		}

		record := []string{
			fmt.Sprintf("%d", s.ID),
			s.Timestamp,
			strings.Join(s.Topics, ", "),
			strings.Join(scores, ", "),
			util.FloatToString(s.SummaryScore),
			mode,
			truncateFeedback(s.Feedback),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/skillmap-tui/internal/api"
)

// JSONExporter writes history as indented JSON for scripting.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string { return "application/json" }

// Export renders submissions as an indented JSON array. Feedback is kept
// in full here; truncation is a CSV readability concession only.
func (e *JSONExporter) Export(submissions []api.Submission) ([]byte, error) {
	if submissions == nil {
		submissions = []api.Submission{}
	}
	data, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode submissions: %w", err)
	}
	return append(data, '\n'), nil
}

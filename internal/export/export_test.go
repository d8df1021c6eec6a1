// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/skillmap-tui/internal/api"
)

func sampleSubmissions() []api.Submission {
	return []api.Submission{
		{
			ID:           2,
			Timestamp:    "2026-08-02T10:00:00",
			Topics:       []string{"algebra", "geometry"},
			Scores:       []float64{70, 85.5},
			SummaryScore: 77.8,
			FeedbackMode: "ai",
			Feedback:     strings.Repeat("x", 150),
		},
		{
			ID:           1,
			Timestamp:    "2026-08-01T10:00:00",
			Topics:       []string{"calculus"},
			Scores:       []float64{42},
			SummaryScore: 42,
			Feedback:     "short",
		},
	}
}

func TestCSVExporter_Export(t *testing.T) {
	data, err := NewCSVExporter().Export(sampleSubmissions())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}

	wantHeader := []string{"ID", "Timestamp", "Topics", "Scores", "Summary Score", "Feedback Mode", "Feedback"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	row := records[1]
	if row[0] != "2" {
		t.Errorf("id column = %q", row[0])
	}
	if row[2] != "algebra, geometry" {
		t.Errorf("topics column = %q", row[2])
	}
	if row[3] != "70.0, 85.5" {
		t.Errorf("scores column = %q", row[3])
	}
	if row[4] != "77.8" {
		t.Errorf("summary column = %q", row[4])
	}
	if row[5] != "ai" {
		t.Errorf("mode column = %q", row[5])
	}
	// Feedback over 100 characters is truncated with an ellipsis.
	if want := strings.Repeat("x", 100) + "..."; row[6] != want {
		t.Errorf("feedback column = %q", row[6])
	}

	// Missing feedback mode defaults to "ai".
	if records[2][5] != "ai" {
		t.Errorf("default mode = %q", records[2][5])
	}
	if records[2][6] != "short" {
		t.Errorf("short feedback altered: %q", records[2][6])
	}
}

func TestCSVExporter_Empty(t *testing.T) {
	data, err := NewCSVExporter().Export(nil)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("expected header only, got %d lines", len(lines))
	}
}

func TestJSONExporter_Export(t *testing.T) {
	data, err := NewJSONExporter().Export(sampleSubmissions())
	if err != nil {
		t.Fatal(err)
	}

	var subs []api.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("len = %d", len(subs))
	}
	// JSON export keeps feedback in full.
	if len(subs[0].Feedback) != 150 {
		t.Errorf("feedback length = %d, want 150", len(subs[0].Feedback))
	}
}

func TestJSONExporter_NilIsEmptyArray(t *testing.T) {
	data, err := NewJSONExporter().Export(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	data, err := NewMarkdownExporter().Export(sampleSubmissions())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "# Assessment History") {
		t.Error("missing document title")
	}
	if !strings.Contains(out, "| algebra | 70.0 |") {
		t.Errorf("missing topic row:\n%s", out)
	}
	if !strings.Contains(out, "Good") {
		t.Error("missing band label for score 77.8")
	}
	if !strings.Contains(out, "Keep improving") {
		t.Error("missing band label for score 42")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportToFile("alice", sampleSubmissions(), NewCSVExporter(), &Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}

	if filepath.Base(path) != "alice_feedback_history.csv" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "algebra, geometry") {
		t.Error("file missing exported content")
	}
}

func TestExportToFile_SanitizesUsername(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportToFile("../evil user", nil, NewJSONExporter(), &Options{OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	base := filepath.Base(path)
	if strings.ContainsAny(base, "/\\ ") {
		t.Errorf("unsanitized filename: %q", base)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("escaped output dir: %q", path)
	}
}

func TestWriteRaw(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("ID,Timestamp\n1,2026-08-01\n")

	path, err := WriteRaw("bob", raw, ".csv", &Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if filepath.Base(path) != "bob_feedback_history.csv" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != string(raw) {
		t.Error("raw bytes altered on write")
	}
}

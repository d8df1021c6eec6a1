// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"testing"
)

func TestResource_UnmarshalBothShapes(t *testing.T) {
	payload := `[
		{"title": "Khan Academy", "description": "Practice problems", "url": "https://khanacademy.org"},
		"Review your class notes"
	]`

	var resources []Resource
	if err := json.Unmarshal([]byte(payload), &resources); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("len = %d", len(resources))
	}

	if resources[0].Title != "Khan Academy" || resources[0].URL != "https://khanacademy.org" {
		t.Errorf("object resource = %+v", resources[0])
	}
	if resources[1].Title != "Review your class notes" || resources[1].URL != "" {
		t.Errorf("string resource = %+v", resources[1])
	}
}

func TestResource_UnmarshalRejectsGarbage(t *testing.T) {
	var r Resource
	if err := json.Unmarshal([]byte(`42`), &r); err == nil {
		t.Error("numeric resource should fail to decode")
	}
}

func TestSubmission_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		wantErr bool
	}{
		{"valid", Submission{Topics: []string{"a", "b"}, Scores: []float64{0, 100}}, false},
		{"empty", Submission{}, false},
		{"length mismatch", Submission{Topics: []string{"a"}, Scores: []float64{1, 2}}, true},
		{"score too high", Submission{Topics: []string{"a"}, Scores: []float64{101}}, true},
		{"score negative", Submission{Topics: []string{"a"}, Scores: []float64{-1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBandForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandExcellent},
		{80, BandExcellent},
		{79.9, BandGood},
		{60, BandGood},
		{59.9, BandFair},
		{40, BandFair},
		{39.9, BandNeedsWork},
		{0, BandNeedsWork},
	}

	for _, tt := range tests {
		if got := BandForScore(tt.score); got != tt.want {
			t.Errorf("BandForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestBand_Label(t *testing.T) {
	if BandExcellent.Label() != "Excellent" {
		t.Errorf("label = %q", BandExcellent.Label())
	}
	if BandNeedsWork.Label() != "More practice" {
		t.Errorf("label = %q", BandNeedsWork.Label())
	}
}

func TestNormalizeTopic(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9 under NFC.
	decomposed := "alge\u0301bre"
	composed := "alg\u00e9bre"

	if got := NormalizeTopic(decomposed); got != composed {
		t.Errorf("NormalizeTopic(%q) = %q, want %q", decomposed, got, composed)
	}
	if got := NormalizeTopic("  algebra  "); got != "algebra" {
		t.Errorf("whitespace not trimmed: %q", got)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Credentials is the request body for /login and /register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response from POST /login.
type LoginResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token"`
	Username     string `json:"username"`
}

// RegisterResponse is the response from POST /register.
type RegisterResponse struct {
	Message string `json:"message"`
}

// Profile is the response from GET /profile.
type Profile struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
}

// FeedbackRequest is the request body for POST /feedback.
type FeedbackRequest struct {
	Topics       []string  `json:"topics"`
	Scores       []float64 `json:"scores"`
	FeedbackMode string    `json:"feedback_mode"`
}

// FeedbackResponse is the response from POST /feedback.
type FeedbackResponse struct {
	ID           int64      `json:"id"`
	Feedback     string     `json:"feedback"`
	Resources    []Resource `json:"resources"`
	SummaryScore float64    `json:"summary_score"`
	FeedbackMode string     `json:"feedback_mode"`
}

// Resource is a suggested learning resource attached to feedback.
//
// The backend emits two shapes for the same field: full objects
// {title, description, url} from the AI path, and bare strings from the
// rule-based path. Bare strings decode with the text as the title.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// UnmarshalJSON accepts both the object and bare-string resource shapes.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Title = s
		r.Description = ""
		r.URL = ""
		return nil
	}

	type resourceAlias Resource
	var obj resourceAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("resource is neither string nor object: %w", err)
	}
	*r = Resource(obj)
	return nil
}

// Submission is one assessment entry as returned by GET /history.
type Submission struct {
	ID           int64     `json:"id"`
	Timestamp    string    `json:"timestamp"`
	Topics       []string  `json:"topics"`
	Scores       []float64 `json:"scores"`
	SummaryScore float64   `json:"summary_score"`
	FeedbackMode string    `json:"feedback_mode"`
	Feedback     string    `json:"feedback"`
}

// Validate checks the structural invariants of a submission: topics and
// scores are parallel arrays and every score is within 0-100.
func (s Submission) Validate() error {
	if len(s.Topics) != len(s.Scores) {
		return fmt.Errorf("topics/scores length mismatch: %d vs %d", len(s.Topics), len(s.Scores))
	}
	for i, score := range s.Scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("score %d out of range: %v", i, score)
		}
	}
	return nil
}

// HistoryResponse is the response from GET /history.
type HistoryResponse struct {
	Submissions []Submission `json:"submissions"`
}

// ProgressPoint is one entry of the progress series from GET /progress.
type ProgressPoint struct {
	Timestamp    string    `json:"timestamp"`
	Topics       []string  `json:"topics"`
	Scores       []float64 `json:"scores"`
	SummaryScore float64   `json:"summary_score"`
}

// ProgressResponse is the response from GET /progress.
type ProgressResponse struct {
	Progress []ProgressPoint `json:"progress"`
}

// errorResponse is the backend's error payload shape.
type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// SCORE BANDS
// =============================================================================

// Band classifies a score into a performance band. The thresholds match the
// backend's rule-based feedback tiers.
type Band int

const (
	BandNeedsWork Band = iota
	BandFair
	BandGood
	BandExcellent
)

// BandForScore returns the band for a 0-100 score.
func BandForScore(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandNeedsWork
	}
}

// Label returns the user-facing label for a band.
func (b Band) Label() string {
	switch b {
	case BandExcellent:
		return "Excellent"
	case BandGood:
		return "Good"
	case BandFair:
		return "Keep improving"
	default:
		return "More practice"
	}
}

// =============================================================================
// TOPIC NORMALIZATION
// =============================================================================

// NormalizeTopic trims whitespace and applies Unicode NFC normalization so
// the same topic typed with different composition forms (common with IME
// input) aggregates as one topic in progress views.
func NormalizeTopic(topic string) string {
	return norm.NFC.String(strings.TrimSpace(topic))
}

// NormalizeTopics normalizes every topic in place and returns the slice.
func NormalizeTopics(topics []string) []string {
	for i, t := range topics {
		topics[i] = NormalizeTopic(t)
	}
	return topics
}

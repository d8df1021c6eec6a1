// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/skillmap-tui/internal/api"
)

// DefaultDatabaseName is the cache database file inside the config dir.
const DefaultDatabaseName = "history.db"

// ErrCacheClosed indicates the cache was used after Close.
var ErrCacheClosed = errors.New("history cache is closed")

// schema creates the cache tables.
//
// Topics and scores are stored as JSON arrays: the cache mirrors the wire
// shape, and nothing queries individual topics server-side.
const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER NOT NULL,
    username TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    topics TEXT NOT NULL,        -- JSON array
    scores TEXT NOT NULL,        -- JSON array
    summary_score REAL NOT NULL,
    feedback_mode TEXT NOT NULL,
    feedback TEXT NOT NULL,
    PRIMARY KEY (username, id)
);

CREATE INDEX IF NOT EXISTS idx_submissions_user_ts ON submissions(username, timestamp DESC);
`

// Cache is the local submission cache, keyed per username so switching
// accounts on one machine keeps histories separate.
type Cache struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (and if needed creates) the cache database at path.
// maxEntries bounds the retained submissions per user; 0 means unlimited.
func Open(path string, maxEntries int) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db, maxEntries: maxEntries}, nil
}

// DefaultPath returns the default cache database path (~/.skillmap/history.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".skillmap", DefaultDatabaseName), nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Replace overwrites the cached submissions for username with a freshly
// fetched history. Refresh-by-replace keeps the cache an exact mirror of
// the last successful fetch, including server-side deletions.
func (c *Cache) Replace(username string, submissions []api.Submission) error {
	if c.db == nil {
		return ErrCacheClosed
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM submissions WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to clear cached submissions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO submissions (id, username, timestamp, topics, scores, summary_score, feedback_mode, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range submissions {
		topics, err := json.Marshal(s.Topics)
		if err != nil {
			return fmt.Errorf("failed to encode topics: %w", err)
		}
		scores, err := json.Marshal(s.Scores)
		if err != nil {
			return fmt.Errorf("failed to encode scores: %w", err)
		}
		if _, err := stmt.Exec(s.ID, username, s.Timestamp, topics, scores, s.SummaryScore, s.FeedbackMode, s.Feedback); err != nil {
			return fmt.Errorf("failed to insert submission %d: %w", s.ID, err)
		}
	}

	if err := c.pruneTx(tx, username); err != nil {
		return err
	}

	return tx.Commit()
}

// pruneTx removes the oldest rows beyond maxEntries for username.
func (c *Cache) pruneTx(tx *sql.Tx, username string) error {
	if c.maxEntries <= 0 {
		return nil
	}
	_, err := tx.Exec(`
		DELETE FROM submissions
		WHERE username = ? AND id NOT IN (
			SELECT id FROM submissions
			WHERE username = ?
			ORDER BY timestamp DESC, id DESC
			LIMIT ?
		)
	`, username, username, c.maxEntries)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	return nil
}

// List returns the cached submissions for username, newest first.
func (c *Cache) List(username string) ([]api.Submission, error) {
	if c.db == nil {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.Query(`
		SELECT id, timestamp, topics, scores, summary_score, feedback_mode, feedback
		FROM submissions
		WHERE username = ?
		ORDER BY timestamp DESC, id DESC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var submissions []api.Submission
	for rows.Next() {
		var s api.Submission
		var topics, scores []byte
		if err := rows.Scan(&s.ID, &s.Timestamp, &topics, &scores, &s.SummaryScore, &s.FeedbackMode, &s.Feedback); err != nil {
			return nil, fmt.Errorf("failed to scan cached submission: %w", err)
		}
		if err := json.Unmarshal(topics, &s.Topics); err != nil {
			return nil, fmt.Errorf("failed to decode cached topics: %w", err)
		}
		if err := json.Unmarshal(scores, &s.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode cached scores: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached submissions: %w", err)
	}

	return submissions, nil
}

// Count returns the number of cached submissions for username.
func (c *Cache) Count(username string) (int, error) {
	if c.db == nil {
		return 0, ErrCacheClosed
	}
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM submissions WHERE username = ?", username).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached submissions: %w", err)
	}
	return n, nil
}

// ClearUser removes all cached submissions for username.
func (c *Cache) ClearUser(username string) error {
	if c.db == nil {
		return ErrCacheClosed
	}
	if _, err := c.db.Exec("DELETE FROM submissions WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to clear cached submissions: %w", err)
	}
	return nil
}

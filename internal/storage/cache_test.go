// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jeranaias/skillmap-tui/internal/api"
)

func newTestCache(t *testing.T, maxEntries int) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "history.db"), maxEntries)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleSubmissions(n int) []api.Submission {
	subs := make([]api.Submission, n)
	for i := range subs {
		subs[i] = api.Submission{
			ID:           int64(i + 1),
			Timestamp:    fmt.Sprintf("2026-08-%02dT10:00:00", i+1),
			Topics:       []string{"algebra", "geometry"},
			Scores:       []float64{70, 85.5},
			SummaryScore: 77.75,
			FeedbackMode: "rule",
			Feedback:     "Solid progress on algebra.",
		}
	}
	return subs
}

func TestCache_ReplaceAndList(t *testing.T) {
	c := newTestCache(t, 0)

	if err := c.Replace("alice", sampleSubmissions(3)); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	subs, err := c.List("alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("len = %d", len(subs))
	}
	// Newest first.
	if subs[0].ID != 3 || subs[2].ID != 1 {
		t.Errorf("order = %d, %d, %d", subs[0].ID, subs[1].ID, subs[2].ID)
	}
	if subs[0].Topics[1] != "geometry" || subs[0].Scores[1] != 85.5 {
		t.Errorf("round trip lost data: %+v", subs[0])
	}
}

func TestCache_ReplaceMirrorsDeletions(t *testing.T) {
	c := newTestCache(t, 0)

	if err := c.Replace("alice", sampleSubmissions(5)); err != nil {
		t.Fatal(err)
	}
	// Server-side, submissions 4 and 5 are gone.
	if err := c.Replace("alice", sampleSubmissions(3)); err != nil {
		t.Fatal(err)
	}

	n, err := c.Count("alice")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestCache_PerUserIsolation(t *testing.T) {
	c := newTestCache(t, 0)

	if err := c.Replace("alice", sampleSubmissions(2)); err != nil {
		t.Fatal(err)
	}
	if err := c.Replace("bob", sampleSubmissions(1)); err != nil {
		t.Fatal(err)
	}

	aliceSubs, _ := c.List("alice")
	bobSubs, _ := c.List("bob")
	if len(aliceSubs) != 2 || len(bobSubs) != 1 {
		t.Errorf("alice=%d bob=%d", len(aliceSubs), len(bobSubs))
	}

	if err := c.ClearUser("alice"); err != nil {
		t.Fatal(err)
	}
	aliceSubs, _ = c.List("alice")
	bobSubs, _ = c.List("bob")
	if len(aliceSubs) != 0 || len(bobSubs) != 1 {
		t.Errorf("after clear: alice=%d bob=%d", len(aliceSubs), len(bobSubs))
	}
}

func TestCache_Pruning(t *testing.T) {
	c := newTestCache(t, 3)

	if err := c.Replace("alice", sampleSubmissions(10)); err != nil {
		t.Fatal(err)
	}

	subs, err := c.List("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 3 {
		t.Fatalf("len = %d, want 3", len(subs))
	}
	// The newest entries survive pruning.
	if subs[0].ID != 10 || subs[2].ID != 8 {
		t.Errorf("kept ids %d..%d, want 10..8", subs[0].ID, subs[2].ID)
	}
}

func TestCache_EmptyList(t *testing.T) {
	c := newTestCache(t, 0)
	subs, err := c.List("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 0 {
		t.Errorf("len = %d", len(subs))
	}
}

func TestCache_Closed(t *testing.T) {
	c := newTestCache(t, 0)
	c.Close()

	if _, err := c.List("alice"); err != ErrCacheClosed {
		t.Errorf("List after close: %v", err)
	}
	if err := c.Replace("alice", nil); err != ErrCacheClosed {
		t.Errorf("Replace after close: %v", err)
	}
}

func TestCache_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	c, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Replace("alice", sampleSubmissions(2)); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c2, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	subs, err := c2.List("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Errorf("len after reopen = %d", len(subs))
	}
}

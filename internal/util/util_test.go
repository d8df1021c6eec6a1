// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than max", "algebra", 10, "algebra"},
		{"exactly max", "algebra", 7, "algebra"},
		{"truncated with ellipsis", "linear algebra", 10, "linear ..."},
		{"zero max", "algebra", 0, ""},
		{"tiny max skips ellipsis", "algebra", 2, "al"},
		{"multibyte safe", "数学の勉強", 4, "数学の勉強"[:3] + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestTruncateWidth_CJK(t *testing.T) {
	// Each CJK char is 2 columns wide; 6 columns fits three of them.
	s := "数学基礎論"
	got := TruncateWidth(s, 6)
	if StringWidth(got) > 6 {
		t.Errorf("TruncateWidth produced %q with width %d > 6", got, StringWidth(got))
	}

	if TruncateWidth("abc", 10) != "abc" {
		t.Error("short string should pass through unchanged")
	}
}

func TestCollapseLines(t *testing.T) {
	if got := CollapseLines("a\r\nb\nc"); got != "a b c" {
		t.Errorf("CollapseLines = %q", got)
	}
}

func TestFloatToString(t *testing.T) {
	if got := FloatToString(72.5); got != "72.5" {
		t.Errorf("FloatToString(72.5) = %q", got)
	}
	if got := FloatToString(100); got != "100.0" {
		t.Errorf("FloatToString(100) = %q", got)
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	if err := AtomicWriteFile(path, []byte(`{"ok":true}`), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %o, want 0600", info.Mode().Perm())
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "x" {
		t.Errorf("after overwrite content = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files in dir: %d entries", len(entries))
	}
}

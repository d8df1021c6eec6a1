// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for one-shot commands.
//
// Each handler builds its own client and session manager, verifies the
// stored session where authentication is required, and tears down when
// the command finishes. The TUI has its own wiring in main.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/config"
	"github.com/jeranaias/skillmap-tui/internal/session"
	"github.com/jeranaias/skillmap-tui/internal/storage"
)

// ErrNotLoggedIn is returned by commands that need a session when none is stored.
var ErrNotLoggedIn = errors.New("not logged in - run 'skillmap login' first")

// loadConfig returns the global config, with the --server override applied.
func loadConfig(args Args) *config.Config {
	cfg := config.Global()
	if args.Server != "" {
		cfg = cfg.Clone()
		cfg.Server.BaseURL = args.Server
	}
	return cfg
}

// newClient builds an API client from the config.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSecs)*time.Second)
}

// newSessionManager builds the session manager backed by the on-disk store.
func newSessionManager(client *api.Client) *session.Manager {
	dir, err := session.DefaultDir()
	if err != nil {
		dir = ""
	}
	store := session.NewStore(dir)
	return session.NewManager(store, client)
}

// requireLogin verifies the stored session and returns ErrNotLoggedIn when
// there is none or it no longer verifies.
func requireLogin(ctx context.Context, mgr *session.Manager) error {
	if mgr.Startup(ctx) != session.StateAuthenticated {
		if mgr.ConsumeExpired() {
			return fmt.Errorf("session expired - run 'skillmap login' again")
		}
		return ErrNotLoggedIn
	}
	return nil
}

// openCache opens the local history cache, or returns nil when disabled
// or unavailable. Commands treat a nil cache as "no offline fallback".
func openCache(cfg *config.Config) *storage.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	path, err := storage.DefaultPath()
	if err != nil {
		return nil
	}
	cache, err := storage.Open(path, cfg.Cache.MaxEntries)
	if err != nil {
		return nil
	}
	return cache
}

// cmdContext returns a context bounded by the configured request timeout,
// with headroom for retries.
func cmdContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Server.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), 2*timeout)
}

// offlineFallback reports whether an error should fall back to cached data.
// Auth errors never do; the user has to log in again.
func offlineFallback(err error) bool {
	return err != nil &&
		!errors.Is(err, api.ErrSessionExpired) &&
		!errors.Is(err, api.ErrNotAuthenticated)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the skillmap assessment backend.
//
// All protected endpoints go through a single request gateway that attaches
// the bearer token, tags each request with an X-Request-ID, and funnels 401
// responses into a forced-logout hook so expired sessions tear down in
// exactly one place.
package api

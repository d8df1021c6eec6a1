// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides durable session state for the skillmap client:
// an encrypted on-disk store for the (token, username) pair and the
// lifecycle controller that moves between unauthenticated, verifying and
// authenticated states.
package session

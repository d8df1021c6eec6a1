// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the skillmap TUI:
// loading spinners, toast notifications, score charts, and the status bar.
package components

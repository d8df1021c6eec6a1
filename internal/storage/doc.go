// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local history cache: a SQLite mirror of
// fetched submissions so history, progress and export keep working when
// the backend is unreachable.
package storage

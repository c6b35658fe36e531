// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard loads and renders the per-role dashboards.
//
// Each role has a fixed batch of read endpoints. Load issues the batch
// concurrently and joins it all-or-none: the first failure cancels the
// rest and fails the whole batch. Every payload is decoded into a typed
// model and validated before it is accepted.
//
// # Sample Data
//
// When sample fallback is enabled, a failed batch produces a View built
// from local sample data with Sample set and Err holding the cause. The
// UI labels such views; nothing is substituted silently.
//
// # Key Types
//
//   - Loader: runs the batch for a role
//   - View: the loaded (or sample) data for one role
//   - Tab: a named section of a dashboard
//   - Table: width-aware text table used by the renderers
package dashboard

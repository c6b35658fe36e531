// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file and string helpers for campus.
//
//   - AtomicWriteFile: temp file + fsync + rename, so readers never see a
//     half-written session or config file
//   - ReadFileIfExists: missing files read as (nil, nil)
//   - TruncateWidth / PadWidth: display-width aware cell formatting
package util

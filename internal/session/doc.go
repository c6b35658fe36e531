// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the campus login session.
//
// A session is exactly two string values, "token" and "role". There is no
// expiry, encryption or integrity check: the token is an opaque bearer
// credential and the backend decides whether it is still valid.
//
// # Key Types
//
//   - Store: Set / Get / Clear over some persistence medium
//   - FileStore: JSON file under ~/.campus (default)
//   - SQLiteStore: key/value table in ~/.campus/campus.db
//   - RedisStore: hash shared by several terminals (kiosk deployments)
//   - MemoryStore: in-process, for tests and --ephemeral
//   - Watcher: reports on-disk changes to the session file
//
// # Usage
//
//	store, err := session.Open(session.Options{Backend: "file", Path: path})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	_ = store.Set(ctx, token, "STUDENT")
//	sess, _ := store.Get(ctx)
//	if sess.Empty() {
//	    // not logged in
//	}
package session

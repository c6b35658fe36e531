// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the single outbound HTTP path to the campus backend.
//
// Every request reads the session store and, when a token is present,
// sends it as a bearer credential. Calls are single-attempt: there is no
// retry, backoff, deduplication or caching. Callers decide how to present
// failures.
//
// # Key Types
//
//   - Client: JSON verb methods (Get, Post, Put, Delete)
//   - HTTPError: non-2xx response with the backend's message
//
// # Usage
//
//	client := api.NewClient(cfg.API.BaseURL, store).WithLogger(log)
//
//	var me model.MePayload
//	if err := client.Get(ctx, "/auth/me", &me); err != nil {
//	    if api.StatusOf(err) == http.StatusUnauthorized {
//	        // session is no longer valid
//	    }
//	    return err
//	}
//
// # Errors
//
// Transport and context failures match ErrTransport with errors.Is.
// Backend rejections are *HTTPError; use errors.As or StatusOf.
package api

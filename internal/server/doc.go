// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is a development stand-in for the campus REST backend.
//
// It serves the same JSON contract the client consumes, so the TUI and CLI
// can be run and integration-tested without the real service.
//
// # Endpoints
//
// Under /api:
//
//   - POST /auth/signup, POST /auth/login, GET /auth/me, GET /auth/check-admin
//   - GET  /student/{profile,timetable/today,assignments,attendance,marks,fees,notifications,feedback}
//   - POST /student/feedback
//   - GET  /library/books/available, POST /library/books/{id}/issue
//   - GET  /faculty/{profile,timetable/today,assignments,notifications,subjects}
//   - POST /faculty/assignments, POST/PUT/DELETE /faculty/notifications
//   - GET  /admin/{dashboard,users,notifications,analytics,*/reports}
//   - POST/PUT/DELETE /admin/notifications, DELETE /admin/users/{id}
//
// Outside /api: GET /health and GET /metrics (Prometheus).
//
// # Security
//
//   - HS256 bearer tokens carrying a role claim, checked per route group
//   - bcrypt password hashes in SQLite
//   - per-client-IP token bucket rate limiting
//   - security headers and panic recovery on every response
//
// # Usage
//
//	srv, err := server.New(server.Options{
//		Addr:      ":8080",
//		DBPath:    "/tmp/campus.db",
//		JWTSecret: secret,
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer srv.Close()
//	return srv.ListenAndServe(ctx)
package server

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/campus-tui/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// Version is reported by /health.
	Version = "0.1.0"

	// MaxRequestBodySize caps JSON request bodies.
	MaxRequestBodySize = 64 * 1024

	shutdownTimeout = 5 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Addr   string
	DBPath string

	// JWTSecret signs tokens. Empty generates a random secret, so tokens do
	// not survive a restart.
	JWTSecret string
	TokenTTL  time.Duration

	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit float64

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Server is the development campus backend.
type Server struct {
	opts    Options
	store   *Store
	tokens  *Tokens
	metrics *Metrics
	limiter *RateLimiter
	log     *zap.Logger
	handler http.Handler
	started time.Time
}

// New opens the database and builds the router.
func New(opts Options, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("server")
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		opts.JWTSecret = secret
		log.Warn("no jwt secret configured, using a random one; tokens will not survive a restart")
	}

	store, err := OpenStore(opts.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:    opts,
		store:   store,
		tokens:  NewTokens(opts.JWTSecret, opts.TokenTTL),
		metrics: NewMetrics(),
		log:     log,
		started: time.Now(),
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit)
	}
	s.handler = s.routes()
	return s, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate jwt secret")
	}
	return hex.EncodeToString(b), nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store exposes the database, mainly for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Close closes the database.
func (s *Server) Close() error {
	return s.store.Close()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Addr), zap.String("version", Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Get("/check-admin", s.handleCheckAdmin)
			r.With(s.authenticate).Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/student", func(r chi.Router) {
				r.Use(requireRole(model.RoleStudent))
				r.Get("/profile", s.handleProfile)
				r.Get("/timetable/today", s.handleTimetable)
				r.Get("/assignments", s.handleAssignments)
				r.Get("/attendance", s.handleStudentAttendance)
				r.Get("/marks", s.handleStudentMarks)
				r.Get("/fees", s.handleStudentFees)
				r.Get("/notifications", s.handleNotifications)
				r.Get("/feedback", s.handleFeedbackList)
				r.Post("/feedback", s.handleFeedbackCreate)
			})

			r.Route("/library", func(r chi.Router) {
				r.Get("/books/available", s.handleBooksAvailable)
				r.With(requireRole(model.RoleStudent)).Post("/books/{bookID}/issue", s.handleIssueBook)
			})

			r.Route("/faculty", func(r chi.Router) {
				r.Use(requireRole(model.RoleFaculty))
				r.Get("/profile", s.handleProfile)
				r.Get("/timetable/today", s.handleTimetable)
				r.Get("/assignments", s.handleAssignments)
				r.Post("/assignments", s.handleAssignmentCreate)
				r.Get("/notifications", s.handleNotifications)
				r.Post("/notifications", s.handleNotificationCreate)
				r.Put("/notifications/{id}", s.handleNotificationUpdate)
				r.Delete("/notifications/{id}", s.handleNotificationDelete)
				r.Get("/subjects", s.handleSubjects)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireRole(model.RoleAdmin))
				r.Get("/dashboard", s.handleAdminDashboard)
				r.Get("/users", s.handleUsers)
				r.Delete("/users/{id}", s.handleUserDelete)
				r.Get("/notifications", s.handleNotifications)
				r.Post("/notifications", s.handleNotificationCreate)
				r.Put("/notifications/{id}", s.handleNotificationUpdate)
				r.Delete("/notifications/{id}", s.handleNotificationDelete)
				r.Get("/attendance/reports", s.handleAttendanceReport)
				r.Get("/marks/reports", s.handleMarksReport)
				r.Get("/fees/reports", s.handleFeesReport)
				r.Get("/assignments/reports", s.handleAssignments)
				r.Get("/analytics", s.handleAnalytics)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(s.log),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.log),
	}
	if s.limiter != nil {
		middlewares = append(middlewares, RateLimitMiddleware(s.limiter, s.metrics, s.log))
	}
	return Chain(middlewares...)(r)
}

// ============================================================================
// HEALTH
// ============================================================================

// HealthResponse is the /health body.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  Version,
		Database: "ok",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	status := http.StatusOK
	if err := s.store.db.PingContext(r.Context()); err != nil {
		resp.Status, resp.Database = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// ============================================================================
// HELPERS
// ============================================================================

// messageResponse is the backend's error and acknowledgement shape.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodySize))
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}

// internalError logs err and answers 500 without leaking details.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("handler failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

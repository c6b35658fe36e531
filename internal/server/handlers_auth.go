// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/campus-tui/internal/model"
)

// Response messages shared with the client.
const (
	MsgSignupOK     = "Signup successful"
	MsgUserExists   = "User already exists"
	MsgInvalidRole  = "Invalid role. Allowed: ADMIN, FACULTY, STUDENT"
	MsgUserNotFound = "User not found in database"
	MsgInvalidCreds = "Invalid credentials"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=255"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type meResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	StudentID string `json:"studentId,omitempty"`
}

// handleSignup handles POST /api/auth/signup.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := model.Validate(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	role := model.ParseRole(req.Role)
	if !role.IsKnown() {
		writeMessage(w, http.StatusBadRequest, MsgInvalidRole)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		s.internalError(w, r, errors.Wrap(err, "hash password"))
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, string(hash), role)
	if errors.Is(err, ErrUserExists) {
		writeMessage(w, http.StatusBadRequest, MsgUserExists)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.metrics.signups.WithLabelValues(role.String()).Inc()
	s.log.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", role.String()),
		zap.String("student_id", user.StudentID),
	)
	writeMessage(w, http.StatusOK, MsgSignupOK)
}

// handleLogin handles POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := model.Validate(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := s.store.UserByName(r.Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, ErrNotFound) {
		s.metrics.logins.WithLabelValues("unknown_user").Inc()
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.metrics.logins.WithLabelValues("bad_password").Inc()
		s.log.Info("login rejected", zap.String("username", user.Username), zap.String("ip", GetClientIP(r)))
		writeMessage(w, http.StatusUnauthorized, MsgInvalidCreds)
		return
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.metrics.logins.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful as " + user.Role.String(),
		Token:   token,
		Role:    user.Role.String(),
	})
}

// handleMe handles GET /api/auth/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role.String(),
		StudentID: user.StudentID,
	})
}

// handleCheckAdmin handles GET /api/auth/check-admin.
func (s *Server) handleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	has, err := s.store.HasAdmin(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasAdmin": has})
}

// currentUser loads the account behind the request's token. It writes the
// error response itself and reports false when there is none.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*UserRecord, bool) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	user, err := s.store.UserByName(r.Context(), claims.Subject)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return nil, false
	}
	if err != nil {
		s.internalError(w, r, err)
		return nil, false
	}
	return user, true
}

// validationMessage returns the first failed constraint as a sentence.
func validationMessage(err error) string {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Error()
	}
	return "Invalid request"
}

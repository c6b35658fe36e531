// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/model"
)

// Records the backend does not persist (timetables, marks, fees, the book
// catalog) come from the demonstration data set. Notifications, assignments,
// feedback, book issues and accounts are stored.

func (s *Server) demo(user *UserRecord) *dashboard.View {
	return dashboard.Sample(model.User{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		GeneratedID: user.StudentID,
	})
}

// catalog is the library's book list.
func catalog() []model.Book {
	return dashboard.Sample(model.User{Role: model.RoleStudent}).Student.Books
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	return id, err == nil && id > 0
}

// ============================================================================
// SHARED (STUDENT / FACULTY)
// ============================================================================

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	v := s.demo(user)
	switch {
	case v.Student != nil:
		writeJSON(w, http.StatusOK, v.Student.Profile)
	case v.Faculty != nil:
		writeJSON(w, http.StatusOK, v.Faculty.Profile)
	default:
		writeMessage(w, http.StatusNotFound, "Profile not found")
	}
}

type timetableResponse struct {
	Timetable    []model.TimetableEntry `json:"timetable"`
	TotalClasses int                    `json:"totalClasses"`
	Day          string                 `json:"day"`
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	v := s.demo(user)
	var entries []model.TimetableEntry
	if v.Student != nil {
		entries = v.Student.Timetable
	} else if v.Faculty != nil {
		entries = v.Faculty.Timetable
	}
	day := strings.ToUpper(s.store.now().Weekday().String())
	for i := range entries {
		entries[i].DayOfWeek = day
	}
	writeJSON(w, http.StatusOK, timetableResponse{
		Timetable:    entries,
		TotalClasses: len(entries),
		Day:          day,
	})
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Assignments(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	role := model.ParseRole(claims.Role)
	if role == model.RoleAdmin {
		role = ""
	}
	list, err := s.store.Notifications(r.Context(), role)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ============================================================================
// STUDENT
// ============================================================================

func (s *Server) studentData(w http.ResponseWriter, r *http.Request) (*dashboard.StudentData, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}
	return s.demo(user).Student, true
}

func (s *Server) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.studentData(w, r); ok {
		writeJSON(w, http.StatusOK, d.Attendance)
	}
}

func (s *Server) handleStudentMarks(w http.ResponseWriter, r *http.Request) {
	d, ok := s.studentData(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"marks": d.Marks,
		"cgpa":  d.Profile.CGPA,
	})
}

func (s *Server) handleStudentFees(w http.ResponseWriter, r *http.Request) {
	d, ok := s.studentData(w, r)
	if !ok {
		return
	}
	var outstanding float64
	for _, f := range d.Fees {
		outstanding += f.Outstanding()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fees":        d.Fees,
		"outstanding": outstanding,
	})
}

func (s *Server) handleFeedbackList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Feedback(r.Context(), claimsFrom(r.Context()).Subject)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleFeedbackCreate(w http.ResponseWriter, r *http.Request) {
	var in dashboard.FeedbackInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := model.Validate(in); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	f, err := s.store.CreateFeedback(r.Context(), model.Feedback{
		Title:    in.Title,
		Message:  in.Message,
		Category: in.Category,
		Rating:   in.Rating,
	}, claimsFrom(r.Context()).Subject)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// ============================================================================
// LIBRARY
// ============================================================================

func (s *Server) handleBooksAvailable(w http.ResponseWriter, r *http.Request) {
	issued, err := s.store.IssuedBooks(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	out := []model.Book{}
	for _, b := range catalog() {
		if !issued[b.ID] {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIssueBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "bookID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid book id")
		return
	}
	known := false
	for _, b := range catalog() {
		known = known || b.ID == id
	}
	if !known {
		writeMessage(w, http.StatusNotFound, "Book not found")
		return
	}
	issued, err := s.store.IssuedBooks(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if issued[id] {
		writeMessage(w, http.StatusBadRequest, "Book is not available")
		return
	}
	username := claimsFrom(r.Context()).Subject
	if err := s.store.IssueBook(r.Context(), id, username); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.Info("book issued", zap.Int64("book_id", id), zap.String("username", username))
	writeMessage(w, http.StatusOK, "Book issued successfully")
}

// ============================================================================
// FACULTY
// ============================================================================

func (s *Server) handleAssignmentCreate(w http.ResponseWriter, r *http.Request) {
	var in dashboard.AssignmentInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := model.Validate(in); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	a, err := s.store.CreateAssignment(r.Context(), model.Assignment{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		DueDate:     in.DueDate,
		MaxMarks:    in.MaxMarks,
	}, claimsFrom(r.Context()).Subject)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.demo(user).Faculty.Subjects)
}

func decodeNotification(w http.ResponseWriter, r *http.Request) (model.Notification, bool) {
	var in dashboard.NotificationInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return model.Notification{}, false
	}
	in.TargetRole = strings.ToUpper(in.TargetRole)
	if err := model.Validate(in); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return model.Notification{}, false
	}
	return model.Notification{Title: in.Title, Message: in.Message, TargetRole: in.TargetRole}, true
}

func (s *Server) handleNotificationCreate(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeNotification(w, r)
	if !ok {
		return
	}
	created, err := s.store.CreateNotification(r.Context(), n, claimsFrom(r.Context()).Subject)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleNotificationUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid notification id")
		return
	}
	n, ok := decodeNotification(w, r)
	if !ok {
		return
	}
	err := s.store.UpdateNotification(r.Context(), id, n)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification updated")
}

func (s *Server) handleNotificationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid notification id")
		return
	}
	err := s.store.DeleteNotification(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}

// ============================================================================
// ADMIN
// ============================================================================

func adminDemo() *dashboard.AdminData {
	return dashboard.Sample(model.User{Role: model.RoleAdmin}).Admin
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := s.store.CountByRole(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	assignments, err := s.store.Assignments(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	pending, err := s.store.PendingFeedback(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	stats := model.AdminStats{
		TotalStudents:    counts[model.RoleStudent],
		TotalFaculty:     counts[model.RoleFaculty],
		TotalAssignments: len(assignments),
		PendingFeedback:  pending,
		LibraryBooks:     len(catalog()),
	}
	for _, f := range adminDemo().FeesReport {
		stats.TotalFeesCollected += f.PaidAmount
		stats.PendingFees += f.Outstanding()
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	me, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if me.ID == id {
		writeMessage(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	err := s.store.DeleteUser(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.Info("user deleted", zap.Int64("id", id), zap.String("by", me.Username))
	writeMessage(w, http.StatusOK, "User deleted")
}

func (s *Server) handleAttendanceReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, adminDemo().AttendanceReport)
}

func (s *Server) handleMarksReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, adminDemo().MarksReport)
}

func (s *Server) handleFeesReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, adminDemo().FeesReport)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByRole(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	a := adminDemo().Analytics
	a.TotalStudents = counts[model.RoleStudent]
	a.TotalFaculty = counts[model.RoleFaculty]
	writeJSON(w, http.StatusOK, a)
}

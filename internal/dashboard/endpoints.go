// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import "github.com/jeranaias/campus-tui/internal/model"

// Student endpoints.
const (
	PathStudentProfile       = "/student/profile"
	PathStudentTimetable     = "/student/timetable/today"
	PathStudentAssignments   = "/student/assignments"
	PathStudentAttendance    = "/student/attendance"
	PathStudentMarks         = "/student/marks"
	PathStudentFees          = "/student/fees"
	PathLibraryAvailable     = "/library/books/available"
	PathStudentNotifications = "/student/notifications"
	PathStudentFeedback      = "/student/feedback"
)

// Faculty endpoints.
const (
	PathFacultyProfile       = "/faculty/profile"
	PathFacultyTimetable     = "/faculty/timetable/today"
	PathFacultyAssignments   = "/faculty/assignments"
	PathFacultyNotifications = "/faculty/notifications"
	PathFacultySubjects      = "/faculty/subjects"
)

// Admin endpoints.
const (
	PathAdminDashboard         = "/admin/dashboard"
	PathAdminUsers             = "/admin/users"
	PathAdminNotifications     = "/admin/notifications"
	PathAdminAttendanceReports = "/admin/attendance/reports"
	PathAdminMarksReports      = "/admin/marks/reports"
	PathAdminFeesReports       = "/admin/fees/reports"
	PathAdminAssignmentReports = "/admin/assignments/reports"
	PathAdminAnalytics         = "/admin/analytics"
)

// Tab is one section of a dashboard.
type Tab struct {
	Key   string
	Title string
}

// Tab keys.
const (
	TabOverview      = "overview"
	TabProfile       = "profile"
	TabTimetable     = "timetable"
	TabAssignments   = "assignments"
	TabAttendance    = "attendance"
	TabMarks         = "marks"
	TabFees          = "fees"
	TabLibrary       = "library"
	TabNotifications = "notifications"
	TabFeedback      = "feedback"
	TabSubjects      = "subjects"
	TabUsers         = "users"
	TabReports       = "reports"
	TabAnalytics     = "analytics"
)

var tabsByRole = map[model.Role][]Tab{
	model.RoleStudent: {
		{TabProfile, "Profile"},
		{TabTimetable, "Timetable"},
		{TabAssignments, "Assignments"},
		{TabAttendance, "Attendance"},
		{TabMarks, "Marks"},
		{TabFees, "Fees"},
		{TabLibrary, "Library"},
		{TabNotifications, "Notifications"},
		{TabFeedback, "Feedback"},
	},
	model.RoleFaculty: {
		{TabProfile, "Profile"},
		{TabTimetable, "Timetable"},
		{TabAssignments, "Assignments"},
		{TabSubjects, "Subjects"},
		{TabNotifications, "Notifications"},
	},
	model.RoleAdmin: {
		{TabOverview, "Overview"},
		{TabUsers, "Users"},
		{TabNotifications, "Notifications"},
		{TabReports, "Reports"},
		{TabAnalytics, "Analytics"},
	},
}

// Tabs returns the tabs of role's dashboard, or nil for a role without one.
func Tabs(role model.Role) []Tab {
	tabs := tabsByRole[role]
	if tabs == nil {
		return nil
	}
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

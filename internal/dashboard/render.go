// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/util"
)

// RenderOptions controls tab rendering.
type RenderOptions struct {
	Width int
	// Style is a glamour standard style: dark, light or notty.
	Style string
}

func (o RenderOptions) width() int {
	if o.Width <= 0 {
		return 80
	}
	return o.Width
}

// Render returns the text of one tab of v.
func Render(v *View, tab string, opts RenderOptions) string {
	if v == nil {
		return ""
	}
	switch {
	case v.Student != nil:
		return renderStudent(v.Student, tab, opts)
	case v.Faculty != nil:
		return renderFaculty(v.Faculty, tab, opts)
	case v.Admin != nil:
		return renderAdmin(v.Admin, tab, opts)
	}
	return ""
}

func renderStudent(d *StudentData, tab string, opts RenderOptions) string {
	w := opts.width()
	switch tab {
	case TabProfile:
		return renderProfile(d.Profile) + fmt.Sprintf("\nAttendance  %.1f%%\nFees due    %s\n",
			d.AttendancePercent(), util.FormatAmount(d.OutstandingFees()))
	case TabTimetable:
		return timetableTable(d.Timetable, w)
	case TabAssignments:
		return assignmentTable(d.Assignments, w)
	case TabAttendance:
		return attendanceTable(d.Attendance, w)
	case TabMarks:
		return marksTable(d.Marks, w)
	case TabFees:
		return feesTable(d.Fees, w)
	case TabLibrary:
		rows := make([][]string, 0, len(d.Books))
		for _, b := range d.Books {
			rows = append(rows, []string{strconv.FormatInt(b.ID, 10), b.Title, b.Author, b.Category})
		}
		return emptyOr(rows, "No books available.", Table{Headers: []string{"ID", "Title", "Author", "Category"}, Rows: rows, MaxWidth: w})
	case TabNotifications:
		return RenderNotifications(d.Notifications, opts)
	case TabFeedback:
		rows := make([][]string, 0, len(d.Feedback))
		for _, f := range d.Feedback {
			rows = append(rows, []string{f.Title, f.Category, strconv.Itoa(f.Rating) + "/5", f.Status, f.AdminResponse})
		}
		return emptyOr(rows, "No feedback submitted.", Table{Headers: []string{"Title", "Category", "Rating", "Status", "Response"}, Rows: rows, MaxWidth: w})
	}
	return ""
}

func renderFaculty(d *FacultyData, tab string, opts RenderOptions) string {
	w := opts.width()
	switch tab {
	case TabProfile:
		return renderProfile(d.Profile)
	case TabTimetable:
		return timetableTable(d.Timetable, w)
	case TabAssignments:
		return assignmentTable(d.Assignments, w)
	case TabSubjects:
		rows := make([][]string, 0, len(d.Subjects))
		for _, s := range d.Subjects {
			rows = append(rows, []string{s.Code, s.Name, strconv.Itoa(s.Credits), strconv.Itoa(s.Students)})
		}
		return emptyOr(rows, "No subjects assigned.", Table{Headers: []string{"Code", "Subject", "Credits", "Students"}, Rows: rows, MaxWidth: w})
	case TabNotifications:
		return RenderNotifications(d.Notifications, opts)
	}
	return ""
}

func renderAdmin(d *AdminData, tab string, opts RenderOptions) string {
	w := opts.width()
	switch tab {
	case TabOverview:
		s := d.Stats
		return keyValues([][2]string{
			{"Total students", strconv.Itoa(s.TotalStudents)},
			{"Total faculty", strconv.Itoa(s.TotalFaculty)},
			{"Assignments", strconv.Itoa(s.TotalAssignments)},
			{"Fees collected", util.FormatAmount(s.TotalFeesCollected)},
			{"Fees pending", util.FormatAmount(s.PendingFees)},
			{"Pending feedback", strconv.Itoa(s.PendingFeedback)},
			{"Library books", strconv.Itoa(s.LibraryBooks)},
		})
	case TabUsers:
		rows := make([][]string, 0, len(d.Users))
		for _, u := range d.Users {
			rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Username, u.Role.String(), u.StudentID})
		}
		return emptyOr(rows, "No users.", Table{Headers: []string{"ID", "Username", "Role", "Student ID"}, Rows: rows, MaxWidth: w})
	case TabNotifications:
		return RenderNotifications(d.Notifications, opts)
	case TabReports:
		return "Attendance\n" + attendanceTable(d.AttendanceReport, w) +
			"\nMarks\n" + marksTable(d.MarksReport, w) +
			"\nFees\n" + feesTable(d.FeesReport, w) +
			"\nAssignments\n" + assignmentTable(d.AssignmentsReport, w)
	case TabAnalytics:
		a := d.Analytics
		return keyValues([][2]string{
			{"Attendance records", strconv.Itoa(a.TotalAttendanceRecords)},
			{"Attendance", fmt.Sprintf("%.1f%%", a.AttendancePercentage)},
			{"Average marks", util.FormatNumber(a.AverageMarks)},
			{"Students", strconv.Itoa(a.TotalStudents)},
			{"Faculty", strconv.Itoa(a.TotalFaculty)},
			{"Fees billed", util.FormatAmount(a.TotalFees)},
		})
	}
	return ""
}

// =============================================================================
// SHARED RENDERERS
// =============================================================================

func renderProfile(p model.Profile) string {
	pairs := [][2]string{{"Name", p.Name}}
	for _, kv := range [][2]string{
		{"Roll number", p.RollNumber},
		{"Employee ID", p.EmployeeID},
		{"Designation", p.Designation},
		{"Department", p.Department},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Year", p.AcademicYear},
		{"Semester", p.Semester},
	} {
		if kv[1] != "" {
			pairs = append(pairs, kv)
		}
	}
	if p.CGPA > 0 {
		pairs = append(pairs, [2]string{"CGPA", util.FormatNumber(p.CGPA)})
	}
	return keyValues(pairs)
}

func keyValues(pairs [][2]string) string {
	width := 0
	for _, kv := range pairs {
		if w := util.StringWidth(kv[0]); w > width {
			width = w
		}
	}
	var b strings.Builder
	for _, kv := range pairs {
		b.WriteString(util.PadWidth(kv[0], width))
		b.WriteString("  ")
		b.WriteString(kv[1])
		b.WriteByte('\n')
	}
	return b.String()
}

func emptyOr(rows [][]string, empty string, t Table) string {
	if len(rows) == 0 {
		return empty + "\n"
	}
	return t.Render()
}

func timetableTable(entries []model.TimetableEntry, width int) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.StartTime + "-" + e.EndTime, e.Subject, e.Teacher, e.Classroom})
	}
	return emptyOr(rows, "No classes today.", Table{Headers: []string{"Time", "Subject", "Teacher", "Room"}, Rows: rows, MaxWidth: width})
}

func assignmentTable(items []model.Assignment, width int) string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		status := "Pending"
		if a.Submitted {
			status = "Submitted"
		}
		score := "-/" + util.FormatNumber(a.MaxMarks)
		if a.MarksObtained != nil {
			score = util.FormatNumber(*a.MarksObtained) + "/" + util.FormatNumber(a.MaxMarks)
		}
		rows = append(rows, []string{a.Title, a.Subject, a.DueDate, status, score})
	}
	return emptyOr(rows, "No assignments.", Table{Headers: []string{"Title", "Subject", "Due", "Status", "Marks"}, Rows: rows, MaxWidth: width})
}

func attendanceTable(items []model.AttendanceRecord, width int) string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.Date, a.Subject, a.Status})
	}
	return emptyOr(rows, "No attendance records.", Table{Headers: []string{"Date", "Subject", "Status"}, Rows: rows, MaxWidth: width})
}

func marksTable(items []model.Mark, width int) string {
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{m.Subject, m.ExamType, util.FormatNumber(m.MarksObtained) + "/" + util.FormatNumber(m.MaxMarks)})
	}
	return emptyOr(rows, "No marks published.", Table{Headers: []string{"Subject", "Exam", "Score"}, Rows: rows, MaxWidth: width})
}

func feesTable(items []model.Fee, width int) string {
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		rows = append(rows, []string{f.FeeType, util.FormatAmount(f.Amount), util.FormatAmount(f.PaidAmount), util.FormatAmount(f.Outstanding()), f.DueDate, f.Status})
	}
	return emptyOr(rows, "No fees.", Table{Headers: []string{"Type", "Amount", "Paid", "Balance", "Due date", "Status"}, Rows: rows, MaxWidth: width})
}

// RenderNotifications renders notifications as markdown. Bodies are
// authored by staff and may contain markdown emphasis and lists.
func RenderNotifications(items []model.Notification, opts RenderOptions) string {
	if len(items) == 0 {
		return "No notifications.\n"
	}

	var md strings.Builder
	for i, n := range items {
		if i > 0 {
			md.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&md, "### %s\n\n", n.Title)
		if n.Message != "" {
			md.WriteString(n.Message)
			md.WriteString("\n\n")
		}
		var meta []string
		if n.CreatedBy != "" {
			meta = append(meta, "from "+n.CreatedBy)
		}
		if n.CreatedAt != "" {
			meta = append(meta, n.CreatedAt)
		}
		if len(meta) > 0 {
			fmt.Fprintf(&md, "_%s_\n", strings.Join(meta, ", "))
		}
	}
	return renderMarkdown(md.String(), opts)
}

func renderMarkdown(md string, opts RenderOptions) string {
	style := opts.Style
	if style == "" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(opts.width()),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

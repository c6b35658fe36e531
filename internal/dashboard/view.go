// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	"github.com/jeranaias/campus-tui/internal/model"
)

// View is one role's dashboard data. Exactly one of Student, Faculty and
// Admin is set, matching Role.
type View struct {
	Role     model.Role `json:"role"`
	Sample   bool       `json:"sample"`
	Err      error      `json:"-"`
	LoadedAt time.Time  `json:"loadedAt"`

	Student *StudentData `json:"student,omitempty"`
	Faculty *FacultyData `json:"faculty,omitempty"`
	Admin   *AdminData   `json:"admin,omitempty"`
}

// StudentData is the student dashboard batch.
type StudentData struct {
	Profile       model.Profile            `json:"profile"`
	Timetable     []model.TimetableEntry   `json:"timetable"`
	Assignments   []model.Assignment       `json:"assignments"`
	Attendance    []model.AttendanceRecord `json:"attendance"`
	Marks         []model.Mark             `json:"marks"`
	Fees          []model.Fee              `json:"fees"`
	Books         []model.Book             `json:"books"`
	Notifications []model.Notification     `json:"notifications"`
	Feedback      []model.Feedback         `json:"feedback"`
}

// AttendancePercent returns the share of records marked present.
func (d *StudentData) AttendancePercent() float64 {
	if len(d.Attendance) == 0 {
		return 0
	}
	present := 0
	for _, a := range d.Attendance {
		if a.Status == "PRESENT" || a.Status == "Present" {
			present++
		}
	}
	return float64(present) * 100 / float64(len(d.Attendance))
}

// OutstandingFees sums the unpaid amount over all fee lines.
func (d *StudentData) OutstandingFees() float64 {
	var total float64
	for _, f := range d.Fees {
		total += f.Outstanding()
	}
	return total
}

// FacultyData is the faculty dashboard batch.
type FacultyData struct {
	Profile       model.Profile          `json:"profile"`
	Timetable     []model.TimetableEntry `json:"timetable"`
	Assignments   []model.Assignment     `json:"assignments"`
	Notifications []model.Notification   `json:"notifications"`
	Subjects      []model.Subject        `json:"subjects"`
}

// AdminData is the admin dashboard batch.
type AdminData struct {
	Stats             model.AdminStats         `json:"stats"`
	Users             []model.UserSummary      `json:"users"`
	Notifications     []model.Notification     `json:"notifications"`
	AttendanceReport  []model.AttendanceRecord `json:"attendanceReport"`
	MarksReport       []model.Mark             `json:"marksReport"`
	FeesReport        []model.Fee              `json:"feesReport"`
	AssignmentsReport []model.Assignment       `json:"assignmentsReport"`
	Analytics         model.Analytics          `json:"analytics"`
}

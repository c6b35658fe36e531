// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"github.com/jeranaias/campus-tui/internal/model"
)

// Sample returns the demonstration view for user's role, flagged Sample.
// Identity fields come from user so the screen still reads as theirs.
// It returns an empty sample view for roles without a dashboard.
func Sample(user model.User) *View {
	v := &View{Role: user.Role, Sample: true}
	switch user.Role {
	case model.RoleStudent:
		v.Student = sampleStudent(user)
	case model.RoleFaculty:
		v.Faculty = sampleFaculty(user)
	case model.RoleAdmin:
		v.Admin = sampleAdmin()
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func sampleTimetable(teacher string) []model.TimetableEntry {
	return []model.TimetableEntry{
		{ID: 1, Subject: "Data Structures", Teacher: teacher, Classroom: "Room 101", StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, Subject: "Database Systems", Teacher: teacher, Classroom: "Room 102", StartTime: "10:15", EndTime: "11:15"},
		{ID: 3, Subject: "Operating Systems", Teacher: teacher, Classroom: "Lab 2", StartTime: "11:30", EndTime: "12:30"},
		{ID: 4, Subject: "Computer Networks", Teacher: teacher, Classroom: "Room 204", StartTime: "14:00", EndTime: "15:00"},
	}
}

func sampleNotifications() []model.Notification {
	return []model.Notification{
		{ID: 1, Title: "Mid-term schedule", Message: "Mid-term examinations start **next Monday**. Check the timetable tab.", CreatedBy: "admin"},
		{ID: 2, Title: "Library hours", Message: "The library is open until 20:00 during exam weeks.", CreatedBy: "admin"},
	}
}

func sampleAssignments() []model.Assignment {
	obtained := 18.0
	return []model.Assignment{
		{ID: 1, Title: "Linked list implementation", Subject: "Data Structures", DueDate: "2025-02-10", MaxMarks: 20, Submitted: true, MarksObtained: &obtained},
		{ID: 2, Title: "ER diagram for library system", Subject: "Database Systems", DueDate: "2025-02-17", MaxMarks: 25},
		{ID: 3, Title: "Process scheduling simulation", Subject: "Operating Systems", DueDate: "2025-02-24", MaxMarks: 30},
	}
}

func sampleStudent(user model.User) *StudentData {
	return &StudentData{
		Profile: model.Profile{
			ID:           user.ID,
			Name:         orDefault(user.DisplayName(), "Student Name"),
			RollNumber:   orDefault(user.GeneratedID, "STU2025001"),
			Department:   orDefault(user.Department, "Computer Science Engineering"),
			Email:        orDefault(user.Email, "student@college.edu"),
			CGPA:         8.5,
			AcademicYear: "2024-25",
			Semester:     "5",
		},
		Timetable:   sampleTimetable(""),
		Assignments: sampleAssignments(),
		Attendance: []model.AttendanceRecord{
			{ID: 1, Subject: "Data Structures", Date: "2025-01-20", Status: "PRESENT"},
			{ID: 2, Subject: "Database Systems", Date: "2025-01-20", Status: "PRESENT"},
			{ID: 3, Subject: "Operating Systems", Date: "2025-01-21", Status: "ABSENT"},
			{ID: 4, Subject: "Computer Networks", Date: "2025-01-21", Status: "PRESENT"},
		},
		Marks: []model.Mark{
			{ID: 1, Subject: "Data Structures", ExamType: "Mid-term", MarksObtained: 42, MaxMarks: 50},
			{ID: 2, Subject: "Database Systems", ExamType: "Mid-term", MarksObtained: 38, MaxMarks: 50},
			{ID: 3, Subject: "Operating Systems", ExamType: "Quiz", MarksObtained: 9, MaxMarks: 10},
		},
		Fees: []model.Fee{
			{ID: 1, FeeType: "Tuition", Amount: 50000, PaidAmount: 50000, DueDate: "2025-01-15", Status: "PAID"},
			{ID: 2, FeeType: "Library", Amount: 1500, PaidAmount: 0, DueDate: "2025-03-01", Status: "PENDING"},
		},
		Books: []model.Book{
			{ID: 1, Title: "Introduction to Algorithms", Author: "Cormen et al.", Category: "Computer Science", Available: true},
			{ID: 2, Title: "Operating System Concepts", Author: "Silberschatz", Category: "Computer Science", Available: true},
		},
		Notifications: sampleNotifications(),
		Feedback: []model.Feedback{
			{ID: 1, Title: "Lab equipment", Message: "Several lab machines need RAM upgrades.", Category: "Infrastructure", Rating: 3, Status: "OPEN"},
		},
	}
}

func sampleFaculty(user model.User) *FacultyData {
	name := orDefault(user.DisplayName(), "Faculty")
	return &FacultyData{
		Profile: model.Profile{
			ID:          user.ID,
			Name:        name,
			EmployeeID:  orDefault(user.GeneratedID, "FAC2025001"),
			Designation: "Assistant Professor",
			Department:  orDefault(user.Department, "Computer Science"),
			Email:       orDefault(user.Email, "faculty@school.edu"),
		},
		Timetable:     sampleTimetable(name),
		Assignments:   sampleAssignments(),
		Notifications: sampleNotifications(),
		Subjects: []model.Subject{
			{ID: 1, Name: "Operating Systems", Code: "CS301", Credits: 4, Students: 60},
			{ID: 2, Name: "Database Systems", Code: "CS302", Credits: 4, Students: 58},
		},
	}
}

func sampleAdmin() *AdminData {
	return &AdminData{
		Stats: model.AdminStats{
			TotalStudents:      420,
			TotalFaculty:       36,
			TotalAssignments:   75,
			TotalFeesCollected: 1250000,
			PendingFees:        86000,
			PendingFeedback:    7,
			LibraryBooks:       2300,
		},
		Users: []model.UserSummary{
			{ID: 1, Username: "admin", Role: model.RoleAdmin},
			{ID: 2, Username: "prof.rao", Role: model.RoleFaculty},
			{ID: 3, Username: "stud1", Role: model.RoleStudent, StudentID: "STU250001"},
		},
		Notifications: sampleNotifications(),
		AttendanceReport: []model.AttendanceRecord{
			{ID: 1, Subject: "Data Structures", Date: "2025-01-20", Status: "PRESENT"},
			{ID: 2, Subject: "Operating Systems", Date: "2025-01-21", Status: "ABSENT"},
		},
		MarksReport: []model.Mark{
			{ID: 1, Subject: "Data Structures", ExamType: "Mid-term", MarksObtained: 42, MaxMarks: 50},
		},
		FeesReport: []model.Fee{
			{ID: 1, FeeType: "Tuition", Amount: 50000, PaidAmount: 50000, Status: "PAID"},
			{ID: 2, FeeType: "Library", Amount: 1500, Status: "PENDING"},
		},
		AssignmentsReport: sampleAssignments(),
		Analytics: model.Analytics{
			TotalAttendanceRecords: 1840,
			AttendancePercentage:   86.4,
			AverageMarks:           71.2,
			TotalStudents:          420,
			TotalFaculty:           36,
			TotalFees:              1336000,
		},
	}
}

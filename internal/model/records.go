// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Dashboard payloads mirror the backend's JSON 1:1. They carry no derived
// invariants beyond the validate tags checked at the API boundary.

// =============================================================================
// STUDENT
// =============================================================================

// Profile is a student or faculty profile.
type Profile struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name" validate:"required"`
	RollNumber   string  `json:"rollNumber,omitempty"`
	EmployeeID   string  `json:"employeeId,omitempty"`
	Designation  string  `json:"designation,omitempty"`
	Department   string  `json:"department,omitempty"`
	Email        string  `json:"email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	CGPA         float64 `json:"cgpa,omitempty" validate:"gte=0,lte=10"`
	AcademicYear string  `json:"academicYear,omitempty"`
	Semester     string  `json:"semester,omitempty"`
}

// TimetableEntry is one scheduled class.
type TimetableEntry struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject" validate:"required"`
	Teacher   string `json:"teacher,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	DayOfWeek string `json:"dayOfWeek,omitempty"`
}

// Assignment is a piece of coursework.
type Assignment struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	DueDate        string   `json:"dueDate,omitempty"`
	MaxMarks       float64  `json:"maxMarks" validate:"gte=0"`
	AssignedBy     string   `json:"assignedBy,omitempty"`
	Submitted      bool     `json:"submitted"`
	SubmissionDate string   `json:"submissionDate,omitempty"`
	MarksObtained  *float64 `json:"marksObtained,omitempty"`
}

// AttendanceRecord is one attendance mark for one class.
type AttendanceRecord struct {
	ID       int64  `json:"id"`
	Subject  string `json:"subject" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Status   string `json:"status" validate:"required"`
	MarkedBy string `json:"markedBy,omitempty"`
}

// Mark is one exam result.
type Mark struct {
	ID            int64   `json:"id"`
	Subject       string  `json:"subject" validate:"required"`
	ExamType      string  `json:"examType,omitempty"`
	MarksObtained float64 `json:"marksObtained" validate:"gte=0"`
	MaxMarks      float64 `json:"maxMarks" validate:"gte=0"`
	Semester      string  `json:"semester,omitempty"`
	AcademicYear  string  `json:"academicYear,omitempty"`
}

// Fee is one fee line for a student.
type Fee struct {
	ID         int64   `json:"id"`
	FeeType    string  `json:"feeType" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	PaidAmount float64 `json:"paidAmount" validate:"gte=0"`
	DueDate    string  `json:"dueDate,omitempty"`
	Status     string  `json:"status,omitempty"`
}

// Outstanding returns the unpaid remainder, never negative.
func (f Fee) Outstanding() float64 {
	if f.PaidAmount >= f.Amount {
		return 0
	}
	return f.Amount - f.PaidAmount
}

// Book is a library catalogue entry.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author,omitempty"`
	Category  string `json:"category,omitempty"`
	Available bool   `json:"available"`
}

// Notification is a broadcast message.
type Notification struct {
	ID         int64  `json:"id"`
	Title      string `json:"title" validate:"required"`
	Message    string `json:"message,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	CreatedBy  string `json:"createdBy,omitempty"`
	TargetRole string `json:"targetRole,omitempty"`
}

// Feedback is a student's feedback entry and the admin response to it.
type Feedback struct {
	ID            int64  `json:"id"`
	Title         string `json:"title" validate:"required"`
	Message       string `json:"message,omitempty"`
	Category      string `json:"category,omitempty"`
	Rating        int    `json:"rating" validate:"gte=0,lte=5"`
	Subject       string `json:"subject,omitempty"`
	Status        string `json:"status,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	AdminResponse string `json:"adminResponse,omitempty"`
}

// =============================================================================
// FACULTY
// =============================================================================

// Subject is a course taught by a faculty member.
type Subject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code,omitempty"`
	Credits  int    `json:"credits,omitempty" validate:"gte=0"`
	Students int    `json:"students,omitempty" validate:"gte=0"`
}

// =============================================================================
// ADMIN
// =============================================================================

// AdminStats is the admin overview.
type AdminStats struct {
	TotalStudents      int     `json:"totalStudents" validate:"gte=0"`
	TotalFaculty       int     `json:"totalFaculty" validate:"gte=0"`
	TotalAssignments   int     `json:"totalAssignments" validate:"gte=0"`
	TotalFeesCollected float64 `json:"totalFeesCollected" validate:"gte=0"`
	PendingFees        float64 `json:"pendingFees" validate:"gte=0"`
	PendingFeedback    int     `json:"pendingFeedback" validate:"gte=0"`
	LibraryBooks       int     `json:"libraryBooks" validate:"gte=0"`
}

// Analytics is the admin analytics summary.
type Analytics struct {
	TotalAttendanceRecords int     `json:"totalAttendanceRecords" validate:"gte=0"`
	AttendancePercentage   float64 `json:"attendancePercentage" validate:"gte=0,lte=100"`
	AverageMarks           float64 `json:"averageMarks" validate:"gte=0"`
	TotalStudents          int     `json:"totalStudents" validate:"gte=0"`
	TotalFaculty           int     `json:"totalFaculty" validate:"gte=0"`
	TotalFees              float64 `json:"totalFees" validate:"gte=0"`
}

// UserSummary is a row of the admin user list.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username" validate:"required"`
	Role      Role   `json:"role" validate:"required"`
	StudentID string `json:"studentId,omitempty"`
}

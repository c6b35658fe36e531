// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/model"
)

// Writer is the write half of api.Client.
type Writer interface {
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// ErrActionNotPermitted is returned when role has no endpoint for an action.
var ErrActionNotPermitted = errors.New("action not permitted for role")

// NotificationInput is the body of a new or edited notification.
type NotificationInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Message    string `json:"message" validate:"required"`
	TargetRole string `json:"targetRole,omitempty" validate:"omitempty,oneof=ALL STUDENT FACULTY ADMIN"`
}

// AssignmentInput is the body of a new assignment.
type AssignmentInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty"`
	Subject     string  `json:"subject" validate:"required"`
	DueDate     string  `json:"dueDate" validate:"required"`
	MaxMarks    float64 `json:"maxMarks" validate:"gt=0"`
}

// FeedbackInput is a student's feedback submission.
type FeedbackInput struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Category string `json:"category,omitempty"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
}

// Actions performs the write operations offered on the dashboards.
type Actions struct {
	client Writer
}

// NewActions wraps client.
func NewActions(client Writer) *Actions {
	return &Actions{client: client}
}

func notificationsPath(role model.Role) (string, error) {
	switch role {
	case model.RoleFaculty:
		return PathFacultyNotifications, nil
	case model.RoleAdmin:
		return PathAdminNotifications, nil
	}
	return "", errors.Wrapf(ErrActionNotPermitted, "notifications as %q", role)
}

// PostNotification publishes a notification as role (FACULTY or ADMIN).
func (a *Actions) PostNotification(ctx context.Context, role model.Role, in NotificationInput) (*model.Notification, error) {
	path, err := notificationsPath(role)
	if err != nil {
		return nil, err
	}
	in.TargetRole = strings.ToUpper(in.TargetRole)
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	var out model.Notification
	if err := a.client.Post(ctx, path, in, &out); err != nil {
		return nil, errors.Wrap(err, "post notification")
	}
	return &out, nil
}

// UpdateNotification edits a notification posted as role.
func (a *Actions) UpdateNotification(ctx context.Context, role model.Role, id int64, in NotificationInput) error {
	path, err := notificationsPath(role)
	if err != nil {
		return err
	}
	in.TargetRole = strings.ToUpper(in.TargetRole)
	if err := model.Validate(in); err != nil {
		return err
	}
	return errors.Wrap(a.client.Put(ctx, fmt.Sprintf("%s/%d", path, id), in, nil), "update notification")
}

// DeleteNotification removes a notification posted as role.
func (a *Actions) DeleteNotification(ctx context.Context, role model.Role, id int64) error {
	path, err := notificationsPath(role)
	if err != nil {
		return err
	}
	return errors.Wrap(a.client.Delete(ctx, fmt.Sprintf("%s/%d", path, id), nil), "delete notification")
}

// CreateAssignment publishes an assignment (faculty).
func (a *Actions) CreateAssignment(ctx context.Context, in AssignmentInput) (*model.Assignment, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	var out model.Assignment
	if err := a.client.Post(ctx, PathFacultyAssignments, in, &out); err != nil {
		return nil, errors.Wrap(err, "create assignment")
	}
	return &out, nil
}

// SubmitFeedback files student feedback.
func (a *Actions) SubmitFeedback(ctx context.Context, in FeedbackInput) (*model.Feedback, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	var out model.Feedback
	if err := a.client.Post(ctx, PathStudentFeedback, in, &out); err != nil {
		return nil, errors.Wrap(err, "submit feedback")
	}
	return &out, nil
}

// IssueBook requests a library book for the logged-in student.
func (a *Actions) IssueBook(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return model.ValidationErrors{{Field: "bookId", Rule: "gt", Param: "0"}}
	}
	return errors.Wrap(a.client.Post(ctx, fmt.Sprintf("/library/books/%d/issue", bookID), nil, nil), "issue book")
}

// DeleteUser removes a user account (admin).
func (a *Actions) DeleteUser(ctx context.Context, id int64) error {
	return errors.Wrap(a.client.Delete(ctx, fmt.Sprintf("%s/%d", PathAdminUsers, id), nil), "delete user")
}

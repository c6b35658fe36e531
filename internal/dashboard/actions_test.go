// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-tui/internal/api"
	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/session"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func recordingActions(t *testing.T) (*Actions, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			json.Unmarshal(data, &rec.body)
		}
		calls = append(calls, rec)
		w.Write([]byte(`{"id":9,"title":"created"}`))
	}))
	t.Cleanup(srv.Close)
	return NewActions(api.NewClient(srv.URL, session.NewMemoryStore())), &calls
}

func TestActions_PostNotification(t *testing.T) {
	a, calls := recordingActions(t)
	ctx := context.Background()

	n, err := a.PostNotification(ctx, model.RoleFaculty, NotificationInput{Title: "Quiz", Message: "Friday", TargetRole: "student"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), n.ID)

	_, err = a.PostNotification(ctx, model.RoleAdmin, NotificationInput{Title: "Holiday", Message: "Closed"})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, recorded{"POST", PathFacultyNotifications, map[string]any{"title": "Quiz", "message": "Friday", "targetRole": "STUDENT"}}, (*calls)[0])
	assert.Equal(t, PathAdminNotifications, (*calls)[1].path)

	_, err = a.PostNotification(ctx, model.RoleStudent, NotificationInput{Title: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrActionNotPermitted)

	_, err = a.PostNotification(ctx, model.RoleAdmin, NotificationInput{Title: "", Message: "y"})
	var verrs model.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Len(t, *calls, 2, "invalid input never reaches the backend")
}

func TestActions_Paths(t *testing.T) {
	a, calls := recordingActions(t)
	ctx := context.Background()

	require.NoError(t, a.UpdateNotification(ctx, model.RoleAdmin, 3, NotificationInput{Title: "t", Message: "m"}))
	require.NoError(t, a.DeleteNotification(ctx, model.RoleFaculty, 4))
	require.NoError(t, a.IssueBook(ctx, 12))
	require.NoError(t, a.DeleteUser(ctx, 5))
	fb, err := a.SubmitFeedback(ctx, FeedbackInput{Title: "Wifi", Message: "slow", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(9), fb.ID)
	_, err = a.CreateAssignment(ctx, AssignmentInput{Title: "Lab 2", Subject: "OS", DueDate: "2025-03-01", MaxMarks: 10})
	require.NoError(t, err)

	got := make([]string, 0, len(*calls))
	for _, c := range *calls {
		got = append(got, c.method+" "+c.path)
	}
	assert.Equal(t, []string{
		"PUT /admin/notifications/3",
		"DELETE /faculty/notifications/4",
		"POST /library/books/12/issue",
		"DELETE /admin/users/5",
		"POST /student/feedback",
		"POST /faculty/assignments",
	}, got)
}

func TestActions_NotificationEditsFollowRole(t *testing.T) {
	a, calls := recordingActions(t)
	ctx := context.Background()

	require.NoError(t, a.UpdateNotification(ctx, model.RoleFaculty, 5, NotificationInput{Title: "Quiz", Message: "Moved to Monday", TargetRole: "student"}))
	require.NoError(t, a.UpdateNotification(ctx, model.RoleAdmin, 6, NotificationInput{Title: "Holiday", Message: "Closed"}))

	require.Len(t, *calls, 2)
	assert.Equal(t, recorded{"PUT", PathFacultyNotifications + "/5", map[string]any{"title": "Quiz", "message": "Moved to Monday", "targetRole": "STUDENT"}}, (*calls)[0])
	assert.Equal(t, "PUT "+PathAdminNotifications+"/6", (*calls)[1].method+" "+(*calls)[1].path)

	err := a.UpdateNotification(ctx, model.RoleStudent, 5, NotificationInput{Title: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrActionNotPermitted)
	assert.ErrorIs(t, a.DeleteNotification(ctx, model.RoleStudent, 5), ErrActionNotPermitted)
	assert.Len(t, *calls, 2)
}

func TestActions_Validation(t *testing.T) {
	a, calls := recordingActions(t)
	ctx := context.Background()

	assert.Error(t, a.IssueBook(ctx, 0))
	_, err := a.SubmitFeedback(ctx, FeedbackInput{Title: "x", Message: "y", Rating: 9})
	assert.Error(t, err)
	_, err = a.CreateAssignment(ctx, AssignmentInput{Title: "x"})
	assert.Error(t, err)
	assert.Empty(t, *calls)
}

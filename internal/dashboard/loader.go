// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/campus-tui/internal/model"
)

// ErrNoDashboard is returned for a role that has no dashboard.
var ErrNoDashboard = errors.New("no dashboard for role")

// Getter is the read half of api.Client.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Loader fetches dashboard batches.
type Loader struct {
	client         Getter
	log            *zap.Logger
	sampleFallback bool
	now            func() time.Time
}

// NewLoader creates a loader. With sampleFallback set, failed batches
// yield labelled sample views instead of errors.
func NewLoader(client Getter, sampleFallback bool, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		client:         client,
		log:            log.Named("dashboard"),
		sampleFallback: sampleFallback,
		now:            time.Now,
	}
}

// Load runs user's role batch. The context bounds every request; when it
// is cancelled the batch fails with the context error and no sample data
// is substituted.
func (l *Loader) Load(ctx context.Context, user model.User) (*View, error) {
	var (
		view *View
		err  error
	)
	switch user.Role {
	case model.RoleStudent:
		view, err = l.loadStudent(ctx)
	case model.RoleFaculty:
		view, err = l.loadFaculty(ctx)
	case model.RoleAdmin:
		view, err = l.loadAdmin(ctx)
	default:
		return nil, errors.Wrapf(ErrNoDashboard, "%q", user.Role)
	}

	if err == nil {
		view.Role = user.Role
		view.LoadedAt = l.now()
		return view, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !l.sampleFallback {
		return nil, err
	}

	l.log.Warn("dashboard batch failed, showing sample data",
		zap.String("role", user.Role.String()),
		zap.Error(err),
	)
	sample := Sample(user)
	sample.Err = err
	sample.LoadedAt = l.now()
	return sample, nil
}

func (l *Loader) loadStudent(ctx context.Context) (*View, error) {
	d := &StudentData{}
	g, ctx := errgroup.WithContext(ctx)

	getOne(ctx, g, l.client, PathStudentProfile, &d.Profile)
	getList(ctx, g, l.client, PathStudentTimetable, "timetable", &d.Timetable)
	getList(ctx, g, l.client, PathStudentAssignments, "", &d.Assignments)
	getList(ctx, g, l.client, PathStudentAttendance, "", &d.Attendance)
	getList(ctx, g, l.client, PathStudentMarks, "marks", &d.Marks)
	getList(ctx, g, l.client, PathStudentFees, "fees", &d.Fees)
	getList(ctx, g, l.client, PathLibraryAvailable, "", &d.Books)
	getList(ctx, g, l.client, PathStudentNotifications, "", &d.Notifications)
	getList(ctx, g, l.client, PathStudentFeedback, "", &d.Feedback)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &View{Student: d}, nil
}

func (l *Loader) loadFaculty(ctx context.Context) (*View, error) {
	d := &FacultyData{}
	g, ctx := errgroup.WithContext(ctx)

	getOne(ctx, g, l.client, PathFacultyProfile, &d.Profile)
	getList(ctx, g, l.client, PathFacultyTimetable, "timetable", &d.Timetable)
	getList(ctx, g, l.client, PathFacultyAssignments, "", &d.Assignments)
	getList(ctx, g, l.client, PathFacultyNotifications, "", &d.Notifications)
	getList(ctx, g, l.client, PathFacultySubjects, "", &d.Subjects)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &View{Faculty: d}, nil
}

func (l *Loader) loadAdmin(ctx context.Context) (*View, error) {
	d := &AdminData{}
	g, ctx := errgroup.WithContext(ctx)

	getOne(ctx, g, l.client, PathAdminDashboard, &d.Stats)
	getList(ctx, g, l.client, PathAdminUsers, "", &d.Users)
	getList(ctx, g, l.client, PathAdminNotifications, "", &d.Notifications)
	getList(ctx, g, l.client, PathAdminAttendanceReports, "", &d.AttendanceReport)
	getList(ctx, g, l.client, PathAdminMarksReports, "", &d.MarksReport)
	getList(ctx, g, l.client, PathAdminFeesReports, "", &d.FeesReport)
	getList(ctx, g, l.client, PathAdminAssignmentReports, "", &d.AssignmentsReport)
	getOne(ctx, g, l.client, PathAdminAnalytics, &d.Analytics)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &View{Admin: d}, nil
}

// =============================================================================
// TYPED FETCHES
// =============================================================================

// getOne fetches path into dst and validates it.
func getOne[T any](ctx context.Context, g *errgroup.Group, c Getter, path string, dst *T) {
	g.Go(func() error {
		var v T
		if err := c.Get(ctx, path, &v); err != nil {
			return errors.Wrapf(err, "GET %s", path)
		}
		if err := model.Validate(v); err != nil {
			return errors.Wrapf(err, "GET %s", path)
		}
		*dst = v
		return nil
	})
}

// getList fetches a list at path. The backend returns either a bare array
// or an object wrapping it under envelope (e.g. {"marks": [...]}).
func getList[T any](ctx context.Context, g *errgroup.Group, c Getter, path, envelope string, dst *[]T) {
	g.Go(func() error {
		var raw json.RawMessage
		if err := c.Get(ctx, path, &raw); err != nil {
			return errors.Wrapf(err, "GET %s", path)
		}
		items, err := decodeList[T](raw, envelope)
		if err != nil {
			return errors.Wrapf(err, "GET %s", path)
		}
		if err := model.ValidateAll(items); err != nil {
			return errors.Wrapf(err, "GET %s", path)
		}
		*dst = items
		return nil
	})
}

func decodeList[T any](raw json.RawMessage, envelope string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		if envelope == "" {
			return nil, errors.New("expected a JSON array, got an object")
		}
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, errors.Wrap(err, "decode envelope")
		}
		inner, ok := wrapper[envelope]
		if !ok {
			return []T{}, nil
		}
		return decodeList[T](inner, "")
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, "decode list")
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

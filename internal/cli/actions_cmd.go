// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// WRITE ACTIONS
// =============================================================================

// actionError wraps a failed dashboard action for command, keeping the
// backend's message.
func actionError(command string, err error) error {
	return &CommandError{Command: command, Reason: requestMessage(err), Err: err}
}

// requireRole restores the session and checks the user's role.
func requireRole(ctx context.Context, env *Env, command string, roles ...model.Role) (*model.User, error) {
	user, err := requireUser(ctx, env)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ToLower(r.DisplayName())
	}
	return nil, &CommandError{
		Command: command,
		Reason:  "only " + strings.Join(names, " and ") + " accounts can do this",
		Err:     dashboard.ErrActionNotPermitted,
	}
}

func success(env *Env, format string, a ...any) {
	fmt.Fprintln(env.Out, RenderConditional(SuccessStyle, "✓ ")+fmt.Sprintf(format, a...))
}

// HandleNotify publishes, edits (--edit ID) or deletes (--delete ID) a
// notification as the logged-in faculty member or admin.
func HandleNotify(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	in := dashboard.NotificationInput{
		Title:      p.Flag("title", "t"),
		Message:    p.Flag("message", "m"),
		TargetRole: p.Flag("target"),
	}
	if in.Message == "" && p.PositionalCount() > 0 {
		in.Message = strings.Join(p.PositionalFrom(0), " ")
	}

	var editID, deleteID int64
	var err error
	if p.HasFlag("edit") {
		if editID, err = ParseID(p.Flag("edit"), "--edit"); err != nil {
			return err
		}
	}
	if p.HasFlag("delete") {
		if deleteID, err = ParseID(p.Flag("delete"), "--delete"); err != nil {
			return err
		}
	}
	if editID != 0 && deleteID != 0 {
		return &UsageError{Message: "--edit and --delete cannot be combined"}
	}

	return OutputJSON(env.Out, args.JSON, "notify", func() (any, error) {
		user, err := requireUser(ctx, env)
		if err != nil {
			return nil, err
		}

		switch {
		case deleteID != 0:
			if err := env.Actions.DeleteNotification(ctx, user.Role, deleteID); err != nil {
				return nil, actionError("notify", err)
			}
			if !args.JSON {
				success(env, "Deleted notification #%d", deleteID)
			}
			return map[string]int64{"deleted": deleteID}, nil

		case editID != 0:
			if err := env.Actions.UpdateNotification(ctx, user.Role, editID, in); err != nil {
				return nil, actionError("notify", err)
			}
			if !args.JSON {
				success(env, "Updated notification #%d %q", editID, in.Title)
			}
			return map[string]any{"updated": editID, "title": in.Title}, nil
		}

		n, err := env.Actions.PostNotification(ctx, user.Role, in)
		if err != nil {
			return nil, actionError("notify", err)
		}
		if !args.JSON {
			success(env, "Published notification #%d %q", n.ID, n.Title)
		}
		return n, nil
	})
}

// HandleIssue borrows a library book for the logged-in student.
func HandleIssue(ctx context.Context, env *Env, args Args) error {
	raw := args.Parser.Flag("book", "b")
	if raw == "" {
		raw = args.Parser.Positional(0)
	}
	id, err := ParseID(raw, "book id")
	if err != nil {
		return err
	}

	return OutputJSON(env.Out, args.JSON, "issue", func() (any, error) {
		if _, err := requireRole(ctx, env, "issue", model.RoleStudent); err != nil {
			return nil, err
		}
		if err := env.Actions.IssueBook(ctx, id); err != nil {
			return nil, actionError("issue", err)
		}
		if !args.JSON {
			success(env, "Book #%d issued", id)
		}
		return map[string]int64{"bookId": id}, nil
	})
}

// HandleFeedback files feedback as the logged-in student.
func HandleFeedback(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	rating, err := p.FlagInt("rating", 0)
	if err != nil {
		return err
	}
	in := dashboard.FeedbackInput{
		Title:    p.Flag("title", "t"),
		Message:  p.Flag("message", "m"),
		Category: p.Flag("category", "c"),
		Rating:   rating,
	}
	if in.Message == "" && p.PositionalCount() > 0 {
		in.Message = strings.Join(p.PositionalFrom(0), " ")
	}

	return OutputJSON(env.Out, args.JSON, "feedback", func() (any, error) {
		if _, err := requireRole(ctx, env, "feedback", model.RoleStudent); err != nil {
			return nil, err
		}
		fb, err := env.Actions.SubmitFeedback(ctx, in)
		if err != nil {
			return nil, actionError("feedback", err)
		}
		if !args.JSON {
			success(env, "Submitted feedback #%d %q", fb.ID, fb.Title)
		}
		return fb, nil
	})
}

// HandleAssign publishes an assignment as the logged-in faculty member.
func HandleAssign(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	in := dashboard.AssignmentInput{
		Title:       p.Flag("title", "t"),
		Description: p.Flag("description", "d"),
		Subject:     p.Flag("subject", "s"),
		DueDate:     p.Flag("due"),
	}
	if raw := p.Flag("max-marks"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &UsageError{Message: "--max-marks must be a number"}
		}
		in.MaxMarks = v
	}

	return OutputJSON(env.Out, args.JSON, "assign", func() (any, error) {
		if _, err := requireRole(ctx, env, "assign", model.RoleFaculty); err != nil {
			return nil, err
		}
		a, err := env.Actions.CreateAssignment(ctx, in)
		if err != nil {
			return nil, actionError("assign", err)
		}
		if !args.JSON {
			success(env, "Created assignment #%d %q (%s, due %s)", a.ID, a.Title, a.Subject, a.DueDate)
		}
		return a, nil
	})
}

// HandleUsers lists accounts ("campus users") or removes one
// ("campus users delete ID"). Admin only.
func HandleUsers(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	sub := p.Subcommand()
	if sub == "" {
		sub = "list"
	}

	switch sub {
	case "list":
		return OutputJSON(env.Out, args.JSON, "users", func() (any, error) {
			if _, err := requireRole(ctx, env, "users", model.RoleAdmin); err != nil {
				return nil, err
			}
			var users []model.UserSummary
			if err := env.Client.Get(ctx, dashboard.PathAdminUsers, &users); err != nil {
				return nil, actionError("users", err)
			}
			if !args.JSON {
				for _, u := range users {
					line := fmt.Sprintf("%-6d %-20s %s", u.ID, u.Username, u.Role.DisplayName())
					if u.StudentID != "" {
						line += "  " + DimStyle.Render(u.StudentID)
					}
					fmt.Fprintln(env.Out, line)
				}
			}
			return users, nil
		})

	case "delete", "rm":
		id, err := ParseID(p.Positional(1), "user id")
		if err != nil {
			return err
		}
		return OutputJSON(env.Out, args.JSON, "users", func() (any, error) {
			if _, err := requireRole(ctx, env, "users", model.RoleAdmin); err != nil {
				return nil, err
			}
			if err := env.Actions.DeleteUser(ctx, id); err != nil {
				return nil, actionError("users", err)
			}
			if !args.JSON {
				success(env, "Deleted user #%d", id)
			}
			return map[string]int64{"deleted": id}, nil
		})
	}
	return &UsageError{Message: fmt.Sprintf("unknown users subcommand %q (want list or delete)", sub)}
}

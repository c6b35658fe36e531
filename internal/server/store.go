// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// SCHEMA
// =============================================================================

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		student_id    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		message     TEXT NOT NULL,
		target_role TEXT NOT NULL DEFAULT 'ALL',
		created_by  TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		subject     TEXT NOT NULL,
		due_date    TEXT NOT NULL,
		max_marks   REAL NOT NULL,
		assigned_by TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		rating     INTEGER NOT NULL,
		status     TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_issues (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id   INTEGER NOT NULL,
		username  TEXT NOT NULL,
		issued_at TIMESTAMP NOT NULL
	)`,
}

// =============================================================================
// STORE
// =============================================================================

// UserRecord is a stored account.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         model.Role
	StudentID    string
	CreatedAt    time.Time
}

// Summary converts the record to its admin list row.
func (u UserRecord) Summary() model.UserSummary {
	return model.UserSummary{ID: u.ID, Username: u.Username, Role: u.Role, StudentID: u.StudentID}
}

// Store persists the backend's mutable state in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open server database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range append([]string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}, schema...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "init database: %s", firstLine(stmt))
		}
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts an account. Students get a generated STU<yy><nnnn> id
// numbered by the user count.
func (s *Store) CreateUser(ctx context.Context, username, hash string, role model.Role) (*UserRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&exists); err != nil {
		return nil, errors.Wrap(err, "check username")
	}
	if exists > 0 {
		return nil, ErrUserExists
	}

	now := s.now().UTC()
	studentID := ""
	if role == model.RoleStudent {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
			return nil, errors.Wrap(err, "count users")
		}
		studentID = fmt.Sprintf("STU%02d%04d", now.Year()%100, count+1)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, student_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, hash, role.String(), studentID, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "user id")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit user")
	}

	return &UserRecord{ID: id, Username: username, PasswordHash: hash, Role: role, StudentID: studentID, CreatedAt: now}, nil
}

const userColumns = `id, username, password_hash, role, student_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (*UserRecord, error) {
	var u UserRecord
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.StudentID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan user")
	}
	u.Role = model.ParseRole(role)
	return &u, nil
}

// UserByName looks up an account.
func (s *Store) UserByName(ctx context.Context, username string) (*UserRecord, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// Users lists every account in id order.
func (s *Store) Users(ctx context.Context) ([]UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	var out []UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, errors.Wrap(rows.Err(), "read users")
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "users", id)
}

// CountByRole returns the number of accounts per role.
func (s *Store) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, errors.Wrap(err, "count roles")
	}
	defer rows.Close()

	out := make(map[model.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, errors.Wrap(err, "scan role count")
		}
		out[model.ParseRole(role)] = n
	}
	return out, errors.Wrap(rows.Err(), "read role counts")
}

// HasAdmin reports whether an ADMIN account exists.
func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	counts, err := s.CountByRole(ctx)
	if err != nil {
		return false, err
	}
	return counts[model.RoleAdmin] > 0, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// CreateNotification stores a notification posted by author.
func (s *Store) CreateNotification(ctx context.Context, n model.Notification, author string) (*model.Notification, error) {
	if n.TargetRole == "" {
		n.TargetRole = "ALL"
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (title, message, target_role, created_by, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.Title, n.Message, n.TargetRole, author, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert notification")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "notification id")
	}
	n.ID, n.CreatedBy, n.CreatedAt = id, author, now.Format(time.RFC3339)
	return &n, nil
}

// UpdateNotification replaces a notification's content.
func (s *Store) UpdateNotification(ctx context.Context, id int64, n model.Notification) error {
	if n.TargetRole == "" {
		n.TargetRole = "ALL"
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET title = ?, message = ?, target_role = ? WHERE id = ?`,
		n.Title, n.Message, n.TargetRole, id)
	if err != nil {
		return errors.Wrap(err, "update notification")
	}
	return affected(res)
}

// DeleteNotification removes a notification.
func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "notifications", id)
}

// Notifications lists notifications visible to role, newest first. An
// empty role lists all of them.
func (s *Store) Notifications(ctx context.Context, role model.Role) ([]model.Notification, error) {
	query := `SELECT id, title, message, target_role, created_by, created_at FROM notifications`
	var args []any
	if role != "" {
		query += ` WHERE target_role IN ('ALL', ?)`
		args = append(args, role.String())
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query notifications")
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		var created time.Time
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.TargetRole, &n.CreatedBy, &created); err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		n.CreatedAt = created.Format(time.RFC3339)
		out = append(out, n)
	}
	return out, errors.Wrap(rows.Err(), "read notifications")
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// CreateAssignment stores an assignment published by author.
func (s *Store) CreateAssignment(ctx context.Context, a model.Assignment, author string) (*model.Assignment, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO assignments (title, description, subject, due_date, max_marks, assigned_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.Subject, a.DueDate, a.MaxMarks, author, s.now().UTC())
	if err != nil {
		return nil, errors.Wrap(err, "insert assignment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "assignment id")
	}
	a.ID, a.AssignedBy = id, author
	return &a, nil
}

// Assignments lists stored assignments, oldest first.
func (s *Store) Assignments(ctx context.Context) ([]model.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, subject, due_date, max_marks, assigned_by FROM assignments ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query assignments")
	}
	defer rows.Close()

	out := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Subject, &a.DueDate, &a.MaxMarks, &a.AssignedBy); err != nil {
			return nil, errors.Wrap(err, "scan assignment")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "read assignments")
}

// =============================================================================
// FEEDBACK
// =============================================================================

// CreateFeedback stores a student's feedback.
func (s *Store) CreateFeedback(ctx context.Context, f model.Feedback, username string) (*model.Feedback, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (username, title, message, category, rating, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		username, f.Title, f.Message, f.Category, f.Rating, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert feedback")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "feedback id")
	}
	f.ID, f.Status, f.CreatedAt = id, "PENDING", now.Format(time.RFC3339)
	return &f, nil
}

// Feedback lists feedback filed by username; empty lists everyone's.
func (s *Store) Feedback(ctx context.Context, username string) ([]model.Feedback, error) {
	query := `SELECT id, title, message, category, rating, status, created_at FROM feedback`
	var args []any
	if username != "" {
		query += ` WHERE username = ?`
		args = append(args, username)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query feedback")
	}
	defer rows.Close()

	out := []model.Feedback{}
	for rows.Next() {
		var f model.Feedback
		var created time.Time
		if err := rows.Scan(&f.ID, &f.Title, &f.Message, &f.Category, &f.Rating, &f.Status, &created); err != nil {
			return nil, errors.Wrap(err, "scan feedback")
		}
		f.CreatedAt = created.Format(time.RFC3339)
		out = append(out, f)
	}
	return out, errors.Wrap(rows.Err(), "read feedback")
}

// PendingFeedback counts feedback still awaiting a response.
func (s *Store) PendingFeedback(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE status = 'PENDING'`).Scan(&n)
	return n, errors.Wrap(err, "count feedback")
}

// =============================================================================
// LIBRARY
// =============================================================================

// IssueBook records bookID as issued to username.
func (s *Store) IssueBook(ctx context.Context, bookID int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO book_issues (book_id, username, issued_at) VALUES (?, ?, ?)`,
		bookID, username, s.now().UTC())
	return errors.Wrap(err, "issue book")
}

// IssuedBooks returns the set of issued book ids.
func (s *Store) IssuedBooks(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT book_id FROM book_issues`)
	if err != nil {
		return nil, errors.Wrap(err, "query issues")
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan issue")
		}
		out[id] = true
	}
	return out, errors.Wrap(rows.Err(), "read issues")
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete from %s", table)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

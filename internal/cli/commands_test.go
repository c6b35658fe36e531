// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/config"
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/server"
)

// =============================================================================
// HARNESS
// =============================================================================

// harness is a dev backend plus a file-backed session, so each run behaves
// like a separate process invocation.
type harness struct {
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prev := ColorsEnabled()
	ForceColorsEnabled(false)
	t.Cleanup(func() { ForceColorsEnabled(prev) })

	dir := t.TempDir()
	srv, err := server.New(server.Options{
		DBPath:     filepath.Join(dir, "server.db"),
		JWTSecret:  "cli-test",
		BcryptCost: bcrypt.MinCost,
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	cfg := config.Default()
	cfg.API.BaseURL = ts.URL + "/api"
	cfg.Session.Backend = "file"
	cfg.Session.Path = filepath.Join(dir, "session.json")
	cfg.Dashboard.SampleFallback = false
	return &harness{cfg: cfg}
}

// run executes argv; setup may adjust the env first.
func (h *harness) run(t *testing.T, setup func(*Env), argv ...string) (string, error) {
	t.Helper()
	cmd, args := Parse(argv)
	env, err := NewEnv(h.cfg, args, nil)
	require.NoError(t, err)
	defer env.Close()

	var out bytes.Buffer
	env.Out, env.Err = &out, io.Discard
	env.Interactive = false
	if setup != nil {
		setup(env)
	}
	err = Run(context.Background(), cmd, env, args)
	return out.String(), err
}

func (h *harness) must(t *testing.T, argv ...string) string {
	t.Helper()
	out, err := h.run(t, nil, argv...)
	require.NoError(t, err, out)
	return out
}

func decodeResponse(t *testing.T, out string) (JSONResponse, map[string]any) {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

type fakePrompter struct {
	answers []string
	asked   []string
}

func (f *fakePrompter) next(label string) (string, error) {
	f.asked = append(f.asked, label)
	if len(f.answers) == 0 {
		return "", ErrPromptAborted
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

func (f *fakePrompter) Prompt(label string) (string, error)   { return f.next(label) }
func (f *fakePrompter) Password(label string) (string, error) { return f.next(label) }
func (f *fakePrompter) Close() error                          { return nil }

// =============================================================================
// AUTH COMMANDS
// =============================================================================

func TestAuthLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.must(t, "signup", "-u", "alice", "-p", "password123", "--role", "student")
	assert.Contains(t, out, `Created Student account "alice"`)

	out = h.must(t, "login", "-u", "alice", "-p", "password123")
	assert.Contains(t, out, "Logged in as alice (Student)")
	assert.Contains(t, out, "/student")

	out = h.must(t, "whoami", "--json")
	resp, data := decodeResponse(t, out)
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "STUDENT", data["role"])
	assert.Equal(t, "/student", data["dashboard"])

	out = h.must(t, "logout")
	assert.Contains(t, out, "Logged out.")

	_, err := h.run(t, nil, "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestLogin_BackendMessage(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "alice", "-p", "password123")

	_, err := h.run(t, nil, "login", "-u", "alice", "-p", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "login: Invalid credentials", err.Error())
	assert.Equal(t, ExitAuthError, ExitCode(err))

	_, err = h.run(t, nil, "login", "-u", "nobody", "-p", "password123")
	require.Error(t, err)
	assert.Equal(t, "login: User not found in database", err.Error())
	assert.Equal(t, ExitNotFound, ExitCode(err))
}

func TestLogin_JSONError(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, nil, "login", "-u", "ghost", "-p", "password123", "--json")
	require.Error(t, err)
	resp, _ := decodeResponse(t, out)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "login: User not found in database", *resp.Error)
	assert.Equal(t, ExitNotFound, resp.ExitCode)
}

func TestLogin_PromptsForMissingCredentials(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "alice", "-p", "password123")

	prompter := &fakePrompter{answers: []string{"alice", "password123"}}
	out, err := h.run(t, func(e *Env) { e.Prompter = prompter }, "login")
	require.NoError(t, err)
	assert.Equal(t, []string{"Username: ", "Password: "}, prompter.asked)
	assert.Contains(t, out, "Logged in as alice")
}

func TestLogin_WithoutTerminal(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, nil, "login", "-u", "alice")
	var tty *TTYRequiredError
	require.ErrorAs(t, err, &tty)
	assert.Equal(t, "--password", tty.Operation)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestSignup_SecondAdmin(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "root", "-p", "password123", "--role", "admin")

	_, err := h.run(t, nil, "signup", "-u", "root2", "-p", "password123", "--role", "ADMIN")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAdminExists)
	assert.Equal(t, "signup: "+auth.ErrAdminExists.Error(), err.Error())
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestSignup_UnknownRole(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, nil, "signup", "-u", "alice", "-p", "password123", "--role", "dean")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

// =============================================================================
// DASHBOARD COMMANDS
// =============================================================================

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "alice", "-p", "password123")
	h.must(t, "login", "-u", "alice", "-p", "password123")

	out := h.must(t, "dashboard", "--tab", "marks")
	assert.Contains(t, out, "Marks")
	assert.Contains(t, out, "Data Structures")
	assert.NotContains(t, out, "Timetable")

	out = h.must(t, "dashboard", "--json")
	resp, data := decodeResponse(t, out)
	assert.True(t, resp.Success)
	assert.Equal(t, "STUDENT", data["role"])
	assert.Equal(t, false, data["sample"])

	_, err := h.run(t, nil, "dashboard", "--tab", "subjects")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestDashboard_RequiresLogin(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, nil, "dashboard")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestNotify(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "prof1", "-p", "password123", "--role", "faculty")
	h.must(t, "login", "-u", "prof1", "-p", "password123")

	out := h.must(t, "notify", "--title", "Lab moved", "--message", "Lab 2 today", "--target", "student")
	assert.Contains(t, out, `Published notification #1 "Lab moved"`)

	_, err := h.run(t, nil, "notify", "--message", "no title")
	assert.Equal(t, ExitUsageError, ExitCode(err))

	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")
	_, err = h.run(t, nil, "notify", "--title", "Hi", "--message", "there")
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestNotify_EditAndDeleteAsFaculty(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "prof1", "-p", "password123", "--role", "faculty")
	h.must(t, "login", "-u", "prof1", "-p", "password123")
	h.must(t, "notify", "--title", "Quiz", "--message", "Friday")

	out := h.must(t, "notify", "--edit", "1", "--title", "Quiz moved", "--message", "Monday", "--target", "student")
	assert.Contains(t, out, `Updated notification #1 "Quiz moved"`)

	_, err := h.run(t, nil, "notify", "--edit", "42", "--title", "x", "--message", "y")
	require.Error(t, err)
	assert.Equal(t, "notify: Notification not found", err.Error())
	assert.Equal(t, ExitNotFound, ExitCode(err))

	out = h.must(t, "notify", "--delete", "1")
	assert.Contains(t, out, "Deleted notification #1")

	_, err = h.run(t, nil, "notify", "--delete", "1")
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run(t, nil, "notify", "--edit", "1", "--delete", "1")
	assert.Equal(t, ExitUsageError, ExitCode(err))
	_, err = h.run(t, nil, "notify", "--delete", "abc")
	assert.Equal(t, ExitUsageError, ExitCode(err))

	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")
	_, err = h.run(t, nil, "notify", "--delete", "2")
	assert.ErrorIs(t, err, dashboard.ErrActionNotPermitted)
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestFeedback(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")

	out := h.must(t, "feedback", "--title", "Wifi", "--message", "Slow in the library", "--rating", "2", "--category", "Infrastructure")
	assert.Contains(t, out, `Submitted feedback #1 "Wifi"`)

	out = h.must(t, "dashboard", "--tab", "feedback")
	assert.Contains(t, out, "Wifi")

	_, err := h.run(t, nil, "feedback", "--title", "Wifi", "--message", "slow", "--rating", "9")
	assert.Equal(t, ExitUsageError, ExitCode(err))
	_, err = h.run(t, nil, "feedback", "--title", "Wifi", "--message", "slow", "--rating", "high")
	assert.Equal(t, ExitUsageError, ExitCode(err))

	h.must(t, "signup", "-u", "prof1", "-p", "password123", "--role", "faculty")
	h.must(t, "login", "-u", "prof1", "-p", "password123")
	_, err = h.run(t, nil, "feedback", "--title", "Wifi", "--message", "slow", "--rating", "2")
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestAssign(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "prof1", "-p", "password123", "--role", "faculty")
	h.must(t, "login", "-u", "prof1", "-p", "password123")

	out := h.must(t, "assign", "--title", "Lab 2", "--subject", "Operating Systems", "--due", "2025-03-01", "--max-marks", "10")
	assert.Contains(t, out, `Created assignment #1 "Lab 2"`)

	out = h.must(t, "assign", "--json", "--title", "Lab 3", "--subject", "Operating Systems", "--due", "2025-03-08", "--max-marks", "10")
	_, data := decodeResponse(t, out)
	assert.Equal(t, "prof1", data["assignedBy"])

	_, err := h.run(t, nil, "assign", "--title", "Lab 4", "--subject", "OS", "--max-marks", "10")
	assert.Equal(t, ExitUsageError, ExitCode(err))
	_, err = h.run(t, nil, "assign", "--title", "Lab 4", "--subject", "OS", "--due", "2025-03-15", "--max-marks", "ten")
	assert.Equal(t, ExitUsageError, ExitCode(err))

	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")
	out = h.must(t, "dashboard", "--tab", "assignments")
	assert.Contains(t, out, "Lab 2")

	_, err = h.run(t, nil, "assign", "--title", "x", "--subject", "y", "--due", "2025-01-01", "--max-marks", "1")
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestUsers(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "root", "-p", "password123", "--role", "admin")
	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "root", "-p", "password123")

	out := h.must(t, "users", "--json")
	var resp struct {
		Data []struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	ids := map[string]int64{}
	for _, u := range resp.Data {
		ids[u.Username] = u.ID
	}
	require.Contains(t, ids, "root")
	require.Contains(t, ids, "stud1")

	out = h.must(t, "users")
	assert.Contains(t, out, "stud1")

	out = h.must(t, "users", "delete", strconv.FormatInt(ids["stud1"], 10))
	assert.Contains(t, out, "Deleted user #"+strconv.FormatInt(ids["stud1"], 10))

	_, err := h.run(t, nil, "users", "delete", strconv.FormatInt(ids["stud1"], 10))
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run(t, nil, "users", "delete", strconv.FormatInt(ids["root"], 10))
	require.Error(t, err)
	assert.Equal(t, "users: Cannot delete your own account", err.Error())

	_, err = h.run(t, nil, "users", "purge")
	assert.Equal(t, ExitUsageError, ExitCode(err))

	h.must(t, "signup", "-u", "stud2", "-p", "password123")
	h.must(t, "login", "-u", "stud2", "-p", "password123")
	_, err = h.run(t, nil, "users")
	assert.Equal(t, ExitAuthError, ExitCode(err))
}

func TestIssue(t *testing.T) {
	h := newHarness(t)
	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")

	out := h.must(t, "issue", "1")
	assert.Contains(t, out, "Book #1 issued")

	_, err := h.run(t, nil, "issue", "--book", "1")
	require.Error(t, err)
	assert.Equal(t, "issue: Book is not available", err.Error())

	_, err = h.run(t, nil, "issue", "abc")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

// =============================================================================
// ROUTE
// =============================================================================

func TestRoute(t *testing.T) {
	h := newHarness(t)

	out := h.must(t, "route", "/admin", "--json")
	_, data := decodeResponse(t, out)
	assert.Equal(t, "/login", data["final"])
	assert.Equal(t, "Allow", data["decision"])

	h.must(t, "signup", "-u", "stud1", "-p", "password123")
	h.must(t, "login", "-u", "stud1", "-p", "password123")

	out = h.must(t, "route", "/admin/", "--json")
	_, data = decodeResponse(t, out)
	assert.Equal(t, "/admin", data["requested"])
	assert.Equal(t, "/unauthorized", data["final"])
	assert.Equal(t, []any{"/admin", "/unauthorized"}, data["hops"])

	out = h.must(t, "route", "/")
	assert.Contains(t, out, "/student")

	out = h.must(t, "route", "/nowhere", "--json")
	_, data = decodeResponse(t, out)
	assert.Equal(t, "NotFound", data["decision"])

	_, err := h.run(t, nil, "route")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

// =============================================================================
// CONFIG, SERVE, VERSION
// =============================================================================

func TestConfigSetGet(t *testing.T) {
	t.Setenv("CAMPUS_THEME", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()

	var out bytes.Buffer
	_, args := Parse([]string{"config", "set", "ui.theme", "dark"})
	require.NoError(t, HandleConfig(&out, cfg, path, args))
	assert.Contains(t, out.String(), "ui.theme = dark")

	saved, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", saved.UI.Theme)

	_, args = Parse([]string{"config", "set", "ui.theme", "purple"})
	err = HandleConfig(io.Discard, cfg, path, args)
	assert.Equal(t, ExitConfigError, ExitCode(err))

	_, args = Parse([]string{"config", "get", "nope.key"})
	err = HandleConfig(io.Discard, cfg, path, args)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	out.Reset()
	_, args = Parse([]string{"config", "get", "api.timeout_secs"})
	require.NoError(t, HandleConfig(&out, cfg, path, args))
	assert.Equal(t, "30\n", out.String())
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.Server.JWTSecret = "super-secret"

	var out bytes.Buffer
	_, args := Parse([]string{"config"})
	require.NoError(t, HandleConfig(&out, cfg, "unused", args))
	assert.NotContains(t, out.String(), "super-secret")
}

func TestServeOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Server.JWTSecret = "k"

	_, args := Parse([]string{"serve", "--addr", ":9999", "--rate-limit", "2.5"})
	opts, err := ServeOptions(cfg, args)
	require.NoError(t, err)
	assert.Equal(t, ":9999", opts.Addr)
	assert.Equal(t, 2.5, opts.RateLimit)
	assert.Equal(t, "k", opts.JWTSecret)
	assert.Equal(t, cfg.ServerDBPath(), opts.DBPath)

	_, args = Parse([]string{"serve", "--rate-limit", "fast"})
	_, err = ServeOptions(cfg, args)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestHandleVersion(t *testing.T) {
	var out bytes.Buffer
	_, args := Parse([]string{"version", "--json"})
	require.NoError(t, HandleVersion(&out, args))
	_, data := decodeResponse(t, out.String())
	assert.Equal(t, Version, data["version"])
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, nil, "enroll")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneralError, ExitCode(os.ErrClosed))
	assert.Equal(t, ExitUsageError, ExitCode(&UsageError{Message: "x"}))
	assert.Equal(t, ExitAuthError, ExitCode(&CommandError{Command: "c", Reason: "r", Err: ErrNotLoggedIn}))
	assert.Equal(t, ExitTimeout, ExitCode(context.DeadlineExceeded))
}

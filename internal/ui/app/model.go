// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/campus-tui/internal/auth"
	"github.com/jeranaias/campus-tui/internal/dashboard"
	"github.com/jeranaias/campus-tui/internal/model"
	"github.com/jeranaias/campus-tui/internal/router"
	"github.com/jeranaias/campus-tui/internal/session"
	"github.com/jeranaias/campus-tui/internal/ui/components"
	"github.com/jeranaias/campus-tui/internal/ui/styles"
)

// DefaultTimeout bounds each auth request made from the UI.
const DefaultTimeout = 15 * time.Second

// Options configures a Model.
type Options struct {
	Provider *auth.Provider
	Store    session.Store
	Loader   *dashboard.Loader
	Theme    *styles.Theme
	// Guard defaults to router.New().
	Guard *router.Guard
	// Changes signals that the session store changed outside this
	// process. Nil disables cross-terminal sync.
	Changes <-chan struct{}
	// StartPath is the first path shown; empty means "/".
	StartPath string
	Timeout   time.Duration
	Log       *zap.Logger
}

// screen is what the body renders for the current path and decision.
type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenSignup
	screenDashboard
	screenUnauthorized
	screenNotFound
)

// Model is the root tea.Model.
type Model struct {
	provider *auth.Provider
	store    session.Store
	loader   *dashboard.Loader
	guard    *router.Guard
	theme    *styles.Theme
	log      *zap.Logger
	keys     KeyMap
	timeout  time.Duration

	changes     <-chan struct{}
	authCh      <-chan model.AuthState
	unsubscribe func()

	width, height int

	path      string
	decision  router.Decision
	auth      model.AuthState
	persisted model.Role

	login  *form
	signup *form
	goTo   textinput.Model
	goToOn bool

	view       *dashboard.View
	viewKey    string // user the current or pending load is for
	loadErr    error
	loading    bool
	loadGen    int
	cancelLoad context.CancelFunc
	tabs       *components.Tabs
	tabKeys    []string
	viewport   viewport.Model

	spinner spinner.Model
	navbar  *components.Navbar
	status  *components.StatusBar
	toasts  *components.ToastManager
}

// New creates the model and subscribes to the provider.
func New(opts Options) *Model {
	if opts.Guard == nil {
		opts.Guard = router.New()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ThemeAuto)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.StartPath == "" {
		opts.StartPath = router.PathRoot
	}

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubbles()
	sp.Style = opts.Theme.Spinner

	goTo := textinput.New()
	goTo.Prompt = "Go to: "
	goTo.Placeholder = "/student"
	goTo.CharLimit = 128

	m := &Model{
		provider: opts.Provider,
		store:    opts.Store,
		loader:   opts.Loader,
		guard:    opts.Guard,
		theme:    opts.Theme,
		log:      opts.Log.Named("ui"),
		keys:     DefaultKeyMap(),
		timeout:  opts.Timeout,
		changes:  opts.Changes,
		width:    80,
		height:   24,
		path:     router.Normalize(opts.StartPath),
		auth:     opts.Provider.State(),
		login:    newLoginForm(),
		signup:   newSignupForm(),
		goTo:     goTo,
		viewport: viewport.New(78, 18),
		spinner:  sp,
		navbar:   components.NewNavbar(opts.Theme),
		status:   components.NewStatusBar(opts.Theme),
		toasts:   components.NewToastManager(),
	}
	m.authCh, m.unsubscribe = opts.Provider.Subscribe()
	m.decision = m.guard.Resolve(m.path, m.auth)
	return m
}

// Close cancels pending loads and unsubscribes from the provider.
func (m *Model) Close() {
	m.cancelPending()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Path returns the current path.
func (m *Model) Path() string { return m.path }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts auth initialization and the background listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		components.ToastTickCmd(),
		m.initAuth(),
		m.readPersisted(),
		waitForAuth(m.authCh),
		waitForChange(m.changes),
	)
}

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case authInitMsg:
		if msg.err != nil {
			m.log.Warn("auth init", zap.Error(msg.err))
			m.toasts.AddWarning("Could not read the saved session")
		}
		return m, m.applyAuth(m.provider.State())

	case authStateMsg:
		return m, tea.Batch(m.applyAuth(msg.state), waitForAuth(m.authCh))

	case persistedMsg:
		m.persisted = msg.role
		return m, nil

	case loginDoneMsg:
		return m, m.handleLoginDone(msg)

	case signupDoneMsg:
		return m, m.handleSignupDone(msg)

	case logoutDoneMsg:
		if msg.err != nil {
			m.log.Warn("logout", zap.Error(msg.err))
			m.toasts.AddError("Logout could not clear the saved session")
		} else {
			m.toasts.AddStatus("Logged out")
		}
		m.clearDashboard()
		m.setAuth(m.provider.State())
		return m, tea.Batch(m.navigate(router.PathLogin), m.readPersisted())

	case dashboardMsg:
		m.handleDashboard(msg)
		return m, nil

	case sessionChangedMsg:
		return m, tea.Batch(m.resync(), waitForChange(m.changes), m.readPersisted())

	case resyncDoneMsg:
		if msg.err != nil {
			m.log.Warn("resync session", zap.Error(msg.err))
		}
		return m, m.applyAuth(m.provider.State())
	}

	return m, m.forward(msg)
}

// forward passes msgs such as cursor blinks to the focused input.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.goToOn {
		var cmd tea.Cmd
		m.goTo, cmd = m.goTo.Update(msg)
		return cmd
	}
	switch m.screen() {
	case screenLogin:
		return m.login.update(msg)
	case screenSignup:
		return m.signup.update(msg)
	case screenDashboard:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

// navigate resolves path through the guard and shows the final route.
func (m *Model) navigate(path string) tea.Cmd {
	final, d, err := m.guard.Follow(path, m.auth)
	if err != nil {
		m.log.Error("navigation did not settle", zap.String("path", path), zap.Error(err))
		m.toasts.AddError("Too many redirects")
		final, d = router.Normalize(path), router.Decision{Kind: router.KindNotFound, Reason: err.Error()}
	}
	if final != m.path {
		m.log.Debug("navigate",
			zap.String("from", m.path),
			zap.String("requested", path),
			zap.String("to", final),
			zap.Stringer("decision", d),
		)
	}
	m.path, m.decision = final, d
	return m.onEnter()
}

// onEnter starts a dashboard load when the route needs one, and cancels a
// pending one when the dashboard is left.
func (m *Model) onEnter() tea.Cmd {
	if m.screen() != screenDashboard {
		m.cancelPending()
		return nil
	}
	if viewKeyFor(m.auth.User) == m.viewKey {
		return nil
	}
	return m.startLoad()
}

func (m *Model) screen() screen {
	switch m.decision.Kind {
	case router.KindLoading:
		return screenLoading
	case router.KindNotFound:
		return screenNotFound
	}
	switch m.path {
	case router.PathLogin:
		return screenLogin
	case router.PathSignup:
		return screenSignup
	case router.PathUnauthorized:
		return screenUnauthorized
	}
	if route, ok := m.guard.Lookup(m.path); ok && route.Guarded() && m.auth.User != nil {
		return screenDashboard
	}
	return screenNotFound
}

// =============================================================================
// AUTH
// =============================================================================

func (m *Model) setAuth(state model.AuthState) {
	m.auth = state
}

// applyAuth adopts state and re-resolves the current path under it.
func (m *Model) applyAuth(state model.AuthState) tea.Cmd {
	prev := m.auth
	m.setAuth(state)
	if !sameUser(prev.User, state.User) {
		if prev.User != nil && state.User == nil {
			m.toasts.AddWarning("Your session ended")
		}
		m.clearDashboard()
	}
	return m.navigate(m.path)
}

func sameUser(a, b *model.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Username == b.Username && a.Role == b.Role
}

func viewKeyFor(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username + "/" + u.Role.String()
}

func (m *Model) initAuth() tea.Cmd {
	provider, timeout := m.provider, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return authInitMsg{err: provider.Init(ctx)}
	}
}

func (m *Model) submitLogin() tea.Cmd {
	f := m.login
	f.err = ""
	f.busy = true
	username, password := f.username(), f.password()
	provider, timeout := m.provider, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := provider.Login(ctx, username, password)
		return loginDoneMsg{user: user, err: err}
	}
}

func (m *Model) handleLoginDone(msg loginDoneMsg) tea.Cmd {
	m.login.busy = false
	if msg.err != nil {
		m.login.err = auth.LoginMessage(msg.err)
		m.log.Info("login failed", zap.Error(msg.err))
		return nil
	}
	m.login.reset("")
	m.toasts.AddSuccess("Welcome, " + msg.user.DisplayName())
	m.setAuth(m.provider.State())
	return tea.Batch(m.navigate(msg.user.Role.Route()), m.readPersisted())
}

func (m *Model) submitSignup() tea.Cmd {
	f := m.signup
	f.err = ""
	f.busy = true
	username, password, role := f.username(), f.password(), f.selectedRole()
	provider, timeout := m.provider, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return signupDoneMsg{username: username, err: provider.Signup(ctx, username, password, role)}
	}
}

func (m *Model) handleSignupDone(msg signupDoneMsg) tea.Cmd {
	m.signup.busy = false
	if msg.err != nil {
		m.signup.err = auth.SignupMessage(msg.err)
		m.log.Info("signup failed", zap.Error(msg.err))
		return nil
	}
	m.signup.reset("")
	m.login.reset(msg.username)
	m.toasts.AddSuccess("Signup successful! Please log in.")
	return m.navigate(router.PathLogin)
}

func (m *Model) logout() tea.Cmd {
	m.cancelPending()
	provider, timeout := m.provider, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return logoutDoneMsg{err: provider.Logout(ctx)}
	}
}

func (m *Model) resync() tea.Cmd {
	provider, timeout := m.provider, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resyncDoneMsg{err: provider.Resync(ctx)}
	}
}

func (m *Model) readPersisted() tea.Cmd {
	store, timeout := m.store, m.timeout
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sess, err := store.Get(ctx)
		if err != nil {
			return nil
		}
		return persistedMsg{role: sess.Role}
	}
}

func waitForAuth(ch <-chan model.AuthState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return authStateMsg{state: state}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sessionChangedMsg{}
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// startLoad cancels any pending load and starts a new generation.
func (m *Model) startLoad() tea.Cmd {
	m.cancelPending()
	if m.auth.User == nil || m.loader == nil {
		return nil
	}

	user := *m.auth.User
	ctx, cancel := context.WithCancel(context.Background())
	m.loadGen++
	gen := m.loadGen
	m.cancelLoad = cancel
	m.loading = true
	m.loadErr = nil
	m.viewKey = viewKeyFor(&user)

	loader := m.loader
	return func() tea.Msg {
		view, err := loader.Load(ctx, user)
		return dashboardMsg{gen: gen, view: view, err: err}
	}
}

// cancelPending cancels the in-flight load, if any. Its result will be
// dropped as stale.
func (m *Model) cancelPending() {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	if m.loading {
		m.loading = false
		m.viewKey = ""
		m.loadGen++
	}
}

func (m *Model) clearDashboard() {
	m.cancelPending()
	m.view = nil
	m.viewKey = ""
	m.loadErr = nil
	m.tabs = nil
	m.tabKeys = nil
}

func (m *Model) handleDashboard(msg dashboardMsg) {
	if msg.gen != m.loadGen {
		return
	}
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.loading = false

	if msg.err != nil {
		m.loadErr = msg.err
		m.log.Warn("dashboard load failed", zap.Error(msg.err))
		m.toasts.AddError("Could not load the dashboard")
		return
	}

	m.view = msg.view
	m.setTabs(dashboard.Tabs(msg.view.Role))
	if msg.view.Sample {
		m.toasts.AddWarning("Backend unavailable, showing sample data")
	}
	m.refreshContent()
}

func (m *Model) setTabs(tabs []dashboard.Tab) {
	keys := make([]string, len(tabs))
	titles := make([]string, len(tabs))
	for i, t := range tabs {
		keys[i], titles[i] = t.Key, t.Title
	}
	active := 0
	if m.tabs != nil && len(m.tabKeys) == len(keys) {
		active = m.tabs.Active
	}
	m.tabKeys = keys
	m.tabs = components.NewTabs(m.theme, titles)
	m.tabs.Active = active
	m.tabs.Width = m.width - 2
}

// refreshContent renders the active tab into the viewport.
func (m *Model) refreshContent() {
	if m.view == nil || m.tabs == nil || len(m.tabKeys) == 0 {
		m.viewport.SetContent("")
		return
	}
	tab := m.tabKeys[m.tabs.Active]
	m.viewport.SetContent(dashboard.Render(m.view, tab, dashboard.RenderOptions{
		Width: m.viewport.Width,
		Style: m.theme.GlamourStyle(),
	}))
	m.viewport.GotoTop()
}

// dashboardChrome is the number of body lines above the viewport: title,
// tabs, sample banner and a blank line.
const dashboardChrome = 4

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = max(width-2, 20)
	m.viewport.Height = max(height-2-dashboardChrome, 3)
	if m.tabs != nil {
		m.tabs.Width = width - 2
	}
	m.refreshContent()
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return tea.Quit
	}
	if m.goToOn {
		return m.handleGoToKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss) && m.toasts.HasToasts():
		m.toasts.Dismiss()
		return nil
	case key.Matches(msg, m.keys.GoTo):
		m.goToOn = true
		m.goTo.SetValue(m.path)
		m.goTo.CursorEnd()
		return m.goTo.Focus()
	}

	if m.decision.Kind == router.KindLoading {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Logout):
		if m.auth.Authenticated() {
			return m.logout()
		}
		return m.navigate(router.PathLogin)
	case key.Matches(msg, m.keys.Home):
		return m.navigate(router.PathRoot)
	}

	switch m.screen() {
	case screenLogin:
		if key.Matches(msg, m.keys.Signup) {
			return m.navigate(router.PathSignup)
		}
		return m.handleFormKey(m.login, msg, m.submitLogin)
	case screenSignup:
		if key.Matches(msg, m.keys.Dismiss) {
			return m.navigate(router.PathLogin)
		}
		return m.handleFormKey(m.signup, msg, m.submitSignup)
	case screenDashboard:
		return m.handleDashboardKey(msg)
	case screenUnauthorized, screenNotFound:
		if key.Matches(msg, m.keys.Submit, m.keys.Dismiss) {
			return m.navigate(router.PathRoot)
		}
	}
	return nil
}

func (m *Model) handleGoToKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.goToOn = false
		m.goTo.Blur()
		return m.navigate(m.goTo.Value())
	case key.Matches(msg, m.keys.Dismiss):
		m.goToOn = false
		m.goTo.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.goTo, cmd = m.goTo.Update(msg)
	return cmd
}

func (m *Model) handleFormKey(f *form, msg tea.KeyMsg, submit func() tea.Cmd) tea.Cmd {
	if f.busy {
		return nil
	}
	onRole := f.focus == f.roleField()
	switch {
	case key.Matches(msg, m.keys.Submit):
		if f.focus < len(f.inputs)-1 {
			return f.next()
		}
		return submit()
	case key.Matches(msg, m.keys.NextField):
		return f.next()
	case key.Matches(msg, m.keys.PrevField):
		return f.prev()
	case onRole && key.Matches(msg, m.keys.RoleLeft):
		f.cycleRole(-1)
		return nil
	case onRole && key.Matches(msg, m.keys.RoleRight):
		f.cycleRole(1)
		return nil
	}
	return f.update(msg)
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextTab) && m.tabs != nil:
		m.tabs.Next()
		m.refreshContent()
		return nil
	case key.Matches(msg, m.keys.PrevTab) && m.tabs != nil:
		m.tabs.Prev()
		m.refreshContent()
		return nil
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return nil
		}
		return m.startLoad()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

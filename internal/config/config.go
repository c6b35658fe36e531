// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/jeranaias/campus-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete campus configuration.
type Config struct {
	API       APIConfig       `toml:"api" json:"api"`
	Session   SessionConfig   `toml:"session" json:"session"`
	Dashboard DashboardConfig `toml:"dashboard" json:"dashboard"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Log       LogConfig       `toml:"log" json:"log"`
	Server    ServerConfig    `toml:"server" json:"server"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// SessionConfig selects where the login session is persisted.
type SessionConfig struct {
	// Backend is file, sqlite, redis or memory.
	Backend string `toml:"backend" json:"backend"`

	// Path is the session file (file) or database (sqlite). Empty uses
	// the backend's default under the config directory.
	Path string `toml:"path" json:"path"`

	RedisAddr     string `toml:"redis_addr" json:"redis_addr"`
	RedisPassword string `toml:"redis_password" json:"redis_password"`
	RedisProfile  string `toml:"redis_profile" json:"redis_profile"`
}

// DashboardConfig controls dashboard loading.
type DashboardConfig struct {
	// SampleFallback shows labelled sample data when a dashboard batch
	// fails instead of an error.
	SampleFallback bool `toml:"sample_fallback" json:"sample_fallback"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is auto, dark, light or plain.
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	// Path is the TUI log file. The serve command logs to stderr.
	Path string `toml:"path" json:"path"`
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Addr      string `toml:"addr" json:"addr"`
	JWTSecret string `toml:"jwt_secret" json:"jwt_secret"`
	DBPath    string `toml:"db_path" json:"db_path"`
	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8080/api",
			TimeoutSecs: 30,
		},
		Session: SessionConfig{
			Backend:      "file",
			RedisAddr:    "localhost:6379",
			RedisProfile: "default",
		},
		Dashboard: DashboardConfig{
			SampleFallback: true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the campus directory: $CAMPUS_HOME, else ~/.campus.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CAMPUS_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".campus"), nil
}

// ConfigPath returns the path to config.toml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SessionPath resolves the session location for the configured backend.
func (c *Config) SessionPath() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		dir = ".campus"
	}
	if strings.EqualFold(c.Session.Backend, "sqlite") {
		return filepath.Join(dir, "campus.db")
	}
	return filepath.Join(dir, "session.json")
}

// LogPath resolves the TUI log file.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		dir = ".campus"
	}
	return filepath.Join(dir, "campus.log")
}

// ServerDBPath resolves the development backend's database.
func (c *Config) ServerDBPath() string {
	if c.Server.DBPath != "" {
		return c.Server.DBPath
	}
	dir, err := ConfigDir()
	if err != nil {
		dir = ".campus"
	}
	return filepath.Join(dir, "server.db")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads .env files, ~/.campus/config.toml and CAMPUS_* overrides on
// top of the defaults, then validates the result.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit config file. A missing file is
// not an error.
func LoadFromPath(path string) (*Config, error) {
	loadDotEnv(filepath.Dir(path))

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadFile reads path over the defaults with no environment overrides,
// for editing the file itself.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg. Keys missing from the file keep their
// current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// loadDotEnv loads .env from the working directory and from dir. Existing
// environment variables are never overwritten, so the working directory
// file wins over the one in dir.
func loadDotEnv(dir string) {
	for _, p := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// SaveTOML writes cfg to path with mode 0600.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# campus configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides maps CAMPUS_* variables to config keys.
var envOverrides = map[string]string{
	"CAMPUS_API_URL":           "api.base_url",
	"CAMPUS_API_TIMEOUT":       "api.timeout_secs",
	"CAMPUS_SESSION_BACKEND":   "session.backend",
	"CAMPUS_SESSION_PATH":      "session.path",
	"CAMPUS_REDIS_ADDR":        "session.redis_addr",
	"CAMPUS_REDIS_PASSWORD":    "session.redis_password",
	"CAMPUS_REDIS_PROFILE":     "session.redis_profile",
	"CAMPUS_SAMPLE_FALLBACK":   "dashboard.sample_fallback",
	"CAMPUS_THEME":             "ui.theme",
	"CAMPUS_LOG_LEVEL":         "log.level",
	"CAMPUS_LOG_PATH":          "log.path",
	"CAMPUS_SERVER_ADDR":       "server.addr",
	"CAMPUS_JWT_SECRET":        "server.jwt_secret",
	"CAMPUS_SERVER_DB":         "server.db_path",
	"CAMPUS_SERVER_RATE_LIMIT": "server.rate_limit",
}

// EnvVars returns the supported environment variables, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envOverrides))
	for name := range envOverrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvKey returns the config key an environment variable overrides, or "".
func EnvKey(name string) string {
	return envOverrides[name]
}

// ApplyEnvOverrides applies CAMPUS_* variables. Values that do not parse
// for their field are ignored and later caught by Validate where it matters.
func (c *Config) ApplyEnvOverrides() {
	for env, key := range envOverrides {
		if value, ok := os.LookupEnv(env); ok && value != "" {
			_ = c.Set(key, value)
		}
	}
}

// SetDefaults fills empty fields that must never be empty.
func (c *Config) SetDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.Session.Backend == "" {
		c.Session.Backend = d.Session.Backend
	}
	if c.Session.RedisProfile == "" {
		c.Session.RedisProfile = d.Session.RedisProfile
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api.base_url", "must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		add("api.timeout_secs", "must be between 1 and 600, got %d", c.API.TimeoutSecs)
	}

	switch strings.ToLower(c.Session.Backend) {
	case "file", "sqlite", "memory":
	case "redis":
		if c.Session.RedisAddr == "" {
			add("session.redis_addr", "required for the redis backend")
		}
	default:
		add("session.backend", "invalid backend %q, must be one of: file, sqlite, redis, memory", c.Session.Backend)
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light", "plain":
	default:
		add("ui.theme", "invalid theme %q, must be one of: auto, dark, light, plain", c.UI.Theme)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", "invalid level %q, must be one of: debug, info, warn, error", c.Log.Level)
	}

	if c.Server.RateLimit < 0 {
		add("server.rate_limit", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get returns the value of a dotted key such as "api.base_url".
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value into the field named by a dotted key.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		field.SetFloat(f)
	default:
		return errors.Errorf("%s: unsupported type %s", key, field.Kind())
	}
	return nil
}

// lookup walks toml tags to the field named by key.
func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, errors.Errorf("invalid key %q, want section.name", key)
	}

	v := reflect.ValueOf(c).Elem()
	for _, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, errors.Errorf("unknown config key %q", key)
		}
		v = field
	}
	return v, nil
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Keys returns every dotted key, in declaration order.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// String returns the config as JSON with secrets redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Session.RedisPassword != "" {
		safe.Session.RedisPassword = "[REDACTED]"
	}
	if safe.Server.JWTSecret != "" {
		safe.Server.JWTSecret = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

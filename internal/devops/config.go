package devops

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthMode selects how requests are authenticated.
type AuthMode string

const (
	// AuthPAT sends HTTP basic auth with the user handle and a personal
	// access token.
	AuthPAT AuthMode = "pat"
	// AuthBearer sends the token as an OAuth2 bearer token.
	AuthBearer AuthMode = "bearer"
)

// Config holds everything needed to talk to an Azure DevOps project.
type Config struct {
	BaseURL      string
	Organization string
	Project      string
	User         string
	Token        string
	Auth         AuthMode
	TimeoutMs    int
	PageSize     int
	Concurrency  int
	LogCalls     bool
}

// DefaultConfig returns a Config with sensible defaults. Organization,
// project, user, and token have no default.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://dev.azure.com",
		Auth:        AuthPAT,
		TimeoutMs:   15000,
		PageSize:    200,
		Concurrency: 4,
	}
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults for any unset or invalid values. The unprefixed names (ORG,
// PROJECT, USERNAME, ACCESS_TOKEN) are honoured when the CHRONOS_ ones are unset.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := firstEnv("CHRONOS_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	cfg.Organization = firstEnv("CHRONOS_ORG", "ORG")
	cfg.Project = firstEnv("CHRONOS_PROJECT", "PROJECT")
	cfg.User = firstEnv("CHRONOS_USER", "USERNAME")
	cfg.Token = firstEnv("CHRONOS_TOKEN", "ACCESS_TOKEN")

	if v := firstEnv("CHRONOS_AUTH"); v != "" {
		if mode, err := ParseAuthMode(v); err == nil {
			cfg.Auth = mode
		}
	}
	if v := firstEnv("CHRONOS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := firstEnv("CHRONOS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := firstEnv("CHRONOS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	if v := firstEnv("CHRONOS_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}

// ParseAuthMode accepts "pat" or "bearer", case-insensitively.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case AuthPAT:
		return AuthPAT, nil
	case AuthBearer:
		return AuthBearer, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (want pat or bearer)", s)
	}
}

// Validate reports every missing required field in a single error.
func (c Config) Validate() error {
	var missing []string
	if c.Organization == "" {
		missing = append(missing, "organization (CHRONOS_ORG)")
	}
	if c.Project == "" {
		missing = append(missing, "project (CHRONOS_PROJECT)")
	}
	if c.User == "" {
		missing = append(missing, "user (CHRONOS_USER)")
	}
	if c.Token == "" {
		missing = append(missing, "token (CHRONOS_TOKEN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if c.Auth != AuthPAT && c.Auth != AuthBearer {
		return fmt.Errorf("unknown auth mode %q", c.Auth)
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// MaskedToken returns the token with all but the last four characters hidden.
func (c Config) MaskedToken() string {
	if c.Token == "" {
		return ""
	}
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", len(c.Token)-4) + c.Token[len(c.Token)-4:]
}

// ErrMissingConfig indicates required connection settings are absent.
var ErrMissingConfig = errors.New("missing configuration")

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

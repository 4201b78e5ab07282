package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the auth gateway mode for the application.
type AuthMode string

const (
	// AuthModeLive issues requests against the backend API.
	AuthModeLive AuthMode = "live"
	// AuthModeMock answers from an in-memory fixture set (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "live", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: live, mock)", v)
	}
}

// FixtureConfig controls mock-mode gateway behavior.
type FixtureConfig struct {
	// Latency is the simulated network delay applied to each fixture call.
	Latency time.Duration `env:"LATENCY" envDefault:"0s"`
}

// AuthConfig groups all auth-gateway-related configuration.
// The mode is resolved once at startup, not re-evaluated per call.
type AuthConfig struct {
	// Mode determines which gateway implementation to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// BaseURL is the backend API base path (used when Mode=live).
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:9090/api"`

	// Timeout applies to each live-mode backend call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Fixture configuration (used when Mode=mock).
	Fixture FixtureConfig `envPrefix:"FIXTURE_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModeMock
	}
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
}

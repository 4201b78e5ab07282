package config

import (
	"time"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
)

// SessionConfig controls session lifetime behavior.
type SessionConfig struct {
	// Timeout is the inactivity window after which a session expires.
	// Defaults to 15 minutes.
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"15m"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Timeout <= 0 {
		s.Timeout = domainauth.SessionTimeout
	}
	// Anything below a minute is a misconfiguration, not a policy.
	if s.Timeout < time.Minute {
		s.Timeout = time.Minute
	}
}

package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
)

// LoginResult is the normalized outcome of a successful gateway login.
// All backend shape tolerance happens inside the gateway; callers only
// ever see this DTO.
type LoginResult struct {
	User  domainauth.Identity
	Token string
}

// RegisterForm carries the registration fields submitted by a citizen.
type RegisterForm struct {
	NIK      string `json:"nik"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// RegisterResult wraps the (possibly unnormalized) registration response.
// Live backends return implementation-defined success payloads — objects,
// bare booleans — so Raw stays untyped; the session service normalizes it.
type RegisterResult struct {
	Raw any
}

// AuthGateway verifies credentials and registers citizens against a
// backend, which may be a live API or an in-memory fixture set.
type AuthGateway interface {
	// Login verifies identifier+password and returns the normalized
	// identity and bearer token. Credential rejection and transport
	// failures are returned as errors with user-readable messages.
	Login(ctx context.Context, identifier, password string) (LoginResult, error)

	// Register submits a registration form and returns the raw response.
	Register(ctx context.Context, form RegisterForm) (RegisterResult, error)
}

// SessionStorage is durable string-keyed storage mirroring the session.
// The session service writes the keys token, user, loginTime, role,
// name, and email, and removes them all together on logout.
type SessionStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Notifier surfaces user-facing session notifications.
type Notifier interface {
	// SessionExpired tells the user their session ended due to inactivity.
	SessionExpired(ctx context.Context)
}

// Clock supplies the current time. Injectable for expiry tests.
type Clock interface {
	Now() time.Time
}

// ErrNotFound is returned by SessionStorage when a key is absent.
type notFoundError struct{}

func (notFoundError) Error() string { return "storage key not found" }

var ErrNotFound error = notFoundError{}

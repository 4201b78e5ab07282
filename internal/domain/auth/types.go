package auth

// Package auth contains domain-level types for portal authentication and
// sessions. It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and transport.
type Role string

const (
	// RoleCitizen is the base citizen role ("masyarakat").
	RoleCitizen Role = "masyarakat"
	// RoleOfficer is the kelurahan officer role ("petugas").
	RoleOfficer Role = "petugas"
)

// Portal identifies which login surface issued a credential attempt.
// Each portal admits exactly one role.
type Portal string

const (
	// PortalCitizen is the public citizen login ("warga").
	PortalCitizen Portal = "warga"
	// PortalAdmin is the officer login ("admin").
	PortalAdmin Portal = "admin"
)

// ExpectedRole returns the role a successful login on this portal must carry.
func (p Portal) ExpectedRole() Role {
	if p == PortalAdmin {
		return RoleOfficer
	}
	return RoleCitizen
}

// Valid reports whether p is a known portal.
func (p Portal) Valid() bool {
	return p == PortalCitizen || p == PortalAdmin
}

// SessionTimeout is the inactivity window after which a session expires.
const SessionTimeout = 15 * time.Minute

// Profile carries identity fields that some backend responses nest one
// level down. Extraction order is always top-level first, then Profile.
type Profile struct {
	Role  Role   `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Identity represents the authenticated principal returned by the gateway.
// Adapters map backend-specific shapes into this struct.
type Identity struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	NIK     string   `json:"nik,omitempty"`
	Role    Role     `json:"role,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// EffectiveRole resolves the identity's role: top-level field first,
// then the nested profile, else empty.
func (i Identity) EffectiveRole() Role {
	if i.Role != "" {
		return i.Role
	}
	if i.Profile != nil {
		return i.Profile.Role
	}
	return ""
}

// EffectiveName resolves the identity's display name.
func (i Identity) EffectiveName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Profile != nil {
		return i.Profile.Name
	}
	return ""
}

// EffectiveEmail resolves the identity's email address.
func (i Identity) EffectiveEmail() string {
	if i.Email != "" {
		return i.Email
	}
	if i.Profile != nil {
		return i.Profile.Email
	}
	return ""
}

// Session is the client-held record of an authenticated identity.
// Invariant: Token is empty iff the session is logged out, and LoginTime
// is set exactly when Token is set, by the same commit.
type Session struct {
	Token     string
	User      *Identity
	LoginTime time.Time
	Role      Role
	Name      string
	Email     string
}

// Active reports whether a token is present. It does not consider expiry.
func (s Session) Active() bool { return s.Token != "" }

// ExpiredAt reports whether the session's inactivity window has elapsed
// at the given instant. An inactive session is never expired.
func (s Session) ExpiredAt(now time.Time, timeout time.Duration) bool {
	if !s.Active() || s.LoginTime.IsZero() {
		return false
	}
	return now.Sub(s.LoginTime) > timeout
}

// IsOfficer reports whether the session carries the officer role.
func (s Session) IsOfficer() bool { return s.Role == RoleOfficer }

// AuthResult is the structured outcome of login/register operations.
// Operations return it instead of surfacing errors to UI callers.
type AuthResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Failure builds a failed AuthResult with a user-readable message.
func Failure(message string) AuthResult {
	return AuthResult{Success: false, Message: message}
}

// Successful builds a successful AuthResult carrying optional extra data.
func Successful(data map[string]any) AuthResult {
	return AuthResult{Success: true, Data: data}
}

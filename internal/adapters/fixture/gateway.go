package fixture

// Package fixture provides an in-memory AuthGateway for local development
// and testing. It answers credential checks from a seeded identity set and
// lets registered citizens log in afterwards.

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	apperrors "github.com/siwaris/portal-api/internal/errors"
	"github.com/siwaris/portal-api/internal/ports"
)

// credential pairs an identity with the password accepted for it.
// Identifier is the NIK for citizens and the username for officers.
type credential struct {
	identifier string
	password   string
	identity   domainauth.Identity
}

// Config controls the fixture gateway behavior.
type Config struct {
	// Latency simulates network delay on each call. Zero disables it.
	Latency time.Duration
}

// Gateway implements ports.AuthGateway backed by an in-memory fixture set.
type Gateway struct {
	latency time.Duration

	mu    sync.Mutex
	users []credential
}

var _ ports.AuthGateway = (*Gateway)(nil)

// NewGateway constructs a fixture gateway with the standard seed identities.
func NewGateway(cfg Config) *Gateway {
	return &Gateway{
		latency: cfg.Latency,
		users:   seedCredentials(),
	}
}

// seedCredentials returns the well-known development identities.
func seedCredentials() []credential {
	return []credential{
		{
			identifier: "12345678",
			password:   "pw",
			identity: domainauth.Identity{
				ID:    "1",
				Name:  "Agung Santoso",
				Email: "agung@warga.com",
				Role:  domainauth.RoleCitizen,
				NIK:   "12345678",
			},
		},
		{
			identifier: "admin",
			password:   "adm",
			identity: domainauth.Identity{
				ID:   "99",
				Name: "Petugas Kelurahan",
				Role: domainauth.RoleOfficer,
			},
		},
	}
}

// Login looks up a fixture identity by exact identifier+password match.
func (g *Gateway) Login(ctx context.Context, identifier, password string) (ports.LoginResult, error) {
	if err := g.sleep(ctx); err != nil {
		return ports.LoginResult{}, err
	}

	identifier = strings.TrimSpace(identifier)

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, cred := range g.users {
		if cred.identifier == identifier && cred.password == password {
			return ports.LoginResult{
				User:  cred.identity,
				Token: "mock-token-" + cred.identity.ID,
			}, nil
		}
	}

	return ports.LoginResult{}, apperrors.Credential("NIK atau Kata Sandi salah.")
}

// Register appends a synthesized citizen identity so the NIK can
// subsequently log in, and returns a success payload.
func (g *Gateway) Register(ctx context.Context, form ports.RegisterForm) (ports.RegisterResult, error) {
	if err := g.sleep(ctx); err != nil {
		return ports.RegisterResult{}, err
	}

	nik := strings.TrimSpace(form.NIK)
	if nik == "" {
		return ports.RegisterResult{}, apperrors.ValidationField("nik", "NIK wajib diisi.")
	}
	if form.Password == "" {
		return ports.RegisterResult{}, apperrors.ValidationField("password", "Kata sandi wajib diisi.")
	}

	name := form.Name
	if name == "" {
		name = "Warga Baru"
	}

	g.mu.Lock()
	g.users = append(g.users, credential{
		identifier: nik,
		password:   form.Password,
		identity: domainauth.Identity{
			ID:    uuid.NewString(),
			Name:  name,
			Email: form.Email,
			Role:  domainauth.RoleCitizen,
			NIK:   nik,
		},
	})
	g.mu.Unlock()

	return ports.RegisterResult{Raw: map[string]any{"success": true}}, nil
}

// sleep simulates network latency while honoring context cancellation.
func (g *Gateway) sleep(ctx context.Context) error {
	if g.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

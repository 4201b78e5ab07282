package httpgw

// Package httpgw implements the live-mode AuthGateway over the backend
// HTTP API. All response shape tolerance lives here: heterogeneous login
// payloads are normalized into the ports.LoginResult DTO with JMESPath
// fallback chains, so the session service never sees transport variety.

import (
	"context"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	apperrors "github.com/siwaris/portal-api/internal/errors"
	"github.com/siwaris/portal-api/internal/ports"
	"github.com/siwaris/portal-api/internal/transport"
)

// Fallback chains for the token and identity in login responses.
// Backends differ on nesting and field naming (token vs access_token).
const (
	tokenExpr = "token || access_token || data.token || data.access_token"
	userExpr  = "user || data.user"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Options groups dependencies for the live gateway.
type Options struct {
	Client *transport.Client

	// Evaluator overrides the JMESPath implementation (tests).
	Evaluator JMESPathEvaluator
}

// Gateway implements ports.AuthGateway against a live backend.
type Gateway struct {
	client *transport.Client
	jems   JMESPathEvaluator
}

var _ ports.AuthGateway = (*Gateway)(nil)

// NewGateway constructs a live gateway from Options.
func NewGateway(opts Options) *Gateway {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	return &Gateway{client: opts.Client, jems: jems}
}

// Login POSTs credentials to the login endpoint and normalizes the response.
func (g *Gateway) Login(ctx context.Context, identifier, password string) (ports.LoginResult, error) {
	resp, err := g.client.PostJSON(ctx, "/auth/login", map[string]string{
		"nik":      strings.TrimSpace(identifier),
		"password": password,
	})
	if err != nil {
		return ports.LoginResult{}, err
	}

	token := g.searchString(tokenExpr, resp)
	if token == "" {
		return ports.LoginResult{}, apperrors.Gateway("respons login tidak menyertakan token")
	}

	user := g.searchMap(userExpr, resp)
	if user == nil {
		// Some backends return the identity fields at the top level.
		user = resp
	}

	identity := g.identityFromMap(user)
	if identity.ID == "" && identity.EffectiveName() == "" {
		return ports.LoginResult{}, apperrors.Gateway("respons login tidak menyertakan data pengguna")
	}

	return ports.LoginResult{User: identity, Token: token}, nil
}

// Register POSTs the registration form and returns the raw response body.
// The payload is implementation-defined; normalization happens upstream.
func (g *Gateway) Register(ctx context.Context, form ports.RegisterForm) (ports.RegisterResult, error) {
	resp, err := g.client.PostJSON(ctx, "/auth/register", form)
	if err != nil {
		return ports.RegisterResult{}, err
	}
	return ports.RegisterResult{Raw: resp}, nil
}

// identityFromMap maps a decoded identity object into the domain type,
// resolving each field top-level first, then under "profile".
func (g *Gateway) identityFromMap(m map[string]any) domainauth.Identity {
	return domainauth.Identity{
		ID:    g.searchString("id", m),
		Name:  g.searchString("name || profile.name", m),
		Email: g.searchString("email || profile.email", m),
		NIK:   g.searchString("nik || profile.nik", m),
		Role:  domainauth.Role(g.searchString("role || profile.role", m)),
	}
}

// searchString evaluates expr and renders scalar results as strings.
// Numeric IDs come back as float64 from encoding/json; trim the
// fractional part for integral values.
func (g *Gateway) searchString(expr string, data any) string {
	v, err := g.jems.Evaluate(expr, data)
	if err != nil || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}

// searchMap evaluates expr and returns object results.
func (g *Gateway) searchMap(expr string, data any) map[string]any {
	v, err := g.jems.Evaluate(expr, data)
	if err != nil || v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

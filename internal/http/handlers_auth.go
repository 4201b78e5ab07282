package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	"github.com/siwaris/portal-api/internal/ports"
)

// Sessions is the session service surface the HTTP layer consumes.
type Sessions interface {
	Login(ctx context.Context, identifier, password string, portal domainauth.Portal) domainauth.AuthResult
	Register(ctx context.Context, form ports.RegisterForm) domainauth.AuthResult
	Logout(ctx context.Context)
	EnforceExpiry(ctx context.Context) bool
	IsAuthenticated() bool
	IsAdmin() bool
	ShowDashboard() bool
	Role() domainauth.Role
	Name() string
	Email() string
	User() *domainauth.Identity
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Sessions Sessions
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Portal     string `json:"portal"`
}

// Login handles POST /auth/login.
// Failures are part of the contract: they come back as a structured
// result with status 401, never as an opaque 500.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	portal := domainauth.Portal(req.Portal)
	if portal == "" {
		portal = domainauth.PortalCitizen
	}

	result := h.Sessions.Login(r.Context(), req.Identifier, req.Password, portal)
	if !result.Success {
		h.logger().InfoContext(r.Context(), "login rejected", "portal", string(portal))
		WriteJSON(w, http.StatusUnauthorized, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var form ports.RegisterForm
	if !DecodeJSON(w, r, &form) {
		return
	}

	result := h.Sessions.Register(r.Context(), form)
	if !result.Success {
		WriteJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Logout handles POST /auth/logout. Always succeeds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// sessionSummary is the GET /auth/session response body.
type sessionSummary struct {
	Authenticated bool                 `json:"authenticated"`
	Role          domainauth.Role      `json:"role,omitempty"`
	Name          string               `json:"name,omitempty"`
	Email         string               `json:"email,omitempty"`
	IsAdmin       bool                 `json:"is_admin"`
	ShowDashboard bool                 `json:"show_dashboard"`
	User          *domainauth.Identity `json:"user,omitempty"`
}

// Session handles GET /auth/session: the current session summary, or 401
// when logged out. Expiry is enforced on the way in.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	h.Sessions.EnforceExpiry(r.Context())
	if !h.Sessions.IsAuthenticated() {
		WriteJSON(w, http.StatusUnauthorized, sessionSummary{})
		return
	}

	WriteJSON(w, http.StatusOK, sessionSummary{
		Authenticated: true,
		Role:          h.Sessions.Role(),
		Name:          h.Sessions.Name(),
		Email:         h.Sessions.Email(),
		IsAdmin:       h.Sessions.IsAdmin(),
		ShowDashboard: h.Sessions.ShowDashboard(),
		User:          h.Sessions.User(),
	})
}

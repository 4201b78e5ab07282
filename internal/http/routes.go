package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions Sessions
	Guard    Guard
	Logger   *slog.Logger
}

// NewRouter creates and configures the portal HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Sessions: services.Sessions, Logger: services.Logger}
	guardHandlers := &GuardHandlers{Guard: services.Guard}

	mux.HandleFunc("GET /healthz", Health)

	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/register", authHandlers.Register)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/session", authHandlers.Session)

	mux.HandleFunc("GET /guard", guardHandlers.Decide)

	return mux
}

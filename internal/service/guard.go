package service

import (
	"context"
	"strings"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
)

const siteTitle = "Siwaris - Kelurahan Lenteng Agung"

// Route describes one navigable portal route and its access rules.
// Guest routes are public but bounce already-authenticated users to
// their dashboard; Portal gates a protected tree to one role.
type Route struct {
	Path         string
	Title        string
	RequiresAuth bool
	Guest        bool
	Portal       domainauth.Portal

	// Prefix marks a route tree: the rule covers every path below Path.
	Prefix bool
}

// Decision is the guard's verdict for a route transition.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Title      string `json:"title"`
}

// DefaultRoutes returns the portal route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Title: "Beranda", Guest: true},
		{Path: "/login", Title: "Masuk", Guest: true},
		{Path: "/register", Title: "Pendaftaran Warga", Guest: true},
		{Path: "/maintenance", Title: "Dalam Perbaikan", Guest: true},

		{Path: "/dashboard", Title: "Dashboard Warga", RequiresAuth: true, Portal: domainauth.PortalCitizen},
		{Path: "/dashboard/pengajuan", Title: "Formulir Pengajuan", RequiresAuth: true, Portal: domainauth.PortalCitizen},
		{Path: "/dashboard/riwayat", Title: "Riwayat Permohonan", RequiresAuth: true, Portal: domainauth.PortalCitizen},

		{Path: "/admin/antrian", Title: "Antrian Verifikasi", RequiresAuth: true, Portal: domainauth.PortalAdmin},
		{Path: "/admin/verifikasi", Title: "Detail Verifikasi", RequiresAuth: true, Portal: domainauth.PortalAdmin, Prefix: true},
		{Path: "/admin/arsip", Title: "Arsip Dokumen", RequiresAuth: true, Portal: domainauth.PortalAdmin},
	}
}

// NavigationGuard decides route transitions for the portal client.
// It enforces session expiry before every decision, so stale sessions
// are cleared on navigation rather than lingering until the next login.
type NavigationGuard struct {
	sessions *SessionService
	routes   []Route
}

// NewNavigationGuard constructs a guard over the given session service.
// A nil route slice selects the default portal table.
func NewNavigationGuard(sessions *SessionService, routes []Route) *NavigationGuard {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &NavigationGuard{sessions: sessions, routes: routes}
}

// Decide evaluates a route transition.
func (g *NavigationGuard) Decide(ctx context.Context, path string) Decision {
	g.sessions.EnforceExpiry(ctx)

	route, found := g.match(path)
	title := siteTitle
	if found && route.Title != "" {
		title = route.Title + " - " + siteTitle
	}

	authed := g.sessions.IsAuthenticated()

	if route.RequiresAuth && !authed {
		return Decision{RedirectTo: "/login", Title: title}
	}

	if route.Guest && authed {
		return Decision{RedirectTo: g.homeFor(), Title: title}
	}

	// Misrouted roles land on their own dashboard.
	if route.RequiresAuth && route.Portal != "" {
		if g.sessions.Role() != route.Portal.ExpectedRole() {
			return Decision{RedirectTo: g.homeFor(), Title: title}
		}
	}

	return Decision{Allow: true, Title: title}
}

// homeFor returns the dashboard entry point for the current role.
func (g *NavigationGuard) homeFor() string {
	if g.sessions.IsAdmin() {
		return "/admin/antrian"
	}
	return "/dashboard"
}

// match finds the route covering path: exact matches win, then the
// longest Prefix route.
func (g *NavigationGuard) match(path string) (Route, bool) {
	path = normalizePath(path)

	var best Route
	var bestLen int
	var found bool
	for _, r := range g.routes {
		if r.Path == path {
			return r, true
		}
		if r.Prefix && strings.HasPrefix(path, r.Path+"/") && len(r.Path) > bestLen {
			best = r
			bestLen = len(r.Path)
			found = true
		}
	}
	return best, found
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

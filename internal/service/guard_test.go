package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
)

func loginAs(t *testing.T, f *sessionFixture, portal domainauth.Portal) {
	t.Helper()
	if portal == domainauth.PortalAdmin {
		f.gateway.DefaultUser = domainauth.Identity{ID: "99", Name: "Petugas Kelurahan", Role: domainauth.RoleOfficer}
	}
	require.True(t, f.svc.Login(context.Background(), "x", "y", portal).Success)
}

func TestGuard_UnauthenticatedRedirectsToLogin(t *testing.T) {
	f := newSessionFixture(t)
	guard := NewNavigationGuard(f.svc, nil)

	for _, path := range []string{"/dashboard", "/dashboard/pengajuan", "/dashboard/riwayat", "/admin/antrian", "/admin/arsip", "/admin/verifikasi/42"} {
		decision := guard.Decide(context.Background(), path)
		assert.False(t, decision.Allow, path)
		assert.Equal(t, "/login", decision.RedirectTo, path)
	}
}

func TestGuard_GuestRoutesOpenWhenLoggedOut(t *testing.T) {
	f := newSessionFixture(t)
	guard := NewNavigationGuard(f.svc, nil)

	for _, path := range []string{"/", "/login", "/register", "/maintenance"} {
		decision := guard.Decide(context.Background(), path)
		assert.True(t, decision.Allow, path)
		assert.Empty(t, decision.RedirectTo, path)
	}
}

func TestGuard_AuthenticatedCitizenBouncedFromGuestRoutes(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalCitizen)
	guard := NewNavigationGuard(f.svc, nil)

	for _, path := range []string{"/", "/login", "/register"} {
		decision := guard.Decide(context.Background(), path)
		assert.False(t, decision.Allow, path)
		assert.Equal(t, "/dashboard", decision.RedirectTo, path)
	}
}

func TestGuard_AuthenticatedOfficerBouncedToQueue(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalAdmin)
	guard := NewNavigationGuard(f.svc, nil)

	decision := guard.Decide(context.Background(), "/login")
	assert.Equal(t, "/admin/antrian", decision.RedirectTo)
}

func TestGuard_MisroutedRoles(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalCitizen)
	guard := NewNavigationGuard(f.svc, nil)

	decision := guard.Decide(context.Background(), "/admin/antrian")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/dashboard", decision.RedirectTo)

	f2 := newSessionFixture(t)
	loginAs(t, f2, domainauth.PortalAdmin)
	guard2 := NewNavigationGuard(f2.svc, nil)

	decision2 := guard2.Decide(context.Background(), "/dashboard")
	assert.False(t, decision2.Allow)
	assert.Equal(t, "/admin/antrian", decision2.RedirectTo)
}

func TestGuard_AllowsMatchingRole(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalCitizen)
	guard := NewNavigationGuard(f.svc, nil)

	for _, path := range []string{"/dashboard", "/dashboard/pengajuan", "/dashboard/riwayat"} {
		decision := guard.Decide(context.Background(), path)
		assert.True(t, decision.Allow, path)
	}
}

func TestGuard_EnforcesExpiryBeforeDeciding(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalCitizen)
	guard := NewNavigationGuard(f.svc, nil)

	f.clock.Advance(domainauth.SessionTimeout + time.Millisecond)

	decision := guard.Decide(context.Background(), "/dashboard")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/login", decision.RedirectTo)
	assert.Equal(t, 1, f.notifier.ExpiredCount(), "stale session is cleared and the user notified")
	assert.False(t, f.svc.IsAuthenticated())
}

func TestGuard_Titles(t *testing.T) {
	f := newSessionFixture(t)
	guard := NewNavigationGuard(f.svc, nil)

	assert.Equal(t, "Beranda - Siwaris - Kelurahan Lenteng Agung", guard.Decide(context.Background(), "/").Title)
	assert.Equal(t, "Masuk - Siwaris - Kelurahan Lenteng Agung", guard.Decide(context.Background(), "/login").Title)
	assert.Equal(t, "Siwaris - Kelurahan Lenteng Agung", guard.Decide(context.Background(), "/unknown").Title)
}

func TestGuard_UnknownPathAllowedWhenLoggedOut(t *testing.T) {
	f := newSessionFixture(t)
	guard := NewNavigationGuard(f.svc, nil)

	decision := guard.Decide(context.Background(), "/unknown")
	assert.True(t, decision.Allow)
}

func TestGuard_PrefixRouteMatchesDetailPages(t *testing.T) {
	f := newSessionFixture(t)
	loginAs(t, f, domainauth.PortalAdmin)
	guard := NewNavigationGuard(f.svc, nil)

	decision := guard.Decide(context.Background(), "/admin/verifikasi/17")
	assert.True(t, decision.Allow)
	assert.Equal(t, "Detail Verifikasi - Siwaris - Kelurahan Lenteng Agung", decision.Title)
}

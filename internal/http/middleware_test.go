package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siwaris/portal-api/internal/adapters/fixture"
	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	mocks "github.com/siwaris/portal-api/internal/mocks/auth"
	"github.com/siwaris/portal-api/internal/service"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newSessions(t *testing.T) (*service.SessionService, *mocks.FixedClock) {
	t.Helper()
	clock := mocks.NewFixedClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Gateway:  fixture.NewGateway(fixture.Config{}),
		Storage:  mocks.NewMemoryStorage(),
		Notifier: &mocks.RecordingNotifier{},
		Clock:    clock,
	})
	return sessions, clock
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	sessions, _ := newSessions(t)
	handler := RequireAuth(sessions)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireAuth_Authenticated(t *testing.T) {
	sessions, _ := newSessions(t)
	require.True(t, sessions.Login(t.Context(), "12345678", "pw", domainauth.PortalCitizen).Success)

	handler := RequireAuth(sessions)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_ExpiredSessionCleared(t *testing.T) {
	sessions, clock := newSessions(t)
	require.True(t, sessions.Login(t.Context(), "12345678", "pw", domainauth.PortalCitizen).Success)

	clock.Advance(domainauth.SessionTimeout + time.Millisecond)

	handler := RequireAuth(sessions)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sessions.Token(), "expired session is cleared on the way in")
}

func TestRequirePortal_WrongRole(t *testing.T) {
	sessions, _ := newSessions(t)
	require.True(t, sessions.Login(t.Context(), "12345678", "pw", domainauth.PortalCitizen).Success)

	handler := RequirePortal(sessions, domainauth.PortalAdmin)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/antrian", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

func TestRequirePortal_MatchingRole(t *testing.T) {
	sessions, _ := newSessions(t)
	require.True(t, sessions.Login(t.Context(), "admin", "adm", domainauth.PortalAdmin).Success)

	handler := RequirePortal(sessions, domainauth.PortalAdmin)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/antrian", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_PanicYields500(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := Recover(slog.Default())(panicking)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_PassesThrough(t *testing.T) {
	handler := Logging(slog.Default())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

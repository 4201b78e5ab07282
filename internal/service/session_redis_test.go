package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siwaris/portal-api/internal/adapters/fixture"
	"github.com/siwaris/portal-api/internal/adapters/redisstore"
	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	mocks "github.com/siwaris/portal-api/internal/mocks/auth"
)

// Exercises the session service against the real Redis storage adapter
// instead of the in-memory double.
func TestSessionService_RedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := redisstore.NewStorage(client)
	clock := mocks.NewFixedClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))

	first := NewSessionService(SessionServiceOptions{
		Gateway: fixture.NewGateway(fixture.Config{}),
		Storage: storage,
		Clock:   clock,
	})

	result := first.Login(t.Context(), "12345678", "pw", domainauth.PortalCitizen)
	require.True(t, result.Success, result.Message)
	require.True(t, mr.Exists("siwaris:session:token"))

	// A fresh service over the same storage picks the session back up.
	second := NewSessionService(SessionServiceOptions{
		Gateway: fixture.NewGateway(fixture.Config{}),
		Storage: storage,
		Clock:   clock,
	})
	require.NoError(t, second.Hydrate(t.Context()))

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "mock-token-1", second.Token())
	assert.Equal(t, domainauth.RoleCitizen, second.Role())
	assert.Equal(t, "Agung Santoso", second.Name())
	assert.Equal(t, "agung@warga.com", second.Email())
	require.NotNil(t, second.User())
	assert.Equal(t, "1", second.User().ID)

	// Logout through the second service clears the shared mirror.
	second.Logout(t.Context())
	assert.False(t, mr.Exists("siwaris:session:token"))
	assert.False(t, mr.Exists("siwaris:session:user"))
	assert.False(t, mr.Exists("siwaris:session:loginTime"))
}

func TestSessionService_RedisExpiredHydration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := redisstore.NewStorage(client)
	clock := mocks.NewFixedClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))

	first := NewSessionService(SessionServiceOptions{
		Gateway: fixture.NewGateway(fixture.Config{}),
		Storage: storage,
		Clock:   clock,
	})
	require.True(t, first.Login(t.Context(), "12345678", "pw", domainauth.PortalCitizen).Success)

	// Hydration restores the stale session; the next expiry check evicts it.
	clock.Advance(domainauth.SessionTimeout + time.Second)
	second := NewSessionService(SessionServiceOptions{
		Gateway: fixture.NewGateway(fixture.Config{}),
		Storage: storage,
		Clock:   clock,
	})
	require.NoError(t, second.Hydrate(t.Context()))

	assert.True(t, second.EnforceExpiry(t.Context()))
	assert.False(t, second.IsAuthenticated())
	assert.False(t, mr.Exists("siwaris:session:token"))
}

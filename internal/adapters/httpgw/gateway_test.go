package httpgw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	apperrors "github.com/siwaris/portal-api/internal/errors"
	"github.com/siwaris/portal-api/internal/ports"
	"github.com/siwaris/portal-api/internal/transport"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGateway(Options{
		Client: transport.NewClient(transport.Options{BaseURL: server.URL}),
	})
}

func TestLogin_FlatShape(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "12345678", body["nik"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":1,"name":"Agung Santoso","role":"masyarakat","nik":"12345678"},"token":"tok-abc"}`))
	})

	res, err := g.Login(context.Background(), " 12345678 ", "pw")

	require.NoError(t, err)
	assert.Equal(t, "tok-abc", res.Token)
	assert.Equal(t, "1", res.User.ID)
	assert.Equal(t, domainauth.RoleCitizen, res.User.Role)
}

func TestLogin_NestedDataShape(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":{"id":"7","profile":{"role":"petugas","name":"Bu Lurah"}},"access_token":"tok-xyz"}}`))
	})

	res, err := g.Login(context.Background(), "lurah", "pw")

	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", res.Token)
	assert.Equal(t, "7", res.User.ID)
	assert.Equal(t, domainauth.RoleOfficer, res.User.EffectiveRole())
	assert.Equal(t, "Bu Lurah", res.User.EffectiveName())
}

func TestLogin_TopLevelIdentityFallback(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":3,"name":"Warga Lama","role":"masyarakat","token":"tok-3"}`))
	})

	res, err := g.Login(context.Background(), "x", "y")

	require.NoError(t, err)
	assert.Equal(t, "tok-3", res.Token)
	assert.Equal(t, "Warga Lama", res.User.Name)
}

func TestLogin_MissingToken(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":1}}`))
	})

	_, err := g.Login(context.Background(), "x", "y")

	require.Error(t, err)
	assert.True(t, apperrors.IsGateway(err))
	assert.Contains(t, err.Error(), "token")
}

func TestLogin_MissingUser(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	})

	_, err := g.Login(context.Background(), "x", "y")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pengguna")
}

func TestLogin_ServerMessagePreferred(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"NIK atau Kata Sandi salah."}`))
	})

	_, err := g.Login(context.Background(), "x", "y")

	require.Error(t, err)
	assert.Equal(t, "NIK atau Kata Sandi salah.", apperrors.UserMessage(err, "fallback"))
}

func TestRegister_ReturnsRawBody(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		_, _ = w.Write([]byte(`{"approval_token":"appr-9","queue":12}`))
	})

	res, err := g.Register(context.Background(), ports.RegisterForm{NIK: "556677", Password: "pw"})

	require.NoError(t, err)
	raw, ok := res.Raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "appr-9", raw["approval_token"])
}

func TestRegister_TransportError(t *testing.T) {
	g := NewGateway(Options{
		Client: transport.NewClient(transport.Options{BaseURL: "http://127.0.0.1:1"}),
	})

	_, err := g.Register(context.Background(), ports.RegisterForm{NIK: "1", Password: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsGateway(err))
}

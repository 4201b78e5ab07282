package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	"github.com/siwaris/portal-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthGateway    = (*MockGateway)(nil)
	_ ports.SessionStorage = (*MemoryStorage)(nil)
	_ ports.Notifier       = (*RecordingNotifier)(nil)
	_ ports.Clock          = (*FixedClock)(nil)
)

// MockGateway simulates an auth backend with overridable behavior.
type MockGateway struct {
	LoginFunc    func(ctx context.Context, identifier, password string) (ports.LoginResult, error)
	RegisterFunc func(ctx context.Context, form ports.RegisterForm) (ports.RegisterResult, error)

	// Defaults used when the funcs above are nil.
	DefaultUser  domainauth.Identity
	DefaultToken string

	LoginCalls    int
	RegisterCalls int
}

// NewMockGateway creates a MockGateway with a sensible default identity.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		DefaultUser: domainauth.Identity{
			ID:    "1",
			Name:  "Agung Santoso",
			Email: "agung@warga.com",
			Role:  domainauth.RoleCitizen,
			NIK:   "12345678",
		},
		DefaultToken: "mock-token-1",
	}
}

func (m *MockGateway) Login(ctx context.Context, identifier, password string) (ports.LoginResult, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return ports.LoginResult{User: m.DefaultUser, Token: m.DefaultToken}, nil
}

func (m *MockGateway) Register(ctx context.Context, form ports.RegisterForm) (ports.RegisterResult, error) {
	m.RegisterCalls++
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, form)
	}
	return ports.RegisterResult{Raw: map[string]any{"success": true}}, nil
}

// MemoryStorage is an in-memory ports.SessionStorage for unit tests.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string

	// Errs forces errors per key for failure-path tests.
	Errs map[string]error
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs[key]; err != nil {
		return "", err
	}
	val, ok := m.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return val, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs[key]; err != nil {
		return err
	}
	if key == "" {
		return errors.New("storage key cannot be empty")
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Value returns the stored value and presence for a key.
func (m *MemoryStorage) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// RecordingNotifier counts session-expired notifications.
type RecordingNotifier struct {
	mu      sync.Mutex
	expired int
}

func (n *RecordingNotifier) SessionExpired(context.Context) {
	n.mu.Lock()
	n.expired++
	n.mu.Unlock()
}

// ExpiredCount returns how many times SessionExpired fired.
func (n *RecordingNotifier) ExpiredCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expired
}

// FixedClock is a settable ports.Clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned to the given instant.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set pins the clock to a new instant.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	domainauth "github.com/siwaris/portal-api/internal/domain/auth"
	apperrors "github.com/siwaris/portal-api/internal/errors"
	"github.com/siwaris/portal-api/internal/ports"
)

// Storage keys mirroring the session. All six are written by the commit
// path and removed together on logout; no partial clears.
const (
	keyToken     = "token"
	keyUser      = "user"
	keyLoginTime = "loginTime"
	keyRole      = "role"
	keyName      = "name"
	keyEmail     = "email"
)

var sessionKeys = []string{keyToken, keyUser, keyLoginTime, keyRole, keyName, keyEmail}

// User-facing fallback messages when the gateway gives none.
const (
	loginFallbackMessage    = "Login gagal. Silakan coba lagi."
	registerFallbackMessage = "Pendaftaran gagal. Silakan coba lagi."
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Gateway  ports.AuthGateway
	Storage  ports.SessionStorage
	Notifier ports.Notifier

	// Clock defaults to the wall clock.
	Clock ports.Clock

	// Timeout is the inactivity window. Defaults to domainauth.SessionTimeout.
	Timeout time.Duration

	Logger *slog.Logger
}

// SessionService owns the client-held session: the authenticated identity,
// its bearer token, and login timestamp, with a durable storage mirror.
// It is safe for concurrent use; the timestamp-compare-then-clear sequence
// in EnforceExpiry is a check-then-act pattern and runs under the mutex.
type SessionService struct {
	gateway  ports.AuthGateway
	storage  ports.SessionStorage
	notifier ports.Notifier
	clock    ports.Clock
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	session domainauth.Session
}

// NewSessionService constructs a SessionService. It performs no I/O;
// call Hydrate to restore persisted state.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	clock := opts.Clock
	if clock == nil {
		clock = wallClock{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domainauth.SessionTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &SessionService{
		gateway:  opts.Gateway,
		storage:  opts.Storage,
		notifier: notifier,
		clock:    clock,
		timeout:  timeout,
		logger:   logger,
	}
}

// wallClock is the default ports.Clock.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// LogNotifier is the default ports.Notifier; it surfaces session
// notifications through the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SessionExpired(ctx context.Context) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Sesi Anda telah berakhir (15 menit tidak aktif). Silakan login kembali.")
}

// Hydrate restores the session from durable storage. A missing token means
// logged out; a corrupt stored identity clears the remnants and starts
// logged out rather than exposing a partial session.
func (s *SessionService) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.storage.Get(ctx, keyToken)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.session = domainauth.Session{}
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "restore session")
	}
	if token == "" {
		s.session = domainauth.Session{}
		return nil
	}

	sess := domainauth.Session{Token: token}

	if raw, getErr := s.storage.Get(ctx, keyUser); getErr == nil && raw != "" {
		var user domainauth.Identity
		if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr != nil {
			s.logger.WarnContext(ctx, "stored identity is corrupt, clearing session", "error", jsonErr)
			s.clearLocked(ctx)
			return nil
		}
		sess.User = &user
	}

	if raw, getErr := s.storage.Get(ctx, keyLoginTime); getErr == nil && raw != "" {
		ms, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			s.logger.WarnContext(ctx, "stored login time is corrupt, clearing session", "error", parseErr)
			s.clearLocked(ctx)
			return nil
		}
		sess.LoginTime = time.UnixMilli(ms)
	}

	if raw, getErr := s.storage.Get(ctx, keyRole); getErr == nil {
		sess.Role = domainauth.Role(raw)
	}
	if raw, getErr := s.storage.Get(ctx, keyName); getErr == nil {
		sess.Name = raw
	}
	if raw, getErr := s.storage.Get(ctx, keyEmail); getErr == nil {
		sess.Email = raw
	}

	s.session = sess
	return nil
}

// Login verifies credentials through the gateway and commits a new session.
// It never returns an error: all failures surface as a structured result.
func (s *SessionService) Login(ctx context.Context, identifier, password string, portal domainauth.Portal) domainauth.AuthResult {
	if !portal.Valid() {
		return domainauth.Failure("Portal tidak dikenali.")
	}

	res, err := s.gateway.Login(ctx, identifier, password)
	if err != nil {
		return domainauth.Failure(apperrors.UserMessage(err, loginFallbackMessage))
	}

	// Valid credentials presented to the wrong portal are a failure,
	// not a gateway error; no session is committed.
	if res.User.EffectiveRole() != portal.ExpectedRole() {
		return domainauth.Failure(roleMismatchMessage(portal))
	}

	s.commit(ctx, res.Token, res.User, nil)
	return domainauth.Successful(nil)
}

func roleMismatchMessage(portal domainauth.Portal) string {
	if portal == domainauth.PortalAdmin {
		return "Akun ini tidak terdaftar sebagai petugas."
	}
	return "Akun ini tidak terdaftar sebagai warga."
}

// Register submits the form through the gateway and normalizes the
// heterogeneous success shapes into a uniform AuthResult.
func (s *SessionService) Register(ctx context.Context, form ports.RegisterForm) domainauth.AuthResult {
	res, err := s.gateway.Register(ctx, form)
	if err != nil {
		return domainauth.Failure(apperrors.UserMessage(err, registerFallbackMessage))
	}
	return normalizeRegisterResponse(res.Raw)
}

// normalizeRegisterResponse folds the backend's register shapes into one:
// {success:true}, an approval token, a token, or a bare true all mean
// success; anything else non-error is wrapped as success with the raw
// payload attached for the caller to inspect.
func normalizeRegisterResponse(raw any) domainauth.AuthResult {
	switch v := raw.(type) {
	case nil:
		return domainauth.Successful(nil)
	case bool:
		if v {
			return domainauth.Successful(nil)
		}
		return domainauth.Failure(registerFallbackMessage)
	case map[string]any:
		if success, ok := v["success"].(bool); ok {
			if !success {
				if msg, ok := v["message"].(string); ok && msg != "" {
					return domainauth.Failure(msg)
				}
				return domainauth.Failure(registerFallbackMessage)
			}
			return domainauth.Successful(extrasWithout(v, "success"))
		}
		if _, ok := v["approval_token"]; ok {
			return domainauth.Successful(v)
		}
		if _, ok := v["token"]; ok {
			return domainauth.Successful(v)
		}
		return domainauth.Successful(map[string]any{"data": v})
	default:
		return domainauth.Successful(map[string]any{"data": v})
	}
}

// extrasWithout returns a copy of m without the given key, or nil when
// nothing else remains.
func extrasWithout(m map[string]any, key string) map[string]any {
	if len(m) <= 1 {
		return nil
	}
	extras := make(map[string]any, len(m)-1)
	for k, val := range m {
		if k != key {
			extras[k] = val
		}
	}
	return extras
}

// Logout clears the session and removes every persisted key. It is
// idempotent and cannot fail; storage errors are logged and the
// in-memory state is cleared regardless.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
}

// EnforceExpiry clears the session when the inactivity window has
// elapsed, notifies the user, and reports whether it did so. The
// navigation guard and the auth middleware invoke it before reading
// the authenticated state.
func (s *SessionService) EnforceExpiry(ctx context.Context) bool {
	s.mu.Lock()
	expired := s.session.ExpiredAt(s.clock.Now(), s.timeout)
	if expired {
		s.clearLocked(ctx)
	}
	s.mu.Unlock()

	if expired {
		s.notifier.SessionExpired(ctx)
	}
	return expired
}

// IsAuthenticated reports whether a non-expired session is present.
// It is a pure query; EnforceExpiry performs the clearing.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Active() && !s.session.ExpiredAt(s.clock.Now(), s.timeout)
}

// IsExpired reports whether the current session's window has elapsed.
func (s *SessionService) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ExpiredAt(s.clock.Now(), s.timeout)
}

// IsAdmin reports whether the session carries the officer role.
func (s *SessionService) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsOfficer()
}

// ShowDashboard reports whether the officer dashboard entry should be
// offered: authenticated and role beyond the base citizen role.
func (s *SessionService) ShowDashboard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.session.Active() && !s.session.ExpiredAt(s.clock.Now(), s.timeout)
	return active && s.session.Role != "" && s.session.Role != domainauth.RoleCitizen
}

// Token returns the bearer token, empty when logged out.
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// Role returns the session role.
func (s *SessionService) Role() domainauth.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Role
}

// Name returns the session display name.
func (s *SessionService) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Name
}

// Email returns the session email.
func (s *SessionService) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Email
}

// User returns a copy of the authenticated identity, nil when logged out.
func (s *SessionService) User() *domainauth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.User == nil {
		return nil
	}
	user := *s.session.User
	return &user
}

// Snapshot returns a copy of the whole session record.
func (s *SessionService) Snapshot() domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session
	if sess.User != nil {
		user := *sess.User
		sess.User = &user
	}
	return sess
}

// commit is the single commit point for a successful authentication.
// It atomically replaces the session (token, identity, derived fields,
// fresh login time) and persists every field; no partial-session state
// is ever observable.
func (s *SessionService) commit(ctx context.Context, token string, user domainauth.Identity, extras map[string]string) {
	now := s.clock.Now()

	sess := domainauth.Session{
		Token:     token,
		User:      &user,
		LoginTime: now,
		Role:      user.EffectiveRole(),
		Name:      user.EffectiveName(),
		Email:     user.EffectiveEmail(),
	}
	if v, ok := extras[keyRole]; ok {
		sess.Role = domainauth.Role(v)
	}
	if v, ok := extras[keyName]; ok {
		sess.Name = v
	}
	if v, ok := extras[keyEmail]; ok {
		sess.Email = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.persistLocked(ctx)
}

// persistLocked mirrors the in-memory session to durable storage.
// Storage failures are logged, never surfaced: the in-memory commit
// already happened and the mirror is best effort.
func (s *SessionService) persistLocked(ctx context.Context) {
	userJSON := ""
	if s.session.User != nil {
		if raw, err := json.Marshal(s.session.User); err == nil {
			userJSON = string(raw)
		} else {
			s.logger.WarnContext(ctx, "marshal identity failed", "error", err)
		}
	}

	values := map[string]string{
		keyToken:     s.session.Token,
		keyUser:      userJSON,
		keyLoginTime: strconv.FormatInt(s.session.LoginTime.UnixMilli(), 10),
		keyRole:      string(s.session.Role),
		keyName:      s.session.Name,
		keyEmail:     s.session.Email,
	}
	for _, key := range sessionKeys {
		if err := s.storage.Set(ctx, key, values[key]); err != nil {
			s.logger.WarnContext(ctx, "persist session key failed", "key", key, "error", err)
		}
	}
}

// clearLocked resets the session and removes every persisted key.
func (s *SessionService) clearLocked(ctx context.Context) {
	s.session = domainauth.Session{}
	if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
		s.logger.WarnContext(ctx, "clear persisted session failed", "error", err)
	}
}

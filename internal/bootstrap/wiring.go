package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/siwaris/portal-api/config"
	"github.com/siwaris/portal-api/internal/adapters/fixture"
	"github.com/siwaris/portal-api/internal/adapters/httpgw"
	"github.com/siwaris/portal-api/internal/adapters/redisstore"
	"github.com/siwaris/portal-api/internal/ports"
	"github.com/siwaris/portal-api/internal/service"
	"github.com/siwaris/portal-api/internal/transport"
)

// ConnectRedis establishes a connection to the session storage Redis.
func ConnectRedis(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis after ping failure", "error", cerr)
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.InfoContext(ctx, "session storage connected", "addr", cfg.RedisAddr)
	return client, nil
}

// SessionDeps groups dependencies for BuildSessionService.
type SessionDeps struct {
	Config  *config.AppConfig
	Storage ports.SessionStorage
	Logger  *slog.Logger
}

// BuildSessionService creates the session service with the gateway
// selected by the configured auth mode. The mode is resolved here, once,
// not re-evaluated per call.
func BuildSessionService(deps SessionDeps) *service.SessionService {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// The live transport's 401 hook forces a logout on the session
	// service, which doesn't exist until the gateway does. The closure
	// binds late; no call can arrive before wiring completes.
	var sessions *service.SessionService

	var gateway ports.AuthGateway
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		logger.Info("auth gateway in mock mode", "latency", cfg.Auth.Fixture.Latency)
		gateway = fixture.NewGateway(fixture.Config{Latency: cfg.Auth.Fixture.Latency})

	case config.AuthModeLive:
		logger.Info("auth gateway in live mode", "base_url", cfg.Auth.BaseURL)
		gateway = httpgw.NewGateway(httpgw.Options{
			Client: transport.NewClient(transport.Options{
				BaseURL: cfg.Auth.BaseURL,
				Timeout: cfg.Auth.Timeout,
				Storage: deps.Storage,
				Logger:  logger,
				OnUnauthorized: func(ctx context.Context) {
					if sessions == nil {
						return
					}
					logger.WarnContext(ctx, "backend returned 401, forcing logout", "redirect", cfg.HTTP.LoginPath)
					sessions.Logout(ctx)
				},
			}),
		})

	default:
		logger.Warn("unknown auth mode, falling back to mock", "mode", string(cfg.Auth.Mode))
		gateway = fixture.NewGateway(fixture.Config{Latency: cfg.Auth.Fixture.Latency})
	}

	sessions = service.NewSessionService(service.SessionServiceOptions{
		Gateway: gateway,
		Storage: deps.Storage,
		Timeout: cfg.Session.Timeout,
		Logger:  logger,
	})
	return sessions
}

// BuildStorage creates the Redis-backed session storage.
func BuildStorage(client redis.UniversalClient, cfg config.StorageConfig) *redisstore.Storage {
	return redisstore.NewStorageWithPrefix(client, cfg.KeyPrefix)
}

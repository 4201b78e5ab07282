package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/siwaris/portal-api/internal/bootstrap"
	httpx "github.com/siwaris/portal-api/internal/http"
	"github.com/siwaris/portal-api/internal/service"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting siwaris portal service",
		"auth_mode", string(cfg.Auth.Mode),
		"dev", cfg.IsDev,
	)

	redisClient, err := bootstrap.ConnectRedis(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	storage := bootstrap.BuildStorage(redisClient, cfg.Storage)

	sessions := bootstrap.BuildSessionService(bootstrap.SessionDeps{
		Config:  &cfg,
		Storage: storage,
		Logger:  logger,
	})

	// Restore any persisted session so a restart doesn't force a login.
	if err := sessions.Hydrate(ctx); err != nil {
		logger.WarnContext(ctx, "session restore failed, starting logged out", "error", err)
	}

	guard := service.NewNavigationGuard(sessions, nil)

	return bootstrap.RunServer(ctx, bootstrap.ServerConfig{
		HTTP: cfg.HTTP,
		Services: httpx.RouterServices{
			Sessions: sessions,
			Guard:    guard,
			Logger:   logger,
		},
		Logger: logger,
	})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferdousr3/manage-x/config"
	"github.com/ferdousr3/manage-x/db"
	"github.com/ferdousr3/manage-x/internal/auth/domain"
	"github.com/ferdousr3/manage-x/internal/auth/handler"
	repo "github.com/ferdousr3/manage-x/internal/auth/repository/postgres"
	"github.com/ferdousr3/manage-x/internal/auth/service"
	"github.com/ferdousr3/manage-x/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const startupTimeout = 15 * time.Second

func main() {
	app := fx.New(options()...)
	app.Run()
}

func options() []fx.Option {
	return []fx.Option{
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			newConfig,
			newLogger,
			newPGXPool,
			newUserRepository,
			newPasswordHasher,
			service.NewTokenService,
			newTokenGenerator,
			newNotifier,
			service.NewUserService,
			handler.NewAuthHandler,
			handler.NewApp,
		),
		fx.Invoke(startHTTPServer),
	}
}

func newConfig() (*config.Config, error) {
	return config.Load()
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

func newPGXPool(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbLog := logger.Module(log, logger.ModuleDatabase)

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		dbLog.Info("migrations applied")
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			dbLog.Info("database pool closed")
			return nil
		},
	})
	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) domain.UserRepository {
	return repo.NewPostgresRepository(pool)
}

func newPasswordHasher() domain.PasswordHasher {
	return service.NewArgon2Hasher(service.DefaultArgon2Params)
}

func newTokenGenerator(ts *service.TokenService) service.TokenGenerator {
	return ts
}

func newNotifier(cfg *config.Config, log *zap.Logger) domain.Notifier {
	return service.NewLogNotifier(cfg.FrontendURL, log)
}

func startHTTPServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	apiLog := logger.Module(log, logger.ModuleAPI)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := ":" + cfg.Port
			go func() {
				defer close(done)
				apiLog.Info("http server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
				if err := app.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					apiLog.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			select {
			case <-done:
			case <-ctx.Done():
			}
			apiLog.Info("http server stopped")
			return nil
		},
	})
}

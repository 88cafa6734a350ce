// Command passwd sets a user's password directly in the database.
//
//	go run ./cmd/passwd -email user@example.com -password 'new secret'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ferdousr3/manage-x/config"
	"github.com/ferdousr3/manage-x/db"
	repo "github.com/ferdousr3/manage-x/internal/auth/repository/postgres"
	"github.com/ferdousr3/manage-x/internal/auth/service"
	"github.com/ferdousr3/manage-x/internal/logger"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email of the account to update")
	password := flag.String("password", "", "new password")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*email, *password); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	tokens, err := service.NewTokenService(cfg)
	if err != nil {
		return err
	}

	users := service.NewUserService(
		repo.NewPostgresRepository(pool),
		tokens,
		service.NewArgon2Hasher(service.DefaultArgon2Params),
		service.NewLogNotifier(cfg.FrontendURL, log),
		log,
		cfg,
	)

	if err := users.SetPassword(ctx, email, password); err != nil {
		log.Error("password update failed", zap.String("email", email), zap.Error(err))
		return err
	}
	log.Info("password updated", zap.String("email", email))
	return nil
}

// @title         webshop account API
// @version       1.0
// @description   Регистрация и вход пользователей интернет-магазина. Вход выдаёт подписанный JWT.
// @BasePath      /api
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен авторизации. Поддерживаются форматы: "Bearer <JWT>" или "<JWT>".
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/artem13815/webshop/docs"

	// internal imports
	"github.com/artem13815/webshop/api/http"
	"github.com/artem13815/webshop/api/http/handlers"
	"github.com/artem13815/webshop/pkg/auth"
	"github.com/artem13815/webshop/pkg/config"
	"github.com/artem13815/webshop/pkg/health"
	"github.com/artem13815/webshop/pkg/health/checkers"
	"github.com/artem13815/webshop/pkg/logging"
	"github.com/artem13815/webshop/pkg/repository/memory"
	pgrepo "github.com/artem13815/webshop/pkg/repository/postgres"
	"github.com/artem13815/webshop/pkg/security/jwt"
	"github.com/artem13815/webshop/pkg/security/password"
	"github.com/artem13815/webshop/pkg/storage/postgres"
)

func main() {
	// Load configuration from env/.env
	cfg := config.Load()
	log := logging.Setup("webshop", cfg.LogFormat, cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire dependencies (Clean Architecture)
	var (
		users auth.UserRepository
		ready health.Checker
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info("migrations applied")
		}
		users = pgrepo.NewUserRepository(pool)
		ready = checkers.NewPostgresChecker(pool)
	default:
		repo := memory.NewUserRepository()
		users = repo
		ready = checkers.NewPingChecker("memory", repo)
		log.Warn("using in-memory user storage; data is lost on restart")
	}

	hasher := password.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	policy := auth.DefaultPasswordPolicy()
	policy.MinLength = cfg.PasswordMinLength
	store, err := auth.NewCredentialStore(users, hasher, policy)
	if err != nil {
		return err
	}

	// Token issuer: one signing key per process
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, jwt.MinSecretLen)
		if _, err := rand.Read(secret); err != nil {
			return err
		}
		log.Warn("JWT_SECRET not set; generated an ephemeral signing key")
	}
	issuer, err := jwt.NewIssuer(secret, cfg.JWTIssuer, cfg.TokenTTL())
	if err != nil {
		return err
	}

	authUC := auth.NewAuthService(store, issuer, log)
	accountHandler := handlers.NewAccountHandler(authUC, log)
	healthHandler := handlers.NewHealthHandler(health.NewService(ready))

	app := http.NewApp(http.Options{ReadTimeout: cfg.ReadTimeout, WriteTimeout: cfg.WriteTimeout}, log)
	// Register routes
	http.Register(app, accountHandler, healthHandler, jwt.NewAuthMiddleware(issuer))

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.Port, "storage", cfg.Storage)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

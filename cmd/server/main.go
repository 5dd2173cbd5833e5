package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/learning-management-system/config"
	"github.com/ErlanBelekov/learning-management-system/internal/auth"
	"github.com/ErlanBelekov/learning-management-system/internal/email"
	"github.com/ErlanBelekov/learning-management-system/internal/health"
	"github.com/ErlanBelekov/learning-management-system/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/learning-management-system/internal/log"
	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/ErlanBelekov/learning-management-system/internal/password"
	"github.com/ErlanBelekov/learning-management-system/internal/token"
	httptransport "github.com/ErlanBelekov/learning-management-system/internal/transport/http"
	"github.com/ErlanBelekov/learning-management-system/internal/transport/http/handler"
	"github.com/ErlanBelekov/learning-management-system/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	hasher, err := password.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		stop()
		log.Fatalf("password hasher: %v", err)
	}

	sender, err := email.NewSender(cfg.EmailProvider, email.Options{
		ResendAPIKey: cfg.ResendAPIKey,
		ResendFrom:   cfg.ResendFrom,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		SMTPFrom:     cfg.SMTPFrom,
	}, logger)
	if err != nil {
		stop()
		log.Fatalf("email: %v", err)
	}

	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.JWTIssuer)

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(usecase.AuthDeps{
		Users:         userRepo,
		Hasher:        hasher,
		Tokens:        tokens,
		Notifier:      email.NewResetNotifier(sender, cfg.ResetLinkBase, cfg.ResetTokenTTL),
		Authenticator: auth.NewManager(userRepo, hasher),
		Logger:        logger,
		SessionTTL:    cfg.SessionTokenTTL,
		ResetTTL:      cfg.ResetTokenTTL,
	})
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Hired candidates
	candidateRepo := postgres.NewCandidateRepository(pool, logger)
	candidateUsecase := usecase.NewCandidateUsecase(candidateRepo, logger)
	candidateHandler := handler.NewCandidateHandler(candidateUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, candidateHandler, tokens, userRepo),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", "port", cfg.Port, "email_provider", cfg.EmailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	// Either a signal or a failed listener stops both servers.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", "error", err)
		}
		return nil
	})

	err = g.Wait()
	stop()
	if err != nil {
		logger.Error("server exited", "error", err)
		pool.Close()
		os.Exit(1)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

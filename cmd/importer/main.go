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
	"github.com/ErlanBelekov/learning-management-system/internal/health"
	"github.com/ErlanBelekov/learning-management-system/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/learning-management-system/internal/log"
	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/ErlanBelekov/learning-management-system/internal/scheduler"
	"github.com/ErlanBelekov/learning-management-system/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.CandidateImportPath == "" {
		log.Fatal("config: CANDIDATE_IMPORT_PATH is required for the importer")
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

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

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer,
		health.Dependency{Name: "import_file", Pinger: statFile(cfg.CandidateImportPath)},
	)

	candidateUsecase := usecase.NewCandidateUsecase(postgres.NewCandidateRepository(pool, logger), logger)

	importer, err := scheduler.NewImporter(candidateUsecase, cfg.CandidateImportPath, cfg.CandidateImportCron, logger)
	if err != nil {
		stop()
		log.Fatalf("importer: %v", err)
	}
	go importer.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("importer shut down")
}

// statFile reports the import file as down when it is missing or unreadable.
func statFile(path string) health.PingFunc {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		return nil
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

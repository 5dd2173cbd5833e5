package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	ctxlog "github.com/ErlanBelekov/learning-management-system/internal/log"
	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/ErlanBelekov/learning-management-system/internal/requestid"
	"github.com/robfig/cron/v3"
)

type fileImporter interface {
	ImportFile(ctx context.Context, path string) ([]*domain.HiredCandidate, error)
}

// Importer re-imports the hired candidate CSV at path on a cron schedule.
type Importer struct {
	candidates fileImporter
	path       string
	schedule   cron.Schedule
	logger     *slog.Logger
	now        func() time.Time
}

func NewImporter(candidates fileImporter, path, cronExpr string, logger *slog.Logger) (*Importer, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse import schedule %q: %w", cronExpr, err)
	}
	return &Importer{
		candidates: candidates,
		path:       path,
		schedule:   sched,
		logger:     logger.With("component", "candidate_importer"),
		now:        time.Now,
	}, nil
}

// Start runs one import immediately and then one per schedule tick until
// ctx is cancelled.
func (i *Importer) Start(ctx context.Context) {
	i.logger.Info("importer started", "path", i.path)
	i.RunOnce(ctx)

	for {
		next := i.nextRun()
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			i.logger.Info("importer shut down")
			return
		case <-timer.C:
			i.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single import and records its outcome. Each run gets
// its own request id so its log lines can be correlated.
func (i *Importer) RunOnce(ctx context.Context) {
	ctx, _ = requestid.Ensure(ctx)
	ctx = ctxlog.With(ctx, slog.String("path", i.path))

	saved, err := i.candidates.ImportFile(ctx, i.path)
	if err != nil {
		metrics.CandidateImportRunsTotal.WithLabelValues("error").Inc()
		i.logger.ErrorContext(ctx, "candidate import failed", "imported", len(saved), "error", err)
		return
	}
	metrics.CandidateImportRunsTotal.WithLabelValues("ok").Inc()
	i.logger.InfoContext(ctx, "candidate import finished", "imported", len(saved))
}

// nextRun returns the next future run time, skipping any missed runs.
func (i *Importer) nextRun() time.Time {
	now := i.now()
	next := i.schedule.Next(now)
	for !next.After(now) {
		next = i.schedule.Next(next)
	}
	return next
}

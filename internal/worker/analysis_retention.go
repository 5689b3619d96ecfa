package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/internal/repository"
)

// AnalysisRetentionWorker prunes old prescription audit records on an
// interval. Audit rows carry patient data, so they are not kept forever.
type AnalysisRetentionWorker struct {
	repo          repository.AnalysisRepository
	retentionDays int
	interval      time.Duration
	logger        zerolog.Logger
}

func NewAnalysisRetentionWorker(repo repository.AnalysisRepository, retentionDays int, interval time.Duration, logger zerolog.Logger) *AnalysisRetentionWorker {
	return &AnalysisRetentionWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger.With().Str("worker", "analysis_retention").Logger(),
	}
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (w *AnalysisRetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *AnalysisRetentionWorker) prune(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.repo.Cleanup(ctx, cutoff)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to prune analysis records")
		return
	}
	if rows > 0 {
		w.logger.Info().Int64("rows", rows).Time("cutoff", cutoff).Msg("pruned analysis records")
	}
}

// Package scheduler pre-generates daily recommendations so the first request of
// the day is served from the record store.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"intern-match/internal/pkg/logger"
	"intern-match/internal/repository"
	"intern-match/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Summary struct {
	Candidates int
	Generated  int
	Cached     int
	Empty      int
	Skipped    int
	Failed     int
	Duration   time.Duration
}

// Warmer runs the non-forced daily path for every candidate with a profile. It
// is idempotent: candidates that already have today's record count as cached.
type Warmer struct {
	profiles    repository.ProfileRepository
	daily       usecase.DailyRecommendationUsecase
	concurrency int
	logger      *zap.Logger
}

func NewWarmer(profiles repository.ProfileRepository, daily usecase.DailyRecommendationUsecase, concurrency int, log *zap.Logger) *Warmer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Warmer{
		profiles:    profiles,
		daily:       daily,
		concurrency: concurrency,
		logger:      logger.OrNop(log),
	}
}

// Run fails only when the candidate list cannot be read; per-candidate failures
// are logged and counted.
func (w *Warmer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	w.logger.Info("warm-up started")

	ids, err := w.profiles.ListCandidateIDs(ctx)
	if err != nil {
		w.logger.Error("warm-up list candidates failed", zap.Error(err))
		return Summary{}, err
	}

	var (
		mu  sync.Mutex
		sum = Summary{Candidates: len(ids)}
	)
	count := func(f func(s *Summary)) {
		mu.Lock()
		defer mu.Unlock()
		f(&sum)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			w.warmOne(gctx, id, count)
			return nil
		})
	}
	// Only cancellation surfaces here.
	if err := g.Wait(); err != nil {
		sum.Duration = time.Since(start)
		return sum, err
	}

	sum.Duration = time.Since(start)
	w.logger.Info("warm-up finished",
		zap.Int("candidates", sum.Candidates),
		zap.Int("generated", sum.Generated),
		zap.Int("cached", sum.Cached),
		zap.Int("empty", sum.Empty),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

func (w *Warmer) warmOne(ctx context.Context, id uuid.UUID, count func(func(*Summary))) {
	res, err := w.daily.GetDaily(ctx, id, usecase.DailyParams{})
	switch {
	case errors.Is(err, usecase.ErrProfileNotFound):
		count(func(s *Summary) { s.Skipped++ })
		w.logger.Debug("warm-up skipped incomplete profile", zap.String(logger.FieldCandidateID, id.String()))
	case err != nil:
		count(func(s *Summary) { s.Failed++ })
		w.logger.Warn("warm-up failed", zap.String(logger.FieldCandidateID, id.String()), zap.Error(err))
	case res.Message != "":
		count(func(s *Summary) { s.Empty++ })
	case res.Cached:
		count(func(s *Summary) { s.Cached++ })
	default:
		count(func(s *Summary) { s.Generated++ })
	}
}

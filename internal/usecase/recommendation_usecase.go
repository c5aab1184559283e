package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"intern-match/internal/domain/matching"
	"intern-match/internal/domain/recommendation"
	"intern-match/internal/pkg/logger"
	"intern-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const MaxDailyLimit = 20

// generateTimeout bounds one shared generation; it matches the lock lifetime.
const generateTimeout = dailyLockTTL

type DailyParams struct {
	Limit        int
	ForceRefresh bool
}

// DailyResult is what one daily request produces. Completeness is set only for
// freshly generated records; Message is set only when nothing was eligible.
type DailyResult struct {
	Record       recommendation.DailyRecord
	Cached       bool
	Completeness *recommendation.Completeness
	Message      string
}

type DailyRecommendationUsecase interface {
	GetDaily(ctx context.Context, candidateID uuid.UUID, params DailyParams) (DailyResult, error)
}

type refreshLimiter interface {
	Allow(key string) bool
}

type DailyRecommendationDeps struct {
	Profiles     repository.ProfileRepository
	Listings     repository.ListingRepository
	Applications repository.ApplicationRepository
	Records      repository.RecommendationRepository

	// Optional.
	Cache          RecommendationCache
	RefreshLimiter refreshLimiter
	Logger         *zap.Logger
}

type DailyRecommendationOptions struct {
	Location     *time.Location
	DefaultLimit int
	MinScore     int
	CacheTTL     time.Duration
	Now          func() time.Time
}

type DailyRecommendation struct {
	profiles     repository.ProfileRepository
	listings     repository.ListingRepository
	applications repository.ApplicationRepository
	records      repository.RecommendationRepository
	cache        RecommendationCache
	limiter      refreshLimiter
	logger       *zap.Logger

	loc          *time.Location
	defaultLimit int
	minScore     int
	cacheTTL     time.Duration
	now          func() time.Time

	inflight singleflight.Group
}

func NewDailyRecommendationUsecase(deps DailyRecommendationDeps, opts DailyRecommendationOptions) *DailyRecommendation {
	u := &DailyRecommendation{
		profiles:     deps.Profiles,
		listings:     deps.Listings,
		applications: deps.Applications,
		records:      deps.Records,
		cache:        deps.Cache,
		limiter:      deps.RefreshLimiter,
		logger:       logger.OrNop(deps.Logger),
		loc:          opts.Location,
		defaultLimit: opts.DefaultLimit,
		minScore:     opts.MinScore,
		cacheTTL:     opts.CacheTTL,
		now:          opts.Now,
	}
	if u.loc == nil {
		u.loc = time.UTC
	}
	if u.defaultLimit <= 0 || u.defaultLimit > MaxDailyLimit {
		u.defaultLimit = matching.DefaultDailyLimit
	}
	if u.minScore < 0 {
		u.minScore = 0
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

func (u *DailyRecommendation) GetDaily(ctx context.Context, candidateID uuid.UUID, params DailyParams) (DailyResult, error) {
	if candidateID == uuid.Nil {
		return DailyResult{}, ErrUnauthorized
	}
	limit := params.Limit
	if limit == 0 {
		limit = u.defaultLimit
	}
	if limit < 0 || limit > MaxDailyLimit {
		return DailyResult{}, ErrInvalidInput
	}
	if params.ForceRefresh && u.limiter != nil && !u.limiter.Allow(candidateID.String()) {
		return DailyResult{}, ErrRateLimited
	}

	profile, err := u.profiles.FindByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return DailyResult{}, ErrProfileNotFound
		}
		u.logger.Error("load profile failed", zap.String(logger.FieldCandidateID, candidateID.String()), zap.Error(err))
		return DailyResult{}, ErrInternal
	}
	if !profile.Valid() {
		return DailyResult{}, ErrProfileNotFound
	}

	now := u.now()
	date := recommendation.DateKey(now, u.loc)
	log := u.logger.With(
		zap.String(logger.FieldCandidateID, candidateID.String()),
		zap.String(logger.FieldRecDate, date),
	)

	if !params.ForceRefresh {
		if rec, ok := u.lookup(ctx, log, candidateID, date); ok {
			return DailyResult{Record: rec, Cached: true}, nil
		}
	}

	// Joined callers share one generation, so it must not die with the caller
	// that started it; each caller still stops waiting on its own ctx.
	key := fmt.Sprintf("%s:%s:%d:%t", candidateID, date, limit, params.ForceRefresh)
	ch := u.inflight.DoChan(key, func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generateTimeout)
		defer cancel()
		return u.generate(gctx, log, profile, candidateID, date, now, limit, params.ForceRefresh)
	})
	select {
	case <-ctx.Done():
		return DailyResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return DailyResult{}, r.Err
		}
		if r.Shared {
			log.Debug("joined in-flight generation")
		}
		return r.Val.(DailyResult), nil
	}
}

// lookup reads the shared cache first, then the record store. Read failures are
// logged and treated as a miss.
func (u *DailyRecommendation) lookup(ctx context.Context, log *zap.Logger, candidateID uuid.UUID, date string) (recommendation.DailyRecord, bool) {
	cacheKey := DailyRecordCacheKey(candidateID, date)

	if u.cache != nil {
		var rec recommendation.DailyRecord
		hit, err := u.cache.GetJSON(ctx, cacheKey, &rec)
		if err == nil && hit {
			log.Debug("cache hit", zap.String("key", cacheKey))
			return rec, true
		}
		log.Debug("cache miss", zap.String("key", cacheKey))
	}

	rec, ok, err := u.records.Get(ctx, candidateID, date)
	if err != nil {
		log.Warn("read daily record failed", zap.Error(err))
		return recommendation.DailyRecord{}, false
	}
	if !ok {
		return recommendation.DailyRecord{}, false
	}
	u.cacheRecord(ctx, log, rec)
	return rec, true
}

func (u *DailyRecommendation) generate(
	ctx context.Context,
	log *zap.Logger,
	profile matching.CandidateProfile,
	candidateID uuid.UUID,
	date string,
	now time.Time,
	limit int,
	force bool,
) (DailyResult, error) {
	cacheKey := DailyRecordCacheKey(candidateID, date)

	if force && u.cache != nil {
		if err := u.cache.Delete(ctx, cacheKey); err != nil {
			log.Warn("cache delete failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	if !force && u.cache != nil {
		lockKey := DailyRecordLockKey(candidateID, date)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", dailyLockTTL)
		switch {
		case err == nil && ok:
			log.Debug("lock acquired", zap.String("key", lockKey))
			defer func() {
				_ = u.cache.Delete(context.Background(), lockKey)
			}()
		case err == nil && !ok:
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			select {
			case <-ctx.Done():
				return DailyResult{}, ctx.Err()
			case <-time.After(dailyLockWait + jitter):
			}
			if rec, hit := u.lookup(ctx, log, candidateID, date); hit {
				return DailyResult{Record: rec, Cached: true}, nil
			}
			log.Debug("lock wait fallback", zap.String("key", lockKey))
		}
	}

	var (
		catalog []matching.Listing
		applied []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = u.listings.ListCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		applied, err = u.applications.ListAppliedListingIDs(gctx, candidateID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("load catalog failed", zap.Error(err))
		return DailyResult{}, ErrInternal
	}

	eligible := matching.EligibleListings(catalog, applied, now)
	if len(eligible) == 0 {
		log.Info("no eligible listings", zap.Int("catalog", len(catalog)), zap.Int("applied", len(applied)))
		if force {
			if err := u.records.Delete(ctx, candidateID, date); err != nil {
				log.Warn("delete stale daily record failed", zap.Error(err))
			}
		}
		return DailyResult{
			Record: recommendation.DailyRecord{
				CandidateID: candidateID,
				Date:        date,
				Items:       []recommendation.Item{},
			},
			Message: recommendation.NoNewListingsMessage,
		}, nil
	}

	ranked, err := matching.Rank(profile, eligible, matching.RankOptions{
		Scoring:  matching.ScoringDaily,
		MinScore: u.minScore,
		Limit:    limit,
		AsOf:     now,
		OnSkip: func(l matching.Listing, err error) {
			log.Warn("listing skipped", zap.String("listing_id", l.ID), zap.Error(err))
		},
	})
	if err != nil {
		log.Error("rank failed", zap.Error(err))
		return DailyResult{}, ErrInternal
	}

	rec := recommendation.DailyRecord{
		CandidateID: candidateID,
		Date:        date,
		Items:       recommendation.NewItems(ranked, eligible),
		GeneratedAt: now.UTC().Truncate(time.Microsecond),
	}
	log.Info("daily recommendations generated",
		zap.Int("catalog", len(catalog)),
		zap.Int("eligible", len(eligible)),
		zap.Int("ranked", len(rec.Items)),
		zap.Bool("force_refresh", force),
	)

	write := u.records.Upsert
	if force {
		write = u.records.Replace
	}
	if err := write(ctx, rec); err != nil {
		log.Warn("persist daily record failed, returning unpersisted result", zap.Error(err))
	} else {
		u.cacheRecord(ctx, log, rec)
	}

	completeness := recommendation.CompletenessOf(profile)
	return DailyResult{Record: rec, Cached: false, Completeness: &completeness}, nil
}

func (u *DailyRecommendation) cacheRecord(ctx context.Context, log *zap.Logger, rec recommendation.DailyRecord) {
	if u.cache == nil {
		return
	}
	key := DailyRecordCacheKey(rec.CandidateID, rec.Date)
	if err := u.cache.SetJSON(ctx, key, rec, cacheTTL(u.now(), u.loc, u.cacheTTL)); err != nil {
		log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	log.Debug("cache set", zap.String("key", key))
}

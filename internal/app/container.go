package app

import (
	"context"
	"fmt"
	"time"

	"intern-match/internal/config"
	"intern-match/internal/database"
	dbpostgres "intern-match/internal/database/postgres"
	"intern-match/internal/domain/matching"
	"intern-match/internal/infrastructure/cache"
	"intern-match/internal/pkg/jwt"
	"intern-match/internal/pkg/logger"
	"intern-match/internal/pkg/ratelimit"
	"intern-match/internal/repository"
	"intern-match/internal/scheduler"
	"intern-match/internal/usecase"

	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the HTTP server and the
// CLI: connections, repositories, and usecases.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	JWT   *jwt.HMACService

	Profiles repository.ProfileRepository
	Listings repository.ListingRepository

	Daily    *usecase.DailyRecommendation
	Matching *usecase.Matching
	Warmer   *scheduler.Warmer
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, cfg.App.AppName)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return NewContainerWith(cfg, log, db, cache.NewRedis(cfg.Redis, log.Named("cache"))), nil
}

// NewContainerWith wires usecases over connections the caller already holds. A nil
// redis disables the shared cache.
func NewContainerWith(cfg config.Config, log *zap.Logger, db database.DB, redis *cache.Redis) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger.OrNop(log),
		DB:     db,
		Cache:  redis,
		JWT:    jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
	}
	c.wire()
	return c
}

func (c *Container) wire() {
	profiles := repository.NewPostgresProfileRepository(c.DB)
	listings := repository.NewPostgresListingRepository(c.DB)
	c.Profiles = profiles
	c.Listings = listings

	deps := usecase.DailyRecommendationDeps{
		Profiles:       profiles,
		Listings:       listings,
		Applications:   repository.NewPostgresApplicationRepository(c.DB),
		Records:        repository.NewPostgresRecommendationRepository(c.DB),
		RefreshLimiter: ratelimit.NewPerMinute(c.Config.Recs.RefreshPerMinute),
		Logger:         c.Logger.Named("daily"),
	}
	if c.Cache != nil {
		deps.Cache = c.Cache
	}

	c.Daily = usecase.NewDailyRecommendationUsecase(
		deps,
		usecase.DailyRecommendationOptions{
			Location:     c.Config.Recs.Location(),
			DefaultLimit: c.Config.Recs.DefaultLimit,
			MinScore:     c.Config.Recs.DailyMinScore,
			CacheTTL:     c.Config.Redis.TTL(),
		},
	)
	c.Matching = usecase.NewMatchingUsecase(matching.NewEngine(nil), profiles, listings, c.Logger.Named("match"))
	c.Warmer = scheduler.NewWarmer(profiles, c.Daily, c.Config.Scheduler.Concurrency, c.Logger.Named("warmup"))
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

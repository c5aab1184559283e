package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"intern-match/internal/app"
	"intern-match/internal/config"
	"intern-match/internal/database"
	dbpostgres "intern-match/internal/database/postgres"
	"intern-match/internal/database/migration"
	"intern-match/internal/database/seeder"
	"intern-match/internal/domain/recommendation"
	"intern-match/internal/infrastructure/cache"
	"intern-match/internal/pkg/jwt"
	"intern-match/internal/usecase"
	"intern-match/migrations"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Precompute today's recommendations for every candidate",
	Long: "Runs one warm-up pass against Postgres and Redis. A file lock keeps two passes on the same " +
		"host from overlapping.",
	RunE: runWarm,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo listings and a demo profile",
	RunE:  runSeed,
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop cached daily records from Redis",
	Long: "Removes cached daily records so the next request reads the record store. Stored records are " +
		"kept; use recommend --force or the force_refresh flag to regenerate them.",
	RunE: runFlushCache,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a candidate",
	RunE:  runToken,
}

var (
	warmLockFile string
	migrateDir   string
	flushDate    string
	tokenSubject string
)

var errWarmLocked = errors.New("another warm-up is already running")

func init() {
	warmCmd.Flags().StringVar(&warmLockFile, "lock-file", filepath.Join(os.TempDir(), "matchctl-warm.lock"), "Host-level lock file")
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "Read migrations from this directory instead of the built-in set")
	flushCacheCmd.Flags().StringVar(&flushDate, "date", "", "Only flush records for this YYYY-MM-DD date")
	tokenCmd.Flags().StringVar(&tokenSubject, "candidate", "", "Candidate UUID (required)")
	mustMarkRequired(tokenCmd, "candidate")

	rootCmd.AddCommand(warmCmd, migrateCmd, seedCmd, flushCacheCmd, tokenCmd)
}

func runWarm(cmd *cobra.Command, _ []string) error {
	lock := flock.New(warmLockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", warmLockFile, err)
	}
	if !locked {
		return errWarmLocked
	}
	defer func() { _ = lock.Unlock() }()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	c, err := app.NewContainer(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	sum, err := c.Warmer.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"candidates":  sum.Candidates,
		"generated":   sum.Generated,
		"cached":      sum.Cached,
		"empty":       sum.Empty,
		"skipped":     sum.Skipped,
		"failed":      sum.Failed,
		"duration_ms": sum.Duration.Milliseconds(),
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withDatabase(cmd, func(ctx context.Context, db database.DB, log *zap.Logger) error {
		r := migration.Runner{FS: migrations.FS, Logger: log}
		if migrateDir != "" {
			r = migration.Runner{Dir: migrateDir, Logger: log}
		}
		n, err := r.Run(ctx, db.SQLDB())
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations applied", zap.Int("count", n))
		return nil
	})
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withDatabase(cmd, func(ctx context.Context, db database.DB, log *zap.Logger) error {
		return seeder.Runner{Seeders: seeder.Defaults(), Logger: log}.Run(ctx, db)
	})
}

func runFlushCache(cmd *cobra.Command, _ []string) error {
	if flushDate != "" {
		if _, err := time.Parse(recommendation.DateLayout, flushDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	redis := cache.NewRedis(cfg.Redis, log.Named("cache"))
	defer func() { _ = redis.Close() }()

	if err := redis.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	pattern := usecase.DailyRecordCachePattern(flushDate)
	if err := redis.DeleteByPattern(cmd.Context(), pattern); err != nil {
		return fmt.Errorf("flush %s: %w", pattern, err)
	}
	log.Info("cache flushed", zap.String("pattern", pattern))
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(tokenSubject)
	if err != nil {
		return fmt.Errorf("invalid --candidate: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tok, err := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn).GenerateAccessToken(id)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
	return err
}

func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, db database.DB, log *zap.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Database.Configured() {
		return errors.New("database is not configured (set DB_HOST and DB_NAME)")
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, appName(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, db, log)
}

func appName(cfg config.Config) string {
	if cfg.App.AppName == "" {
		return "matchctl"
	}
	return cfg.App.AppName + "-matchctl"
}

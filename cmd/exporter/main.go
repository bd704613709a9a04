package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowlane/catalog-sync-backend/internal/catalog"
	"github.com/glowlane/catalog-sync-backend/internal/export"
	"github.com/glowlane/catalog-sync-backend/internal/feed"
	"github.com/glowlane/catalog-sync-backend/internal/runlock"
	"github.com/glowlane/catalog-sync-backend/pkg/config"
	"github.com/glowlane/catalog-sync-backend/pkg/db"
	apperrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
	"github.com/glowlane/catalog-sync-backend/pkg/metrics"
	"github.com/glowlane/catalog-sync-backend/pkg/migrate"
	"github.com/glowlane/catalog-sync-backend/pkg/redis"
)

// exporter runs one export pass: snapshot exportable rows, write the feed
// files and archive copy, advance lifecycle statuses. Meant to run from a
// scheduler; the Redis run lock keeps overlapping invocations out.
func main() {
	logg := logger.New(logger.Options{ServiceName: "exporter"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "exporter",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	locker := runlock.Locker(runlock.NewNoopLocker())
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		locker = runlock.NewRedisLocker(redisClient, cfg.Export.LockKey, cfg.Export.LockTTL, logg)
	} else {
		logg.Warn(ctx, "redis not configured, running without a distributed run lock")
	}

	transformer, err := export.NewTransformer(export.DefaultTransformConfig())
	if err != nil {
		logg.Error(ctx, "failed to build transformer", err)
		os.Exit(1)
	}

	service, err := export.NewService(
		dbClient,
		catalog.NewRepository(dbClient.DB()),
		transformer,
		feed.NewWriter(cfg.Export.OutputDir, cfg.Export.ArchiveDir, cfg.Export.Site),
		locker,
		metrics.NewPipelineMetrics(prometheus.DefaultRegisterer),
		logg,
		cfg.Export.Vendor,
	)
	if err != nil {
		logg.Error(ctx, "failed to create export service", err)
		os.Exit(1)
	}

	result, err := service.Run(ctx)
	if err != nil {
		logg.Error(ctx, "export run failed", err)
		os.Exit(apperrors.ExitCode(err))
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"run_id":        result.RunID,
		"files":         result.Files,
		"rows_advanced": result.Advanced,
	}), "exporter finished")
}

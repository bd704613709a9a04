package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/glowlane/catalog-sync-backend/internal/catalog"
	"github.com/glowlane/catalog-sync-backend/internal/reconcile"
	"github.com/glowlane/catalog-sync-backend/pkg/config"
	"github.com/glowlane/catalog-sync-backend/pkg/db"
	apperrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
	"github.com/glowlane/catalog-sync-backend/pkg/metrics"
	"github.com/glowlane/catalog-sync-backend/pkg/migrate"

	"github.com/prometheus/client_golang/prometheus"
)

// reconciler ingests scraped records as JSON lines (stdin or -input file) and
// reconciles each one against the canonical store. Malformed or identity-less
// records are logged and skipped; store failures abort the run.
func main() {
	inputPath := flag.String("input", "", "path to a JSONL file of scraped records (default stdin)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "reconciler"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reconciler",
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

	service, err := reconcile.NewService(dbClient, catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "failed to create reconcile service", err)
		os.Exit(1)
	}

	input := io.Reader(os.Stdin)
	if *inputPath != "" {
		file, err := os.Open(*inputPath)
		if err != nil {
			logg.Error(ctx, "failed to open input file", err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	pipeline := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)
	if err := run(ctx, logg, pipeline, service, input); err != nil {
		logg.Error(ctx, "reconcile run failed", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, logg *logger.Logger, pipeline *metrics.PipelineMetrics, service reconcile.Service, input io.Reader) error {
	validate := validator.New()
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var line, reconciled, skipped int
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		lineCtx := logg.WithField(ctx, "line", line)

		var record reconcile.ScrapedRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			logg.Warn(lineCtx, "skipping malformed record")
			skipped++
			continue
		}
		if err := validate.Struct(record); err != nil {
			logg.Warn(logg.WithField(lineCtx, "error", err.Error()), "skipping invalid record")
			skipped++
			continue
		}

		outcome, err := service.Reconcile(lineCtx, record)
		if err != nil {
			var typed *apperrors.Error
			if errors.As(err, &typed) && typed.Code() == apperrors.CodeValidation {
				logg.Warn(logg.WithField(lineCtx, "error", err.Error()), "skipping record without identity")
				skipped++
				continue
			}
			pipeline.IncFailure("reconcile")
			return err
		}
		reconciled++
		logg.Info(logg.WithFields(lineCtx, map[string]any{
			"status":     outcome.Status.String(),
			"product_id": outcome.ProductID.String(),
		}), "record reconciled")
	}
	if err := scanner.Err(); err != nil {
		pipeline.IncFailure("reconcile")
		return apperrors.Wrap(apperrors.CodeValidation, err, "reading input")
	}

	pipeline.IncSuccess("reconcile")
	logg.Info(logg.WithFields(ctx, map[string]any{
		"reconciled": reconciled,
		"skipped":    skipped,
	}), "reconcile run complete")
	return nil
}

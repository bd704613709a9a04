package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowlane/catalog-sync-backend/internal/catalog"
	"github.com/glowlane/catalog-sync-backend/internal/feed"
	"github.com/glowlane/catalog-sync-backend/internal/lifecycle"
	"github.com/glowlane/catalog-sync-backend/internal/runlock"
	"github.com/glowlane/catalog-sync-backend/pkg/db"
	"github.com/glowlane/catalog-sync-backend/pkg/db/models"
	"github.com/glowlane/catalog-sync-backend/pkg/enums"
	apperrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
	"github.com/glowlane/catalog-sync-backend/pkg/metrics"
)

// Result summarizes one export run.
type Result struct {
	RunID    string
	Files    []string
	RowCount map[enums.ExportBucket]int
	Advanced int64
}

// Service runs the full export pipeline: snapshot, transform, write feeds,
// advance lifecycle statuses.
type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type service struct {
	dbClient    *db.Client
	repo        *catalog.Repository
	transformer *Transformer
	writer      *feed.Writer
	locker      runlock.Locker
	pipeline    *metrics.PipelineMetrics
	logg        *logger.Logger
	vendor      string
}

func NewService(
	dbClient *db.Client,
	repo *catalog.Repository,
	transformer *Transformer,
	writer *feed.Writer,
	locker runlock.Locker,
	pipeline *metrics.PipelineMetrics,
	logg *logger.Logger,
	vendor string,
) (Service, error) {
	if dbClient == nil || repo == nil || transformer == nil || writer == nil || locker == nil || logg == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "export service missing dependency")
	}
	if vendor == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "export vendor is required")
	}
	return &service{
		dbClient:    dbClient,
		repo:        repo,
		transformer: transformer,
		writer:      writer,
		locker:      locker,
		pipeline:    pipeline,
		logg:        logg,
		vendor:      vendor,
	}, nil
}

func (s *service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = s.logg.WithRunID(ctx, runID)
	ctx = s.logg.WithVendor(ctx, s.vendor)

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		s.pipeline.IncFailure("export")
		return nil, err
	}
	defer release(ctx)

	result, err := s.run(ctx, runID)
	s.pipeline.ObserveDuration("export", time.Since(start))
	if err != nil {
		s.pipeline.IncFailure("export")
		return nil, err
	}
	s.pipeline.IncSuccess("export")
	return result, nil
}

func (s *service) run(ctx context.Context, runID string) (*Result, error) {
	result := &Result{
		RunID:    runID,
		RowCount: map[enums.ExportBucket]int{},
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		variants, err := repo.ListExportableVariants(ctx, s.vendor)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "listing exportable variants")
		}
		if len(variants) == 0 {
			s.logg.Info(ctx, "nothing to export")
			return nil
		}

		products, err := repo.FindProductsByIDs(ctx, productIDs(variants))
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "loading parent products")
		}

		buckets := s.buildBuckets(ctx, variants, products)
		for _, bucket := range []enums.ExportBucket{
			enums.ExportBucketNew,
			enums.ExportBucketUpdated,
			enums.ExportBucketDraft,
			enums.ExportBucketArchive,
		} {
			rows := buckets[bucket]
			if len(rows) == 0 {
				continue
			}
			path, err := s.writer.Write(bucket, s.transformer.Columns(), serialize(rows, s.transformer.Columns()))
			if err != nil {
				return err
			}
			if path != "" {
				result.Files = append(result.Files, path)
			}
			result.RowCount[bucket] = len(rows)
			s.pipeline.AddRows(bucket.String(), len(rows))
		}

		// Statuses only move once every feed file is on disk; a write
		// failure leaves the snapshot re-exportable on the next run.
		advanced, err := repo.AdvanceStatuses(ctx, skusByStatus(variants, products))
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "advancing statuses")
		}
		result.Advanced = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "rows_advanced", result.Advanced), "export run complete")
	return result, nil
}

// buildBuckets projects the snapshot into feed rows, runs the transformation
// pipeline over the whole set, then routes each resulting row to its bucket
// by lifecycle status. Merging happens before bucketing on purpose: a
// multi-variant group whose rows land in different buckets must not look
// single-variant to the merge. Archive receives every NEW, UPD and EXIST row
// again so a run can always be replayed from its archive copy.
func (s *service) buildBuckets(ctx context.Context, variants []models.Variant, products map[uuid.UUID]models.Product) map[enums.ExportBucket][]FeedRow {
	rows := make([]FeedRow, 0, len(variants)+len(products))
	for _, group := range groupByProduct(variants) {
		product, ok := products[group.productID]
		if !ok {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", group.productID.String()), "variants without parent product, exporting variants only")
		} else {
			statuses := make([]enums.LifecycleStatus, len(group.variants))
			for i, v := range group.variants {
				statuses[i] = v.Status
			}
			rows = append(rows, BuildParentRow(product, lifecycle.DeriveParentStatus(statuses)))
		}
		for _, v := range group.variants {
			rows = append(rows, BuildVariantRow(v))
		}
	}

	for i := range rows {
		rows[i] = s.transformer.Apply(rows[i])
	}
	rows = MergeSingleVariants(FanOutImages(rows))

	out := map[enums.ExportBucket][]FeedRow{}
	for _, row := range rows {
		out[bucketFor(row.Status)] = append(out[bucketFor(row.Status)], row)
		if row.Status != enums.LifecycleStatusNotReady {
			out[enums.ExportBucketArchive] = append(out[enums.ExportBucketArchive], row)
		}
	}
	return out
}

func bucketFor(status enums.LifecycleStatus) enums.ExportBucket {
	switch status {
	case enums.LifecycleStatusNew:
		return enums.ExportBucketNew
	case enums.LifecycleStatusUpdated:
		return enums.ExportBucketUpdated
	default:
		return enums.ExportBucketDraft
	}
}

type productGroup struct {
	productID uuid.UUID
	variants  []models.Variant
}

// groupByProduct splits the ordered snapshot into contiguous per-product
// runs, preserving snapshot order.
func groupByProduct(variants []models.Variant) []productGroup {
	groups := make([]productGroup, 0)
	for _, v := range variants {
		if n := len(groups); n > 0 && groups[n-1].productID == v.ProductID {
			groups[n-1].variants = append(groups[n-1].variants, v)
			continue
		}
		groups = append(groups, productGroup{productID: v.ProductID, variants: []models.Variant{v}})
	}
	return groups
}

func productIDs(variants []models.Variant) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(variants))
	ids := make([]uuid.UUID, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v.ProductID]; ok {
			continue
		}
		seen[v.ProductID] = struct{}{}
		ids = append(ids, v.ProductID)
	}
	return ids
}

// skusByStatus gathers every exported SKU under its pre-run status so the
// bulk advance moves exactly the rows this run snapshotted.
func skusByStatus(variants []models.Variant, products map[uuid.UUID]models.Product) map[enums.LifecycleStatus][]string {
	out := make(map[enums.LifecycleStatus][]string)
	for _, v := range variants {
		out[v.Status] = append(out[v.Status], v.SKU)
	}
	for _, p := range products {
		if p.SKU != nil && *p.SKU != "" {
			out[p.Status] = append(out[p.Status], *p.SKU)
		}
	}
	return out
}

func serialize(rows []FeedRow, columns []string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.Cells(columns)
	}
	return out
}

// Package reconcile decides whether an incoming scraped record is a new
// catalog entry or an update to an existing one, and assigns its lifecycle
// status. One call is one transaction against the canonical store.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowlane/catalog-sync-backend/internal/catalog"
	"github.com/glowlane/catalog-sync-backend/internal/export"
	"github.com/glowlane/catalog-sync-backend/pkg/db"
	"github.com/glowlane/catalog-sync-backend/pkg/db/models"
	"github.com/glowlane/catalog-sync-backend/pkg/enums"
	pkgerrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
)

// Outcome reports what a reconciliation call did.
type Outcome struct {
	Status    enums.LifecycleStatus
	ProductID uuid.UUID
}

// Service implements the catalog reconciliation engine.
type Service interface {
	Reconcile(ctx context.Context, record ScrapedRecord) (*Outcome, error)
}

type service struct {
	dbClient *db.Client
	repo     *catalog.Repository
	logg     *logger.Logger
}

// NewService constructs a reconciliation service.
func NewService(dbClient *db.Client, repo *catalog.Repository, logg *logger.Logger) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{dbClient: dbClient, repo: repo, logg: logg}, nil
}

// Reconcile looks up the record's catalog identity by SKU, then takes either
// the insert path (fresh product, everything NEW) or the update path
// (overwrite mutable fields, everything UPD). A record with neither its own
// SKU nor any variant SKU is rejected without touching the store.
func (s *service) Reconcile(ctx context.Context, record ScrapedRecord) (*Outcome, error) {
	variantSKUs := record.VariantSKUs()
	if len(variantSKUs) == 0 && strings.TrimSpace(record.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scraped record has no usable SKU")
	}

	var outcome *Outcome
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		outcome, txErr = s.reconcileInTx(ctx, s.repo.WithTx(tx), record, variantSKUs)
		return txErr
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconciling record")
	}
	return outcome, nil
}

func (s *service) reconcileInTx(ctx context.Context, repo *catalog.Repository, record ScrapedRecord, variantSKUs []string) (*Outcome, error) {
	productID, found, err := s.lookupIdentity(ctx, repo, record, variantSKUs)
	if err != nil {
		return nil, err
	}

	status := enums.LifecycleStatusNew
	if found {
		status = enums.LifecycleStatusUpdated
	}

	product := s.buildProduct(record, status, len(variantSKUs) > 0)
	if found {
		product.ID = productID
		if err := repo.UpdateProduct(ctx, product); err != nil {
			return nil, err
		}
	} else {
		if err := repo.CreateProduct(ctx, product); err != nil {
			return nil, err
		}
		productID = product.ID
	}

	for _, variant := range s.buildVariants(ctx, record, productID, status, len(variantSKUs) > 0) {
		if found {
			err = repo.UpsertVariant(ctx, variant)
		} else {
			err = repo.CreateVariant(ctx, variant)
		}
		if err != nil {
			return nil, err
		}
	}

	return &Outcome{Status: status, ProductID: productID}, nil
}

// lookupIdentity resolves the existing catalog entry, by the record's own SKU
// for variant-less records and by any variant SKU (first match wins) for
// multi-variant ones.
func (s *service) lookupIdentity(ctx context.Context, repo *catalog.Repository, record ScrapedRecord, variantSKUs []string) (uuid.UUID, bool, error) {
	if len(variantSKUs) > 0 {
		return repo.FindProductIDByVariantSKUs(ctx, variantSKUs)
	}
	product, err := repo.FindProductBySKU(ctx, record.SKU)
	if err != nil {
		return uuid.Nil, false, err
	}
	if product == nil {
		return uuid.Nil, false, nil
	}
	return product.ID, true, nil
}

func (s *service) buildProduct(record ScrapedRecord, status enums.LifecycleStatus, hasVariantSKUs bool) *models.Product {
	sku := record.SKU
	if hasVariantSKUs {
		// Multi-variant products are identified through their variant SKUs.
		// A record whose variants all lack SKUs keeps its own SKU, otherwise
		// nothing searchable would remain for the next run.
		sku = ""
	}
	handle := export.DeriveHandle(record.Title, firstSKU(record))
	return &models.Product{
		SKU:              normalize(sku),
		CategoryPath:     normalize(record.CategoryPath),
		SourceURL:        normalize(record.SourceURL),
		CategoryName:     normalize(record.CategoryName),
		Title:            normalize(record.Title),
		ImageURLs:        joinList(record.ImageURLs),
		Description:      normalize(record.Description),
		CertLinks:        normalize(record.CertLinks),
		Option1Name:      normalize(record.Option1Name),
		Option2Name:      normalize(record.Option2Name),
		Option3Name:      normalize(record.Option3Name),
		Tags:             normalize(record.Tags),
		ProductCategory:  normalize(record.ProductCategory),
		Type:             normalize(record.Type),
		Vendor:           normalize(record.Vendor),
		InventoryTracker: normalize(record.InventoryTracker),
		InventoryQty:     normalize(record.InventoryQty),
		Debug1:           normalize(record.Debug1),
		Debug2:           normalize(record.Debug2),
		Debug3:           normalize(record.Debug3),
		Handle:           normalize(handle),
		Status:           status,
	}
}

// buildVariants materializes the variant rows to write. A record with no
// SKU-bearing variants is a standalone single-SKU item: its variant role
// collapses into one row built from the product attributes.
func (s *service) buildVariants(ctx context.Context, record ScrapedRecord, productID uuid.UUID, status enums.LifecycleStatus, hasVariantSKUs bool) []*models.Variant {
	handle := normalize(export.DeriveHandle(record.Title, firstSKU(record)))
	vendor := normalize(record.Vendor)

	if !hasVariantSKUs {
		return []*models.Variant{{
			VarID:     record.SKU,
			ProductID: productID,
			Handle:    handle,
			ImageURL:  joinList(record.ImageURLs),
			SKU:       record.SKU,
			Status:    status,
			Debug1:    normalize(record.Debug1),
			Debug2:    normalize(record.Debug2),
			Debug3:    normalize(record.Debug3),
			Vendor:    vendor,
		}}
	}

	variants := make([]*models.Variant, 0, len(record.Variants))
	for _, v := range record.Variants {
		if v.SKU == "" {
			s.logg.Warn(ctx, "variant missing SKU, skipping")
			continue
		}
		variants = append(variants, &models.Variant{
			VarID:          v.SKU,
			ProductID:      productID,
			Handle:         handle,
			ImageURL:       normalize(v.ImageURL),
			SKU:            v.SKU,
			Option1Value:   normalize(v.Option1Value),
			Option2Value:   normalize(v.Option2Value),
			Option3Value:   normalize(v.Option3Value),
			Price:          normalize(v.Price),
			Cost:           normalize(v.Cost),
			CompareAtPrice: normalize(v.CompareAtPrice),
			Barcode:        normalize(v.Barcode),
			Weight:         normalize(v.Weight),
			WeightUnit:     normalize(v.WeightUnit),
			Published:      normalize(v.Published),
			Status:         status,
			Debug1:         normalize(record.Debug1),
			Debug2:         normalize(record.Debug2),
			Debug3:         normalize(record.Debug3),
			Vendor:         vendor,
		})
	}
	return variants
}

func firstSKU(record ScrapedRecord) string {
	for _, v := range record.Variants {
		if v.SKU != "" {
			return v.SKU
		}
	}
	return record.SKU
}

// normalize stores blank strings as NULL, never the literal empty string.
func normalize(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// joinList serializes a collection-valued field as a comma-joined string.
func joinList(values []string) *string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return normalize(strings.Join(cleaned, ", "))
}

// Package catalog persists the canonical Product/Variant rows that the
// reconciliation engine writes and the export pipeline reads.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowlane/catalog-sync-backend/internal/lifecycle"
	"github.com/glowlane/catalog-sync-backend/internal/repo"
	"github.com/glowlane/catalog-sync-backend/pkg/db/models"
	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

// mutable product columns overwritten on the reconciliation update path.
// ID and created_at stay untouched.
var productUpdateColumns = []string{
	"sku", "cat", "url", "cat_name", "title", "image_url", "descr", "cert",
	"opt_1", "opt_2", "opt_3", "tags", "product_category", "type", "vendor",
	"inventory_tracker", "inventory_quantity", "debug_1", "debug_2", "debug_3",
	"handle", "status",
}

// mutable variant columns refreshed when an upsert hits an existing var_id.
var variantConflictColumns = []string{
	"handle", "var_image_url", "opt_1_val", "opt_2_val", "opt_3_val",
	"price", "cost", "compare", "upc", "weight", "weight_grams", "published",
	"status", "debug_1", "debug_2", "debug_3", "vendor",
}

// Repository wires together all catalog persistence helpers.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(tx)}
}

// FindProductBySKU loads the product owning the given SKU. Returns (nil, nil)
// when no product carries it.
func (r *Repository) FindProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.base.DB(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductIDByVariantSKUs resolves the owning product of the first SKU in
// the list that is already known. The list order decides which match wins, so
// a product whose SKU set partially changed is still recognized.
func (r *Repository) FindProductIDByVariantSKUs(ctx context.Context, skus []string) (uuid.UUID, bool, error) {
	for _, sku := range skus {
		var variant models.Variant
		err := r.base.DB(ctx).First(&variant, "var_id = ?", sku).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return uuid.Nil, false, err
		}
		return variant.ProductID, true, nil
	}
	return uuid.Nil, false, nil
}

// CreateProduct inserts a new product row, assigning its ID when absent.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.base.DB(ctx).Create(product).Error
}

// UpdateProduct overwrites every mutable column of an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.base.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(productUpdateColumns).
		Updates(product).Error
}

// CreateVariant inserts a new variant row.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	return r.base.DB(ctx).Create(variant).Error
}

// UpsertVariant inserts the variant or refreshes its mutable columns when the
// var_id already exists.
func (r *Repository) UpsertVariant(ctx context.Context, variant *models.Variant) error {
	return r.base.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "var_id"}},
			DoUpdates: clause.AssignmentColumns(variantConflictColumns),
		}).
		Create(variant).Error
}

// ListExportableVariants snapshots every variant whose status is in the
// exportable set for the given vendor, ordered by product identity then SKU.
func (r *Repository) ListExportableVariants(ctx context.Context, vendor string) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.base.DB(ctx).
		Where("status IN ? AND vendor = ?", enums.ExportableStatuses(), vendor).
		Order("product_id, sku").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// FindProductsByIDs loads the parent rows for the given product IDs.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	var products []models.Product
	if err := r.base.DB(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// AdvanceStatuses applies the lifecycle transition table to every exported
// row, keyed by SKU. Transitions run in table order so a row advances at most
// one step per call. Both variant and product rows move together.
func (r *Repository) AdvanceStatuses(ctx context.Context, skusByStatus map[enums.LifecycleStatus][]string) (int64, error) {
	var advanced int64
	for _, t := range lifecycle.Transitions() {
		skus := skusByStatus[t.From]
		if len(skus) == 0 {
			continue
		}
		res := r.base.DB(ctx).
			Model(&models.Variant{}).
			Where("sku IN ? AND status = ?", skus, t.From).
			Update("status", t.To)
		if res.Error != nil {
			return advanced, res.Error
		}
		advanced += res.RowsAffected
		if err := r.base.DB(ctx).
			Model(&models.Product{}).
			Where("sku IN ? AND status = ?", skus, t.From).
			Update("status", t.To).Error; err != nil {
			return advanced, err
		}
	}
	return advanced, nil
}

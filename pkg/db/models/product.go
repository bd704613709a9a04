package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

// Product is the canonical catalog entry for a scraped item. One row per
// product; purchasable units live in Variant. Nullable text columns are
// pointers so blank scraped values persist as NULL, never "".
type Product struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU              *string               `gorm:"column:sku"`
	CategoryPath     *string               `gorm:"column:cat"`
	SourceURL        *string               `gorm:"column:url"`
	CategoryName     *string               `gorm:"column:cat_name"`
	Title            *string               `gorm:"column:title"`
	ImageURLs        *string               `gorm:"column:image_url"`
	Description      *string               `gorm:"column:descr"`
	CertLinks        *string               `gorm:"column:cert"`
	Option1Name      *string               `gorm:"column:opt_1"`
	Option2Name      *string               `gorm:"column:opt_2"`
	Option3Name      *string               `gorm:"column:opt_3"`
	Tags             *string               `gorm:"column:tags"`
	ProductCategory  *string               `gorm:"column:product_category"`
	Type             *string               `gorm:"column:type"`
	Vendor           *string               `gorm:"column:vendor"`
	InventoryTracker *string               `gorm:"column:inventory_tracker"`
	InventoryQty     *string               `gorm:"column:inventory_quantity"`
	Debug1           *string               `gorm:"column:debug_1"`
	Debug2           *string               `gorm:"column:debug_2"`
	Debug3           *string               `gorm:"column:debug_3"`
	Handle           *string               `gorm:"column:handle"`
	Status           enums.LifecycleStatus `gorm:"column:status;not null"`
	Variants         []Variant             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's Tabler.
func (Product) TableName() string {
	return "products"
}

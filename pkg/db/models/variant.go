package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

// Variant is one purchasable unit of a Product. VarID doubles as the SKU and
// is the global upsert conflict key.
type Variant struct {
	VarID          string                `gorm:"column:var_id;primaryKey"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Handle         *string               `gorm:"column:handle"`
	ImageURL       *string               `gorm:"column:var_image_url"`
	SKU            string                `gorm:"column:sku;not null"`
	Option1Value   *string               `gorm:"column:opt_1_val"`
	Option2Value   *string               `gorm:"column:opt_2_val"`
	Option3Value   *string               `gorm:"column:opt_3_val"`
	Price          *string               `gorm:"column:price"`
	Cost           *string               `gorm:"column:cost"`
	CompareAtPrice *string               `gorm:"column:compare"`
	Barcode        *string               `gorm:"column:upc"`
	Weight         *string               `gorm:"column:weight"`
	WeightUnit     *string               `gorm:"column:weight_grams"`
	Published      *string               `gorm:"column:published"`
	Status         enums.LifecycleStatus `gorm:"column:status;not null"`
	Debug1         *string               `gorm:"column:debug_1"`
	Debug2         *string               `gorm:"column:debug_2"`
	Debug3         *string               `gorm:"column:debug_3"`
	Vendor         *string               `gorm:"column:vendor"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's Tabler.
func (Variant) TableName() string {
	return "variants"
}

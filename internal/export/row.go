package export

import (
	"strings"

	"github.com/glowlane/catalog-sync-backend/pkg/db/models"
	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

// Destination column names as the downstream import template expects them.
const (
	ColHandle           = "Handle"
	ColTitle            = "Title"
	ColVariantSKU       = "Variant SKU"
	ColBodyHTML         = "Body (HTML)"
	ColUsefulLinks      = "Useful links! COA / Certificates / Lab results"
	ColOption1Name      = "Option1 Name"
	ColOption1Value     = "Option1 Value"
	ColOption2Name      = "Option2 Name"
	ColOption2Value     = "Option2 Value"
	ColOption3Name      = "Option3 Name"
	ColOption3Value     = "Option3 Value"
	ColCompareAtPrice   = "Variant Compare At Price"
	ColPrice            = "Variant Price"
	ColCostPerItem      = "Cost per item"
	ColTags             = "Tags"
	ColProductCategory  = "Product Category"
	ColType             = "Type"
	ColVendor           = "Vendor"
	ColImageSrc         = "Image Src"
	ColVariantImage     = "Variant Image"
	ColInventoryTracker = "Variant Inventory Tracker"
	ColInventoryQty     = "Variant Inventory Qty"
	ColBarcode          = "Variant Barcode"
	ColStatus           = "Status"
	ColGrams            = "Variant Grams"
	ColWeightUnit       = "Variant Weight Unit"
	ColCategoryName     = "cat_name"
	ColDebug1           = "debug_1"
	ColDebug2           = "debug_2"
	ColDebug3           = "debug_3"
)

// DefaultColumns is the fixed destination column order for every feed file.
func DefaultColumns() []string {
	return []string{
		ColHandle,
		ColTitle,
		ColVariantSKU,
		ColBodyHTML,
		ColUsefulLinks,
		ColOption1Name,
		ColOption1Value,
		ColOption2Name,
		ColOption2Value,
		ColOption3Name,
		ColOption3Value,
		ColCompareAtPrice,
		ColPrice,
		ColCostPerItem,
		ColTags,
		ColProductCategory,
		ColType,
		ColVendor,
		ColImageSrc,
		ColVariantImage,
		ColInventoryTracker,
		ColInventoryQty,
		ColBarcode,
		ColStatus,
		ColGrams,
		ColWeightUnit,
		ColCategoryName,
		ColDebug1,
		ColDebug2,
		ColDebug3,
	}
}

// FeedRow is one line of an export feed. Parent rows carry product attributes
// and a blank SKU until a single-variant merge fills it in; variant rows carry
// the per-variant attributes under the shared handle.
type FeedRow struct {
	Handle           string
	Title            string
	VariantSKU       string
	BodyHTML         string
	UsefulLinks      string
	Option1Name      string
	Option1Value     string
	Option2Name      string
	Option2Value     string
	Option3Name      string
	Option3Value     string
	CompareAtPrice   string
	Price            string
	CostPerItem      string
	Tags             string
	ProductCategory  string
	Type             string
	Vendor           string
	ImageSrc         string
	VariantImage     string
	InventoryTracker string
	InventoryQty     string
	Barcode          string
	Status           enums.LifecycleStatus
	Grams            string
	WeightUnit       string
	CategoryName     string
	Debug1           string
	Debug2           string
	Debug3           string
}

// Value returns the cell for a destination column. Columns the row does not
// map are emitted empty.
func (r FeedRow) Value(column string) string {
	switch column {
	case ColHandle:
		return r.Handle
	case ColTitle:
		return r.Title
	case ColVariantSKU:
		return r.VariantSKU
	case ColBodyHTML:
		return r.BodyHTML
	case ColUsefulLinks:
		return r.UsefulLinks
	case ColOption1Name:
		return r.Option1Name
	case ColOption1Value:
		return r.Option1Value
	case ColOption2Name:
		return r.Option2Name
	case ColOption2Value:
		return r.Option2Value
	case ColOption3Name:
		return r.Option3Name
	case ColOption3Value:
		return r.Option3Value
	case ColCompareAtPrice:
		return r.CompareAtPrice
	case ColPrice:
		return r.Price
	case ColCostPerItem:
		return r.CostPerItem
	case ColTags:
		return r.Tags
	case ColProductCategory:
		return r.ProductCategory
	case ColType:
		return r.Type
	case ColVendor:
		return r.Vendor
	case ColImageSrc:
		return r.ImageSrc
	case ColVariantImage:
		return r.VariantImage
	case ColInventoryTracker:
		return r.InventoryTracker
	case ColInventoryQty:
		return r.InventoryQty
	case ColBarcode:
		return r.Barcode
	case ColStatus:
		return r.Status.String()
	case ColGrams:
		return r.Grams
	case ColWeightUnit:
		return r.WeightUnit
	case ColCategoryName:
		return r.CategoryName
	case ColDebug1:
		return r.Debug1
	case ColDebug2:
		return r.Debug2
	case ColDebug3:
		return r.Debug3
	default:
		return ""
	}
}

// Cells serializes the row in the given column order.
func (r FeedRow) Cells(columns []string) []string {
	cells := make([]string, len(columns))
	for i, column := range columns {
		cells[i] = r.Value(column)
	}
	return cells
}

// BuildParentRow projects a product onto a feed row. The SKU is left blank on
// purpose; multi-variant products list SKUs on their variant rows, and
// single-variant groups merge the lone SKU back in later.
func BuildParentRow(product models.Product, status enums.LifecycleStatus) FeedRow {
	return FeedRow{
		Handle:           deref(product.Handle),
		Title:            deref(product.Title),
		BodyHTML:         deref(product.Description),
		UsefulLinks:      deref(product.CertLinks),
		Option1Name:      deref(product.Option1Name),
		Option2Name:      deref(product.Option2Name),
		Option3Name:      deref(product.Option3Name),
		Tags:             deref(product.Tags),
		ProductCategory:  deref(product.ProductCategory),
		Type:             deref(product.Type),
		Vendor:           deref(product.Vendor),
		ImageSrc:         deref(product.ImageURLs),
		InventoryTracker: deref(product.InventoryTracker),
		InventoryQty:     deref(product.InventoryQty),
		Status:           status,
		CategoryName:     deref(product.CategoryName),
		Debug1:           deref(product.Debug1),
		Debug2:           deref(product.Debug2),
		Debug3:           deref(product.Debug3),
	}
}

// BuildVariantRow projects a variant onto a feed row under its handle.
func BuildVariantRow(variant models.Variant) FeedRow {
	return FeedRow{
		Handle:         deref(variant.Handle),
		VariantSKU:     variant.SKU,
		Option1Value:   deref(variant.Option1Value),
		Option2Value:   deref(variant.Option2Value),
		Option3Value:   deref(variant.Option3Value),
		CompareAtPrice: deref(variant.CompareAtPrice),
		Price:          deref(variant.Price),
		CostPerItem:    deref(variant.Cost),
		Vendor:         deref(variant.Vendor),
		ImageSrc:       deref(variant.ImageURL),
		Barcode:        deref(variant.Barcode),
		Status:         variant.Status,
		Grams:          deref(variant.Weight),
		WeightUnit:     deref(variant.WeightUnit),
		Debug1:         deref(variant.Debug1),
		Debug2:         deref(variant.Debug2),
		Debug3:         deref(variant.Debug3),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

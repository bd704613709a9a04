package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Config carries the immutable transformation tables. Built once at startup
// and shared by every run.
type Config struct {
	Columns           []string
	CategoryTaxonomy  map[string]string
	TaxonomyTypes     map[string]string
	BarcodePrefix     string
	PlaceholderValues []string
}

// DefaultTransformConfig returns the production tables.
func DefaultTransformConfig() Config {
	return Config{
		Columns:           DefaultColumns(),
		CategoryTaxonomy:  DefaultCategoryTaxonomy(),
		TaxonomyTypes:     DefaultTaxonomyTypes(),
		BarcodePrefix:     "UPC ",
		PlaceholderValues: []string{"nan", "None", "N/A", "null"},
	}
}

// Transformer applies the per-row export rewrites. It holds the two compiled
// taxonomy mappers so Remap cost is paid at construction, not per row.
type Transformer struct {
	cfg          Config
	categories   *Mapper
	types        *Mapper
	placeholders map[string]struct{}
}

func NewTransformer(cfg Config) (*Transformer, error) {
	categories, err := NewMapper(cfg.CategoryTaxonomy)
	if err != nil {
		return nil, err
	}
	types, err := NewMapper(cfg.TaxonomyTypes)
	if err != nil {
		return nil, err
	}
	placeholders := make(map[string]struct{}, len(cfg.PlaceholderValues))
	for _, v := range cfg.PlaceholderValues {
		placeholders[strings.ToLower(v)] = struct{}{}
	}
	return &Transformer{
		cfg:          cfg,
		categories:   categories,
		types:        types,
		placeholders: placeholders,
	}, nil
}

// Columns returns the destination column order for feed serialization.
func (t *Transformer) Columns() []string {
	return t.cfg.Columns
}

// Apply rewrites a single row in place: prices to plain decimals, raw
// category into tags, taxonomy path and type through the double remap, the
// wholesaler prefix off barcodes, and placeholder text scrubbed to empty.
func (t *Transformer) Apply(row FeedRow) FeedRow {
	row.Price = NormalizeCurrency(row.Price)
	row.CompareAtPrice = NormalizeCurrency(row.CompareAtPrice)
	row.CostPerItem = NormalizeCurrency(row.CostPerItem)

	if row.CategoryName != "" {
		row.Tags = row.CategoryName
		row.ProductCategory = t.categories.Remap(row.CategoryName)
		row.Type = t.types.Remap(row.ProductCategory)
	}

	row.Barcode = strings.TrimSpace(strings.TrimPrefix(row.Barcode, t.cfg.BarcodePrefix))

	row.Title = t.scrub(row.Title)
	row.BodyHTML = t.scrub(row.BodyHTML)
	row.UsefulLinks = t.scrub(row.UsefulLinks)
	row.Option1Value = t.scrub(row.Option1Value)
	row.Option2Value = t.scrub(row.Option2Value)
	row.Option3Value = t.scrub(row.Option3Value)
	row.ImageSrc = t.scrub(row.ImageSrc)
	row.VariantImage = t.scrub(row.VariantImage)
	row.Barcode = t.scrub(row.Barcode)
	row.Grams = t.scrub(row.Grams)
	row.WeightUnit = t.scrub(row.WeightUnit)
	row.InventoryQty = t.scrub(row.InventoryQty)

	if row.Handle == "" {
		row.Handle = DeriveHandle(row.Title, row.VariantSKU)
	}
	return row
}

func (t *Transformer) scrub(value string) string {
	value = strings.TrimSpace(value)
	if _, placeholder := t.placeholders[strings.ToLower(value)]; placeholder {
		return ""
	}
	return value
}

// NormalizeCurrency strips currency symbols, thousands separators and spaces
// from an amount. The cleaned string is kept as-is so "10.00" stays "10.00";
// decimal parsing only gates validity, and values that do not parse as a
// number come back empty rather than poisoning the feed.
func NormalizeCurrency(value string) string {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return ""
	}
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return ""
	}
	return cleaned
}

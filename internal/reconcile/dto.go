package reconcile

// ScrapedRecord is one normalized catalog record handed over by the scraper:
// the product attributes plus zero or more purchasable variants. All values
// are strings; absent values arrive as "".
type ScrapedRecord struct {
	CategoryPath     string           `json:"cat"`
	SourceURL        string           `json:"url" validate:"omitempty,url"`
	CategoryName     string           `json:"cat_name"`
	Title            string           `json:"title"`
	SKU              string           `json:"sku"`
	ImageURLs        []string         `json:"image_urls"`
	Description      string           `json:"descr"`
	CertLinks        string           `json:"cert"`
	Option1Name      string           `json:"opt_1"`
	Option2Name      string           `json:"opt_2"`
	Option3Name      string           `json:"opt_3"`
	Tags             string           `json:"tags"`
	ProductCategory  string           `json:"product_category"`
	Type             string           `json:"type"`
	Vendor           string           `json:"vendor"`
	InventoryTracker string           `json:"inventory_tracker"`
	InventoryQty     string           `json:"inventory_quantity"`
	Debug1           string           `json:"debug_1"`
	Debug2           string           `json:"debug_2"`
	Debug3           string           `json:"debug_3"`
	Variants         []ScrapedVariant `json:"variants" validate:"dive"`
}

// ScrapedVariant is one purchasable unit inside a ScrapedRecord.
type ScrapedVariant struct {
	SKU            string `json:"sku"`
	ImageURL       string `json:"image_url"`
	Option1Value   string `json:"opt_1_val"`
	Option2Value   string `json:"opt_2_val"`
	Option3Value   string `json:"opt_3_val"`
	Price          string `json:"price"`
	Cost           string `json:"cost"`
	CompareAtPrice string `json:"compare"`
	Barcode        string `json:"upc"`
	Weight         string `json:"weight"`
	WeightUnit     string `json:"weight_unit"`
	Published      string `json:"published"`
}

// VariantSKUs returns the non-empty variant SKUs in declaration order.
func (r ScrapedRecord) VariantSKUs() []string {
	skus := make([]string, 0, len(r.Variants))
	for _, v := range r.Variants {
		if v.SKU != "" {
			skus = append(skus, v.SKU)
		}
	}
	return skus
}

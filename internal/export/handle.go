package export

import "strings"

var handleReplacer = strings.NewReplacer(
	" ", "_",
	",", "",
	"(", "",
	")", "",
)

// DeriveHandle builds the stable URL slug identifying a product across every
// row of the feed: the lowercased title with spaces underscored and selected
// punctuation removed, suffixed with the similarly slugified SKU when one is
// present. A row with no usable title cannot be assigned a handle and gets ""
// so downstream review can pick it up; it is never dropped.
func DeriveHandle(title, sku string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	handle := handleReplacer.Replace(strings.ToLower(title))
	if sku = strings.TrimSpace(sku); sku != "" {
		handle += "_" + handleReplacer.Replace(strings.ToLower(sku))
	}
	return handle
}

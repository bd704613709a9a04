package export

import (
	"sort"
	"strings"
)

// FanOutImages expands rows whose image field carries a comma-joined list.
// The first URL stays on the row as its featured variant image and the list
// field is cleared; every further URL becomes an image-only auxiliary row
// under the same handle. Rows with zero or one image pass through untouched.
func FanOutImages(rows []FeedRow) []FeedRow {
	out := make([]FeedRow, 0, len(rows))
	for _, row := range rows {
		urls := splitList(row.ImageSrc)
		if len(urls) < 2 {
			out = append(out, row)
			continue
		}
		row.VariantImage = urls[0]
		row.ImageSrc = ""
		out = append(out, row)
		for _, url := range urls[1:] {
			out = append(out, FeedRow{
				Handle:   row.Handle,
				ImageSrc: url,
				Status:   row.Status,
			})
		}
	}
	return out
}

// MergeSingleVariants collapses handle-groups that hold exactly one parent
// row and exactly one variant row: the variant's SKU, prices and barcode move
// onto the parent and the lone variant row is dropped. Groups with more
// variants, or without a parent, pass through unchanged. Rows without a
// handle are never grouped; they trail the output in their original order so
// downstream reconciliation can see them.
func MergeSingleVariants(rows []FeedRow) []FeedRow {
	groups := make(map[string][]FeedRow)
	handles := make([]string, 0)
	unhandled := make([]FeedRow, 0)
	for _, row := range rows {
		if row.Handle == "" {
			unhandled = append(unhandled, row)
			continue
		}
		if _, seen := groups[row.Handle]; !seen {
			handles = append(handles, row.Handle)
		}
		groups[row.Handle] = append(groups[row.Handle], row)
	}
	sort.Strings(handles)

	out := make([]FeedRow, 0, len(rows))
	for _, handle := range handles {
		out = append(out, mergeGroup(groups[handle])...)
	}
	return append(out, unhandled...)
}

func mergeGroup(group []FeedRow) []FeedRow {
	parentIdx := -1
	variantIdx := -1
	variantCount := 0
	for i, row := range group {
		if row.Title != "" && parentIdx < 0 {
			parentIdx = i
		}
		if row.VariantSKU != "" {
			variantCount++
			variantIdx = i
		}
	}
	if parentIdx < 0 || variantCount != 1 {
		return group
	}

	parent := group[parentIdx]
	variant := group[variantIdx]
	parent.VariantSKU = variant.VariantSKU
	parent.CompareAtPrice = variant.CompareAtPrice
	parent.Price = variant.Price
	parent.Barcode = variant.Barcode

	merged := make([]FeedRow, 0, len(group)-1)
	merged = append(merged, parent)
	for i, row := range group {
		if i == parentIdx || i == variantIdx {
			continue
		}
		merged = append(merged, row)
	}
	return merged
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

package enums

import "fmt"

// ExportBucket names the feed output a transformed row lands in.
type ExportBucket string

const (
	ExportBucketNew     ExportBucket = "new"
	ExportBucketUpdated ExportBucket = "upd"
	ExportBucketDraft   ExportBucket = "draft"
	ExportBucketArchive ExportBucket = "archive"
)

var validExportBuckets = []ExportBucket{
	ExportBucketNew,
	ExportBucketUpdated,
	ExportBucketDraft,
	ExportBucketArchive,
}

// String implements fmt.Stringer.
func (b ExportBucket) String() string {
	return string(b)
}

// IsValid reports whether the value is a known ExportBucket.
func (b ExportBucket) IsValid() bool {
	for _, candidate := range validExportBuckets {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseExportBucket converts raw input into an ExportBucket.
func ParseExportBucket(value string) (ExportBucket, error) {
	for _, candidate := range validExportBuckets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid export bucket %q", value)
}

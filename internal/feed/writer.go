package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/glowlane/catalog-sync-backend/pkg/enums"
	apperrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
)

// Writer renders feed buckets to CSV files. Output and archive directories
// are created on first write; empty buckets produce no file at all.
type Writer struct {
	outputDir  string
	archiveDir string
	site       string
	now        func() time.Time
}

func NewWriter(outputDir, archiveDir, site string) *Writer {
	return &Writer{
		outputDir:  outputDir,
		archiveDir: archiveDir,
		site:       site,
		now:        time.Now,
	}
}

// FileName returns the on-disk name for a bucket. The archive copy carries a
// run timestamp so successive runs never clobber each other.
func (w *Writer) FileName(bucket enums.ExportBucket) string {
	switch bucket {
	case enums.ExportBucketNew:
		return fmt.Sprintf("%s_new_for_shopify.csv", w.site)
	case enums.ExportBucketUpdated:
		return fmt.Sprintf("%s_upd_for_shopify.csv", w.site)
	case enums.ExportBucketDraft:
		return "to_draft.csv"
	case enums.ExportBucketArchive:
		return fmt.Sprintf("archive_copy_%s.csv", w.now().Format("20060102_150405"))
	default:
		return fmt.Sprintf("%s_%s.csv", w.site, bucket)
	}
}

// Write emits one bucket: a header row of the destination columns followed by
// the data rows. Returns the written path, or "" when the bucket is empty.
func (w *Writer) Write(bucket enums.ExportBucket, columns []string, rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	dir := w.outputDir
	if bucket == enums.ExportBucketArchive {
		dir = w.archiveDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "creating feed directory")
	}

	path := filepath.Join(dir, w.FileName(bucket))
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "creating feed file")
	}

	cw := csv.NewWriter(file)
	writeErr := cw.Write(columns)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = cw.Write(row)
	}
	cw.Flush()
	writeErr = multierr.Combine(writeErr, cw.Error(), file.Close())
	if writeErr != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, writeErr, "writing feed file")
	}
	return path, nil
}

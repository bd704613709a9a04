package feed

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

func TestFileNames(t *testing.T) {
	w := NewWriter(t.TempDir(), t.TempDir(), "kbeauty")
	w.now = func() time.Time { return time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC) }

	assert.Equal(t, "kbeauty_new_for_shopify.csv", w.FileName(enums.ExportBucketNew))
	assert.Equal(t, "kbeauty_upd_for_shopify.csv", w.FileName(enums.ExportBucketUpdated))
	assert.Equal(t, "to_draft.csv", w.FileName(enums.ExportBucketDraft))
	assert.Equal(t, "archive_copy_20260830_140509.csv", w.FileName(enums.ExportBucketArchive))
}

func TestWriteEmptyBucketProducesNoFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, t.TempDir(), "kbeauty")

	path, err := w.Write(enums.ExportBucketNew, []string{"Handle"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteEmitsHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, t.TempDir(), "kbeauty")

	path, err := w.Write(enums.ExportBucketNew,
		[]string{"Handle", "Title"},
		[][]string{{"toner", "Toner, Large"}, {"cream", ""}},
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "kbeauty_new_for_shopify.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Handle", "Title"}, records[0])
	assert.Equal(t, []string{"toner", "Toner, Large"}, records[1])
	assert.Equal(t, []string{"cream", ""}, records[2])
}

func TestWriteArchiveGoesToArchiveDir(t *testing.T) {
	outDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "nested")
	w := NewWriter(outDir, archiveDir, "kbeauty")

	path, err := w.Write(enums.ExportBucketArchive, []string{"Handle"}, [][]string{{"toner"}})
	require.NoError(t, err)
	assert.Equal(t, archiveDir, filepath.Dir(path))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlane/catalog-sync-backend/internal/catalog"
	"github.com/glowlane/catalog-sync-backend/internal/feed"
	"github.com/glowlane/catalog-sync-backend/internal/runlock"
	"github.com/glowlane/catalog-sync-backend/pkg/config"
	"github.com/glowlane/catalog-sync-backend/pkg/db"
	"github.com/glowlane/catalog-sync-backend/pkg/db/models"
	"github.com/glowlane/catalog-sync-backend/pkg/enums"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
)

const productsDDL = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT,
  cat TEXT,
  url TEXT,
  cat_name TEXT,
  title TEXT,
  image_url TEXT,
  descr TEXT,
  cert TEXT,
  opt_1 TEXT,
  opt_2 TEXT,
  opt_3 TEXT,
  tags TEXT,
  product_category TEXT,
  type TEXT,
  vendor TEXT,
  inventory_tracker TEXT,
  inventory_quantity TEXT,
  debug_1 TEXT,
  debug_2 TEXT,
  debug_3 TEXT,
  handle TEXT,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

const variantsDDL = `
CREATE TABLE IF NOT EXISTS variants (
  var_id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  handle TEXT,
  var_image_url TEXT,
  sku TEXT NOT NULL,
  opt_1_val TEXT,
  opt_2_val TEXT,
  opt_3_val TEXT,
  price TEXT,
  cost TEXT,
  compare TEXT,
  upc TEXT,
  weight TEXT,
  weight_grams TEXT,
  published TEXT,
  status TEXT NOT NULL,
  debug_1 TEXT,
  debug_2 TEXT,
  debug_3 TEXT,
  vendor TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

type exportFixture struct {
	service Service
	client  *db.Client
	repo    *catalog.Repository
	outDir  string
	arcDir  string
}

func setupExport(t *testing.T) *exportFixture {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(ctx, config.DBConfig{DSN: dsn, Driver: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(productsDDL).Error)
	require.NoError(t, client.DB().Exec(variantsDDL).Error)

	transformer, err := NewTransformer(DefaultTransformConfig())
	require.NoError(t, err)

	outDir := t.TempDir()
	arcDir := t.TempDir()
	repo := catalog.NewRepository(client.DB())
	svc, err := NewService(
		client,
		repo,
		transformer,
		feed.NewWriter(outDir, arcDir, "kbeauty"),
		runlock.NewNoopLocker(),
		nil,
		logger.New(logger.Options{ServiceName: "test"}),
		"glow",
	)
	require.NoError(t, err)

	return &exportFixture{service: svc, client: client, repo: repo, outDir: outDir, arcDir: arcDir}
}

func strPtr(s string) *string { return &s }

func (f *exportFixture) seedProduct(t *testing.T, sku, title, handle string, status enums.LifecycleStatus) uuid.UUID {
	t.Helper()
	var skuPtr *string
	if sku != "" {
		skuPtr = strPtr(sku)
	}
	product := &models.Product{
		SKU:    skuPtr,
		Title:  strPtr(title),
		Handle: strPtr(handle),
		Vendor: strPtr("glow"),
		Status: status,
	}
	require.NoError(t, f.repo.CreateProduct(context.Background(), product))
	return product.ID
}

func (f *exportFixture) seedVariant(t *testing.T, productID uuid.UUID, sku, handle, price string, status enums.LifecycleStatus) {
	t.Helper()
	variant := &models.Variant{
		VarID:     sku,
		ProductID: productID,
		SKU:       sku,
		Handle:    strPtr(handle),
		Price:     strPtr(price),
		Vendor:    strPtr("glow"),
		Status:    status,
	}
	require.NoError(t, f.repo.CreateVariant(context.Background(), variant))
}

func readFeed(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func cell(t *testing.T, records [][]string, row int, column string) string {
	t.Helper()
	for i, name := range records[0] {
		if name == column {
			return records[row][i]
		}
	}
	t.Fatalf("column %q not in header", column)
	return ""
}

func TestRunEmptySnapshotIsNoOp(t *testing.T) {
	f := setupExport(t)

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Advanced)

	entries, err := os.ReadDir(f.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWritesBucketsAndAdvancesStatuses(t *testing.T) {
	f := setupExport(t)
	ctx := context.Background()

	newID := f.seedProduct(t, "GT-01", "Green Tea Toner", "green_tea_toner_gt-01", enums.LifecycleStatusNew)
	f.seedVariant(t, newID, "GT-01", "green_tea_toner_gt-01", "$12.00", enums.LifecycleStatusNew)

	updID := f.seedProduct(t, "VS-30", "Vitamin Serum", "vitamin_serum_vs-30", enums.LifecycleStatusUpdated)
	f.seedVariant(t, updID, "VS-30", "vitamin_serum_vs-30", "$20.00", enums.LifecycleStatusUpdated)

	draftID := f.seedProduct(t, "SM-100", "Snail Essence", "snail_essence_sm-100", enums.LifecycleStatusExported)
	f.seedVariant(t, draftID, "SM-100", "snail_essence_sm-100", "$18.00", enums.LifecycleStatusExported)

	result, err := f.service.Run(ctx)
	require.NoError(t, err)

	newFeed := readFeed(t, filepath.Join(f.outDir, "kbeauty_new_for_shopify.csv"))
	require.Len(t, newFeed, 2)
	assert.Equal(t, "green_tea_toner_gt-01", cell(t, newFeed, 1, "Handle"))
	// Single-variant merge: one row carrying both title and SKU, price
	// normalized to a plain decimal.
	assert.Equal(t, "Green Tea Toner", cell(t, newFeed, 1, "Title"))
	assert.Equal(t, "GT-01", cell(t, newFeed, 1, "Variant SKU"))
	assert.Equal(t, "12.00", cell(t, newFeed, 1, "Variant Price"))

	updFeed := readFeed(t, filepath.Join(f.outDir, "kbeauty_upd_for_shopify.csv"))
	require.Len(t, updFeed, 2)
	assert.Equal(t, "VS-30", cell(t, updFeed, 1, "Variant SKU"))

	draftFeed := readFeed(t, filepath.Join(f.outDir, "to_draft.csv"))
	require.Len(t, draftFeed, 2)
	assert.Equal(t, "SM-100", cell(t, draftFeed, 1, "Variant SKU"))

	archives, err := os.ReadDir(f.arcDir)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	archive := readFeed(t, filepath.Join(f.arcDir, archives[0].Name()))
	assert.Len(t, archive, 4)

	// Post-run statuses: NEW and UPD promote to EXIST, EXIST retires to
	// NOT_READY, all in the same run without double-stepping.
	want := map[string]enums.LifecycleStatus{
		"GT-01":  enums.LifecycleStatusExported,
		"VS-30":  enums.LifecycleStatusExported,
		"SM-100": enums.LifecycleStatusNotReady,
	}
	for sku, status := range want {
		var variant models.Variant
		require.NoError(t, f.client.DB().First(&variant, "sku = ?", sku).Error)
		assert.Equal(t, status, variant.Status, "variant %s", sku)

		var product models.Product
		require.NoError(t, f.client.DB().First(&product, "sku = ?", sku).Error)
		assert.Equal(t, status, product.Status, "product %s", sku)
	}
	assert.Positive(t, result.Advanced)
}

func TestRunRoundTrip(t *testing.T) {
	f := setupExport(t)
	ctx := context.Background()

	id := f.seedProduct(t, "GT-01", "Green Tea Toner", "green_tea_toner_gt-01", enums.LifecycleStatusNew)
	f.seedVariant(t, id, "GT-01", "green_tea_toner_gt-01", "$12.00", enums.LifecycleStatusNew)

	_, err := f.service.Run(ctx)
	require.NoError(t, err)
	_, err = f.service.Run(ctx)
	require.NoError(t, err)

	// Two untouched runs walk the rows NEW -> EXIST -> NOT_READY; a third
	// run leaves them parked there.
	_, err = f.service.Run(ctx)
	require.NoError(t, err)

	var variant models.Variant
	require.NoError(t, f.client.DB().First(&variant, "sku = ?", "GT-01").Error)
	assert.Equal(t, enums.LifecycleStatusNotReady, variant.Status)
}

func TestRunExportsMultiVariantParentWithBlankSKU(t *testing.T) {
	f := setupExport(t)
	ctx := context.Background()

	id := f.seedProduct(t, "", "Vitamin Serum", "vitamin_serum_vs-30", enums.LifecycleStatusNew)
	f.seedVariant(t, id, "VS-30", "vitamin_serum_vs-30", "$20.00", enums.LifecycleStatusNew)
	f.seedVariant(t, id, "VS-50", "vitamin_serum_vs-30", "$28.00", enums.LifecycleStatusNew)

	_, err := f.service.Run(ctx)
	require.NoError(t, err)

	newFeed := readFeed(t, filepath.Join(f.outDir, "kbeauty_new_for_shopify.csv"))
	require.Len(t, newFeed, 4)

	// No merge for a two-variant group: the parent row keeps its blank SKU
	// and both variant rows survive.
	assert.Equal(t, "Vitamin Serum", cell(t, newFeed, 1, "Title"))
	assert.Equal(t, "", cell(t, newFeed, 1, "Variant SKU"))
	assert.Equal(t, "VS-30", cell(t, newFeed, 2, "Variant SKU"))
	assert.Equal(t, "VS-50", cell(t, newFeed, 3, "Variant SKU"))
}

func TestRunDerivesParentStatusFromVariants(t *testing.T) {
	f := setupExport(t)
	ctx := context.Background()

	// Parent row is stale EXIST but one variant changed: the parent must
	// export as UPD alongside it.
	id := f.seedProduct(t, "", "Vitamin Serum", "vitamin_serum_vs-30", enums.LifecycleStatusExported)
	f.seedVariant(t, id, "VS-30", "vitamin_serum_vs-30", "$20.00", enums.LifecycleStatusUpdated)
	f.seedVariant(t, id, "VS-50", "vitamin_serum_vs-30", "$28.00", enums.LifecycleStatusExported)

	_, err := f.service.Run(ctx)
	require.NoError(t, err)

	updFeed := readFeed(t, filepath.Join(f.outDir, "kbeauty_upd_for_shopify.csv"))
	require.Len(t, updFeed, 3)
	assert.Equal(t, "Vitamin Serum", cell(t, updFeed, 1, "Title"))
	assert.Equal(t, "UPD", cell(t, updFeed, 1, "Status"))
	assert.Equal(t, "VS-30", cell(t, updFeed, 2, "Variant SKU"))
}

func TestRunFansOutImages(t *testing.T) {
	f := setupExport(t)
	ctx := context.Background()

	product := &models.Product{
		SKU:       strPtr("GT-01"),
		Title:     strPtr("Green Tea Toner"),
		Handle:    strPtr("green_tea_toner_gt-01"),
		Vendor:    strPtr("glow"),
		ImageURLs: strPtr("a.jpg, b.jpg, c.jpg"),
		Status:    enums.LifecycleStatusNew,
	}
	require.NoError(t, f.repo.CreateProduct(ctx, product))
	f.seedVariant(t, product.ID, "GT-01", "green_tea_toner_gt-01", "$12.00", enums.LifecycleStatusNew)

	_, err := f.service.Run(ctx)
	require.NoError(t, err)

	newFeed := readFeed(t, filepath.Join(f.outDir, "kbeauty_new_for_shopify.csv"))
	require.Len(t, newFeed, 4)
	assert.Equal(t, "a.jpg", cell(t, newFeed, 1, "Variant Image"))
	assert.Equal(t, "", cell(t, newFeed, 1, "Image Src"))
	assert.Equal(t, "b.jpg", cell(t, newFeed, 2, "Image Src"))
	assert.Equal(t, "c.jpg", cell(t, newFeed, 3, "Image Src"))
}

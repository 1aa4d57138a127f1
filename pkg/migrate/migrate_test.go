package migrate

import (
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate(Embedded()))
	require.NoError(t, Validate(os.DirFS("migrations")))
}

func TestCatalogMigrationsContainSchema(t *testing.T) {
	contents := readAll(t, Embedded())

	checks := []string{
		"CREATE TABLE IF NOT EXISTS brands",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_brands_name ON brands (name)",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories (name)",
		"CREATE TABLE IF NOT EXISTS age_groups",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_age_groups_label ON age_groups (label)",
		"CREATE TABLE IF NOT EXISTS products",
		"keywords text[] NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku ON products (sku)",
		"CREATE TABLE IF NOT EXISTS product_images",
		"REFERENCES products(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_images_one_primary",
	}
	for _, sub := range checks {
		assert.Contains(t, contents, sub)
	}
}

func TestValidateRejectsBadFiles(t *testing.T) {
	good := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"

	badName := fstest.MapFS{"create_brands.sql": {Data: []byte(good)}}
	assert.ErrorContains(t, Validate(badName), "invalid migration filename")

	dup := fstest.MapFS{
		"20250101000000_a.sql": {Data: []byte(good)},
		"20250101000000_b.sql": {Data: []byte(good)},
	}
	assert.ErrorContains(t, Validate(dup), "duplicate migration version")

	noDown := fstest.MapFS{"20250101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}}
	assert.ErrorContains(t, Validate(noDown), "-- +goose Down")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Brand Logo!", now)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "20250304050607_add_brand_logo.sql"), path)
	require.NoError(t, Validate(os.DirFS(dir)))

	_, err = CreateSQLMigration(dir, "Add Brand Logo!", now)
	assert.Error(t, err, "existing migration must not be overwritten")

	_, err = CreateSQLMigration(dir, "!!!", now)
	assert.Error(t, err)
}

func readAll(t *testing.T, fsys fs.FS) string {
	t.Helper()
	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	var b strings.Builder
	for _, e := range entries {
		data, err := fs.ReadFile(fsys, e.Name())
		require.NoError(t, err)
		b.Write(data)
	}
	return b.String()
}

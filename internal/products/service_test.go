package product

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/db"
	"github.com/giggleglory/backoffice/pkg/db/dbtest"
	"github.com/giggleglory/backoffice/pkg/db/models"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

type fixture struct {
	client  *db.Client
	repo    *Repository
	taxRepo *taxonomy.Repository
	svc     Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Client(t)
	taxRepo := taxonomy.NewRepository(client.DB())
	resolver, err := taxonomy.NewResolver(taxRepo)
	require.NoError(t, err)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client, resolver)
	require.NoError(t, err)
	return fixture{client: client, repo: repo, taxRepo: taxRepo, svc: svc}
}

func sampleInput(sku string) ProductInput {
	urls := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	return ProductInput{
		Name:      "Classic Bricks",
		SKU:       sku,
		Price:     decimal.RequireFromString("499.00"),
		Discount:  decimal.NewFromInt(10),
		Keywords:  []string{"bricks", " build ", ""},
		MetaTitle: "Classic Bricks",
		Brand:     "Lego",
		Category:  "Building Blocks",
		AgeGroup:  "4-6 years",
		ImageURLs: &urls,
	}
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseKeywords(" a, b ,,c "))
	assert.Equal(t, []string{"z", "y"}, ParseKeywords([]string{"z", " y "}))
	assert.Equal(t, []string{"x", "3"}, ParseKeywords([]any{"x", float64(3), nil}))
	assert.Equal(t, []string{}, ParseKeywords(nil))
	assert.Equal(t, []string{}, ParseKeywords(""))
}

func TestKeywordsUnmarshalJSON(t *testing.T) {
	var body struct {
		Keywords Keywords `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"keywords":"toys, kids"}`), &body))
	assert.Equal(t, Keywords{"toys", "kids"}, body.Keywords)

	require.NoError(t, json.Unmarshal([]byte(`{"keywords":["kids","toys"]}`), &body))
	assert.Equal(t, Keywords{"kids", "toys"}, body.Keywords)

	assert.Error(t, json.Unmarshal([]byte(`{"keywords":42}`), &body))
}

func TestCreateProductResolvesReferencesAndImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateProduct(ctx, sampleInput("SKU-1"))
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", created.SKU)
	assert.True(t, created.IsActive)
	assert.Equal(t, 499.0, created.Price)
	assert.Equal(t, []string{"bricks", "build"}, created.Keywords)
	require.NotNil(t, created.Brand)
	assert.Equal(t, "Lego", *created.Brand)
	require.NotNil(t, created.AgeGroup)
	assert.Equal(t, "4-6 years", *created.AgeGroup)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, created.ImageURLs)

	brands, err := f.taxRepo.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 1, "missing brand is created once")

	_, err = f.svc.CreateProduct(ctx, sampleInput("SKU-1"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestUpdateProductOverwritesAndReplacesImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateProduct(ctx, sampleInput("SKU-2"))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteProduct(ctx, created.ID))

	input := sampleInput("SKU-2")
	input.Name = "Classic Bricks XL"
	input.Price = decimal.RequireFromString("599.5")
	input.Brand = "Mega"
	urls := []string{"https://cdn.example.com/c.jpg"}
	input.ImageURLs = &urls

	updated, err := f.svc.UpdateProduct(ctx, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Classic Bricks XL", updated.Name)
	assert.Equal(t, 599.5, updated.Price)
	assert.True(t, updated.IsActive, "update reactivates the product")
	require.NotNil(t, updated.Brand)
	assert.Equal(t, "Mega", *updated.Brand)
	assert.Equal(t, []string{"https://cdn.example.com/c.jpg"}, updated.ImageURLs)

	var images []models.ProductImage
	require.NoError(t, f.client.DB().Where("product_id = ?", created.ID).Find(&images).Error)
	require.Len(t, images, 1)
	assert.True(t, images[0].IsPrimary)
}

func TestUpdateProductKeepsImagesWhenOmitted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateProduct(ctx, sampleInput("SKU-3"))
	require.NoError(t, err)

	input := sampleInput("SKU-3")
	input.ImageURLs = nil
	updated, err := f.svc.UpdateProduct(ctx, created.ID, input)
	require.NoError(t, err)
	assert.Len(t, updated.ImageURLs, 2)

	_, err = f.svc.UpdateProduct(ctx, uuid.New(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProductIsLogical(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateProduct(ctx, sampleInput("SKU-4"))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteProduct(ctx, created.ID))

	got, err := f.svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = f.svc.DeleteProduct(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpsertBySKULastWriteWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.taxRepo.UpsertBrand(ctx, "Lego", decimal.Zero))
	require.NoError(t, f.taxRepo.UpsertCategory(ctx, "Blocks"))
	require.NoError(t, f.taxRepo.UpsertAgeGroup(ctx, "4-6 years"))
	brand, err := f.taxRepo.FindIDByKey(ctx, taxonomy.KindBrand, "Lego")
	require.NoError(t, err)
	category, err := f.taxRepo.FindIDByKey(ctx, taxonomy.KindCategory, "Blocks")
	require.NoError(t, err)
	ageGroup, err := f.taxRepo.FindIDByKey(ctx, taxonomy.KindAgeGroup, "4-6 years")
	require.NoError(t, err)

	row := func(price string) *models.Product {
		return &models.Product{
			Name:       "Bricks",
			SKU:        "SKU-1",
			Price:      decimal.RequireFromString(price),
			Keywords:   pq.StringArray{"a"},
			IsActive:   true,
			BrandID:    brand,
			CategoryID: category,
			AgeGroupID: ageGroup,
		}
	}
	require.NoError(t, f.repo.UpsertBySKU(ctx, row("10")))
	require.NoError(t, f.repo.UpsertBySKU(ctx, row("12.5")))

	var count int64
	require.NoError(t, f.client.DB().Model(&models.Product{}).Where("sku = ?", "SKU-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := f.repo.FindBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("12.5")))
}

func TestRecommendedFiltersActiveAndCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateProduct(ctx, sampleInput("SKU-A"))
	require.NoError(t, err)
	hidden, err := f.svc.CreateProduct(ctx, sampleInput("SKU-B"))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteProduct(ctx, hidden.ID))
	other := sampleInput("SKU-C")
	other.Category = "Puzzles"
	other.ImageURLs = nil
	_, err = f.svc.CreateProduct(ctx, other)
	require.NoError(t, err)

	all, err := f.svc.Recommended(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	blocks, err := f.svc.Recommended(ctx, 10, "Building Blocks")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "SKU-A", blocks[0].SKU)
	assert.Equal(t, "https://cdn.example.com/a.jpg", blocks[0].Image)
	assert.InDelta(t, 449.1, blocks[0].EffectivePrice, 0.001)

	limited, err := f.svc.Recommended(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

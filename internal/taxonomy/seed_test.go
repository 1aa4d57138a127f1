package taxonomy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giggleglory/backoffice/pkg/db/dbtest"
	"github.com/giggleglory/backoffice/pkg/db/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	resolver, err := NewResolver(repo)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertBrand(ctx, "Lego", decimal.NewFromInt(20)))

	counts, err := Seed(ctx, resolver)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultBrands), counts[KindBrand])

	_, err = Seed(ctx, resolver)
	require.NoError(t, err)

	var brands, categories, ageGroups int64
	require.NoError(t, conn.Model(&models.Brand{}).Count(&brands).Error)
	require.NoError(t, conn.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, conn.Model(&models.AgeGroup{}).Count(&ageGroups).Error)
	assert.Equal(t, int64(len(DefaultBrands)), brands)
	assert.Equal(t, int64(len(DefaultCategories)), categories)
	assert.Equal(t, int64(len(DefaultAgeGroups)), ageGroups)

	var lego models.Brand
	require.NoError(t, conn.Where("name = ?", "Lego").First(&lego).Error)
	assert.True(t, lego.Discount.Equal(decimal.NewFromInt(20)), "seed must not reset an existing discount")
}
